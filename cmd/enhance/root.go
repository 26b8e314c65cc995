package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ericfisherdev/promptenhancer/internal/application"
	"github.com/ericfisherdev/promptenhancer/internal/domain/model"
	"github.com/ericfisherdev/promptenhancer/internal/domain/port/driven"
)

// completerFactory builds the Completer for a provider, model and base URL.
type completerFactory func(provider model.Provider, modelID, baseURL string) (driven.Completer, error)

// credentialEnv names the environment variable read when --api-key is empty.
var credentialEnv = map[model.Provider]string{
	model.ProviderOpenAI:    "OPENAI_API_KEY",
	model.ProviderAnthropic: "ANTHROPIC_API_KEY",
}

type rootOptions struct {
	role     string
	context  string
	task     string
	apiKey   string
	provider string
	model    string
	baseURL  string
	verbose  bool
	noColor  bool
}

// newRootCmd builds the enhance command around newCompleter.
func newRootCmd(newCompleter completerFactory) *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "enhance",
		Short: "Turn a role, context and task into an enhanced LLM prompt",
		Long: `Enhance sends the role, context and task through a fixed prompt-engineering
template to an LLM and prints the enhanced prompt.

The API key is taken from --api-key, or from OPENAI_API_KEY (ANTHROPIC_API_KEY
with --provider anthropic). It is never printed or logged.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return exitError(ExitInvalidArgs, "enhance: %v", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEnhance(cmd, opts, newCompleter)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return exitError(ExitInvalidArgs, "enhance: %v", err)
	})

	f := cmd.Flags()
	f.StringVar(&opts.role, "role", "", "who the AI should act as")
	f.StringVar(&opts.context, "context", "", "background for the request")
	f.StringVar(&opts.task, "task", "", "what the AI should do")
	f.StringVar(&opts.apiKey, "api-key", "", "provider API key (defaults to the provider's environment variable)")
	f.StringVar(&opts.provider, "provider", string(model.ProviderOpenAI), "completion provider: openai or anthropic")
	f.StringVar(&opts.model, "model", "", "model identifier (defaults to the provider's default)")
	f.StringVar(&opts.baseURL, "base-url", "", "override the provider endpoint")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log request details to stderr")
	f.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	return cmd
}

func runEnhance(cmd *cobra.Command, opts rootOptions, newCompleter completerFactory) error {
	if opts.noColor {
		color.NoColor = true
	}

	provider := model.Provider(strings.ToLower(opts.provider))
	llm, err := newCompleter(provider, opts.model, opts.baseURL)
	if err != nil {
		return exitError(ExitInvalidArgs, "enhance: %v", err)
	}

	apiKey := opts.apiKey
	if apiKey == "" {
		apiKey = os.Getenv(credentialEnv[provider])
	}

	svc := application.NewEnhanceService(llm, nil, "", newLogger(cmd.ErrOrStderr(), opts.verbose))
	result, err := svc.Enhance(cmd.Context(), model.PromptInput{
		Credential: model.Secret(apiKey),
		Role:       opts.role,
		Context:    opts.context,
		Task:       opts.task,
	})

	var verr *application.ValidationError
	if errors.As(err, &verr) {
		return exitError(ExitInvalidArgs, "%s (missing: %s)", verr.Error(), strings.Join(verr.Missing, ", "))
	}
	if err != nil {
		return err
	}

	if result.Failed {
		_, _ = color.New(color.FgRed).Fprintln(cmd.ErrOrStderr(), result.Text)
		return &exitCodeError{code: ExitRemoteFailure}
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), result.Text)
	return nil
}

// newLogger writes errors to w, or everything down to debug when verbose.
// Failed completions are already printed, so warnings stay quiet by default.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelError
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
