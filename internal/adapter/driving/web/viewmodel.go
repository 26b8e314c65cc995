package web

import (
	"slices"

	vm "github.com/ericfisherdev/promptenhancer/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/promptenhancer/internal/domain/model"
)

const (
	pageTitle       = "AI Prompt Enhancer"
	pageDescription = "Enter your prompt details below to get an enhanced version optimized for AI responses."
)

// credentialLabels names the key the user must paste, per provider.
var credentialLabels = map[model.Provider]string{
	model.ProviderOpenAI:    "Enter your OpenAI API Key:",
	model.ProviderAnthropic: "Enter your Anthropic API Key:",
}

// toPageViewModel builds the page for the given provider, CSRF token and
// submitted input. Pass a zero PromptInput for the initial empty form.
func toPageViewModel(provider model.Provider, csrfToken string, in model.PromptInput, missing []string) vm.PageViewModel {
	label, ok := credentialLabels[provider]
	if !ok {
		label = "Enter your API Key:"
	}

	return vm.PageViewModel{
		Title:         pageTitle,
		Description:   pageDescription,
		CSRFToken:     csrfToken,
		MissingFields: missing,
		Form: vm.FormViewModel{
			Action:          "/enhance",
			CredentialLabel: label,
			SubmitLabel:     "Enhance Prompt",
			BusyText:        "Enhancing your prompt...",
			Fields: []vm.FieldViewModel{
				{
					Name:    model.FieldRole,
					Label:   "Role (Who should AI act as?):",
					Help:    "Example: You are an experienced business consultant",
					Value:   in.Role,
					Missing: slices.Contains(missing, model.FieldRole),
				},
				{
					Name:    model.FieldContext,
					Label:   "Context (What's the background?):",
					Help:    "Example: I'm preparing a business plan for a startup",
					Value:   in.Context,
					Missing: slices.Contains(missing, model.FieldContext),
				},
				{
					Name:    model.FieldTask,
					Label:   "Task (What do you want AI to do?):",
					Help:    "Example: Review my business plan and provide feedback",
					Value:   in.Task,
					Missing: slices.Contains(missing, model.FieldTask),
				},
			},
		},
	}
}

// toResultViewModel converts an Enhancement for display.
func toResultViewModel(result model.Enhancement) *vm.ResultViewModel {
	return &vm.ResultViewModel{
		Heading: "Enhanced Prompt:",
		HTML:    RenderMarkdown(result.Text),
		Text:    result.Text,
		Failed:  result.Failed,
		RunID:   result.RunID,
	}
}
