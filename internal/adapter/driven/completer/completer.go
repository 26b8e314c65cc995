// Package completer selects the Completer adapter for a configured provider.
package completer

import (
	"fmt"

	"github.com/ericfisherdev/promptenhancer/internal/adapter/driven/anthropic"
	"github.com/ericfisherdev/promptenhancer/internal/adapter/driven/openai"
	"github.com/ericfisherdev/promptenhancer/internal/domain/model"
	"github.com/ericfisherdev/promptenhancer/internal/domain/port/driven"
)

// New returns the adapter for provider. Empty modelID and baseURL keep the
// adapter's defaults.
func New(provider model.Provider, modelID, baseURL string) (driven.Completer, error) {
	switch provider {
	case model.ProviderOpenAI:
		opts := []openai.Option{openai.WithModel(modelID)}
		if baseURL != "" {
			opts = append(opts, openai.WithBaseURL(baseURL))
		}
		return openai.NewClient(opts...), nil
	case model.ProviderAnthropic:
		opts := []anthropic.Option{anthropic.WithModel(modelID)}
		if baseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(baseURL))
		}
		return anthropic.NewClient(opts...), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", provider)
	}
}
