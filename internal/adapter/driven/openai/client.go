// Package openai implements the Completer port using the go-openai library.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"

	oa "github.com/sashabaranov/go-openai"

	"github.com/ericfisherdev/promptenhancer/internal/domain/model"
	"github.com/ericfisherdev/promptenhancer/internal/domain/port/driven"
)

// DefaultModel is the chat model used when neither the client nor the
// request names one.
const DefaultModel = oa.GPT4

// Compile-time interface satisfaction check.
var _ driven.Completer = (*Client)(nil)

// Client implements driven.Completer against the OpenAI chat completions API
// or any compatible endpoint. A fresh go-openai client is built for every
// call from the credential supplied with it; nothing is cached between calls.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a compatible endpoint. The URL must
// include the API version path, e.g. "https://api.openai.com/v1".
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithModel overrides DefaultModel. An empty model keeps the default.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPClient replaces the HTTP client. No timeout is configured by
// default; the library's client default applies.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	c := &Client{model: DefaultModel}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Provider returns model.ProviderOpenAI.
func (c *Client) Provider() model.Provider {
	return model.ProviderOpenAI
}

// DefaultModel returns the model used when a request leaves it empty.
func (c *Client) DefaultModel() string {
	return c.model
}

// Complete sends one chat completion request made of a system message and a
// user message, and returns the content of the first choice.
func (c *Client) Complete(ctx context.Context, credential string, req model.CompletionRequest) (string, error) {
	cfg := oa.DefaultConfig(credential)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	if c.httpClient != nil {
		cfg.HTTPClient = c.httpClient
	}
	client := oa.NewClientWithConfig(cfg)

	modelID := req.Model
	if modelID == "" {
		modelID = c.model
	}

	resp, err := client.CreateChatCompletion(ctx, oa.ChatCompletionRequest{
		Model: modelID,
		Messages: []oa.ChatCompletionMessage{
			{Role: oa.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: oa.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", &model.CompletionError{
			Kind:       model.ErrorKindMalformed,
			StatusCode: http.StatusOK,
			Message:    "no choices in response",
		}
	}

	return resp.Choices[0].Message.Content, nil
}

// classify converts a go-openai error into a *model.CompletionError whose
// message is the API's own error message when one was returned.
func classify(err error) *model.CompletionError {
	var (
		apiErr    *oa.APIError
		reqErr    *oa.RequestError
		urlErr    *url.Error
		netErr    net.Error
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &apiErr):
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Error()
		}
		return &model.CompletionError{
			Kind:       kindForStatus(apiErr.HTTPStatusCode),
			StatusCode: apiErr.HTTPStatusCode,
			Message:    msg,
			Err:        err,
		}
	case errors.As(err, &reqErr):
		return &model.CompletionError{
			Kind:       kindForStatus(reqErr.HTTPStatusCode),
			StatusCode: reqErr.HTTPStatusCode,
			Message:    reqErr.Error(),
			Err:        err,
		}
	case errors.As(err, &urlErr), errors.As(err, &netErr),
		errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &model.CompletionError{Kind: model.ErrorKindNetwork, Err: err}
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &model.CompletionError{Kind: model.ErrorKindMalformed, Err: err}
	default:
		return &model.CompletionError{Kind: model.ErrorKindUnknown, Err: err}
	}
}

func kindForStatus(status int) model.ErrorKind {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return model.ErrorKindAuth
	case status == http.StatusTooManyRequests:
		return model.ErrorKindRateLimit
	case status == 0:
		return model.ErrorKindNetwork
	default:
		return model.ErrorKindUpstream
	}
}
