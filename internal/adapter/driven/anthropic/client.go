// Package anthropic implements the Completer port on the Anthropic Messages
// API, as an alternative to the OpenAI adapter.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/tidwall/gjson"

	"github.com/ericfisherdev/promptenhancer/internal/domain/model"
	"github.com/ericfisherdev/promptenhancer/internal/domain/port/driven"
)

const (
	// DefaultModel is the model used when no override is provided.
	DefaultModel = "claude-sonnet-4-5-20250929"

	// defaultMaxTokens caps the response length; the Messages API requires one.
	defaultMaxTokens = 4096
)

// Compile-time interface satisfaction check.
var _ driven.Completer = (*Client)(nil)

// Client implements driven.Completer with the official Anthropic SDK. Like
// the OpenAI adapter it builds a fresh SDK client per call and disables the
// SDK's automatic retries so each action issues exactly one request.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
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

// WithHTTPClient replaces the HTTP client used by the SDK.
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

// Provider returns model.ProviderAnthropic.
func (c *Client) Provider() model.Provider {
	return model.ProviderAnthropic
}

// DefaultModel returns the model used when a request leaves it empty.
func (c *Client) DefaultModel() string {
	return c.model
}

// Complete sends one Messages API request and returns the concatenated text
// blocks of the reply.
func (c *Client) Complete(ctx context.Context, credential string, req model.CompletionRequest) (string, error) {
	clientOpts := []option.RequestOption{
		option.WithAPIKey(credential),
		option.WithMaxRetries(0),
	}
	if c.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(c.baseURL))
	}
	if c.httpClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(c.httpClient))
	}
	client := sdk.NewClient(clientOpts...)

	modelID := req.Model
	if modelID == "" {
		modelID = c.model
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(modelID),
		MaxTokens: defaultMaxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt)),
		},
		Temperature: sdk.Float(req.Temperature),
	}
	if req.SystemPrompt != "" {
		params.System = []sdk.TextBlockParam{{Text: req.SystemPrompt}}
	}

	msg, err := client.Messages.New(ctx, params)
	if err != nil {
		return "", classify(err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if variant, ok := block.AsAny().(sdk.TextBlock); ok {
			b.WriteString(variant.Text)
		}
	}
	if b.Len() == 0 {
		return "", &model.CompletionError{
			Kind:       model.ErrorKindMalformed,
			StatusCode: http.StatusOK,
			Message:    "no text content in response",
		}
	}

	return b.String(), nil
}

// classify converts an SDK error into a *model.CompletionError. For API
// errors the message is taken from the error envelope's "error.message".
func classify(err error) *model.CompletionError {
	var (
		apiErr    *sdk.Error
		urlErr    *url.Error
		netErr    net.Error
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &apiErr):
		msg := gjson.Get(apiErr.RawJSON(), "error.message").String()
		if msg == "" {
			msg = apiErr.Error()
		}
		return &model.CompletionError{
			Kind:       kindForStatus(apiErr.StatusCode),
			StatusCode: apiErr.StatusCode,
			Message:    msg,
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
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return model.ErrorKindAuth
	case http.StatusTooManyRequests:
		return model.ErrorKindRateLimit
	default:
		return model.ErrorKindUpstream
	}
}
