package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	openaiadapter "github.com/ericfisherdev/promptenhancer/internal/adapter/driven/openai"
	"github.com/ericfisherdev/promptenhancer/internal/domain/model"
)

type capturedRequest struct {
	path   string
	auth   string
	method string
	body   map[string]any
}

// newTestClient starts an httptest server answering every request with the
// given status and body, and returns a Client pointed at it.
func newTestClient(t *testing.T, status int, body string, captured *capturedRequest) *openaiadapter.Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			captured.path = r.URL.Path
			captured.auth = r.Header.Get("Authorization")
			captured.method = r.Method
			_ = json.NewDecoder(r.Body).Decode(&captured.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return openaiadapter.NewClient(
		openaiadapter.WithBaseURL(server.URL+"/v1"),
		openaiadapter.WithHTTPClient(server.Client()),
	)
}

func testRequest() model.CompletionRequest {
	return model.CompletionRequest{
		SystemPrompt: "You are an expert prompt engineer.",
		Prompt:       "Role: r\nContext: c\nTask: t",
		Temperature:  0.7,
	}
}

const successBody = `{
	"id": "chatcmpl-1",
	"object": "chat.completion",
	"model": "gpt-4",
	"choices": [
		{"index": 0, "message": {"role": "assistant", "content": "ENHANCED"}, "finish_reason": "stop"},
		{"index": 1, "message": {"role": "assistant", "content": "second"}, "finish_reason": "stop"}
	],
	"usage": {"prompt_tokens": 10, "completion_tokens": 2, "total_tokens": 12}
}`

func TestComplete_ReturnsFirstChoice(t *testing.T) {
	var captured capturedRequest
	client := newTestClient(t, http.StatusOK, successBody, &captured)

	text, err := client.Complete(context.Background(), "sk-test", testRequest())

	require.NoError(t, err)
	assert.Equal(t, "ENHANCED", text)
}

func TestComplete_SendsRequestShape(t *testing.T) {
	var captured capturedRequest
	client := newTestClient(t, http.StatusOK, successBody, &captured)

	_, err := client.Complete(context.Background(), "sk-test", testRequest())
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "/v1/chat/completions", captured.path)
	assert.Equal(t, "Bearer sk-test", captured.auth)
	assert.Equal(t, "gpt-4", captured.body["model"])
	assert.InDelta(t, 0.7, captured.body["temperature"], 1e-6)

	messages, ok := captured.body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)

	system := messages[0].(map[string]any)
	assert.Equal(t, "system", system["role"])
	assert.Equal(t, "You are an expert prompt engineer.", system["content"])

	user := messages[1].(map[string]any)
	assert.Equal(t, "user", user["role"])
	assert.Equal(t, "Role: r\nContext: c\nTask: t", user["content"])
}

func TestComplete_ModelPrecedence(t *testing.T) {
	var captured capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured.body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(successBody))
	}))
	t.Cleanup(server.Close)

	client := openaiadapter.NewClient(
		openaiadapter.WithBaseURL(server.URL),
		openaiadapter.WithModel("gpt-4o-mini"),
	)
	assert.Equal(t, "gpt-4o-mini", client.DefaultModel())

	_, err := client.Complete(context.Background(), "sk-test", testRequest())
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", captured.body["model"])

	req := testRequest()
	req.Model = "gpt-4-turbo"
	_, err = client.Complete(context.Background(), "sk-test", req)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4-turbo", captured.body["model"])
}

func TestComplete_APIErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    model.ErrorKind
		message string
	}{
		{
			name:    "rate limited",
			status:  http.StatusTooManyRequests,
			body:    `{"error": {"message": "rate limited", "type": "rate_limit_error"}}`,
			kind:    model.ErrorKindRateLimit,
			message: "rate limited",
		},
		{
			name:    "bad key",
			status:  http.StatusUnauthorized,
			body:    `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error", "code": "invalid_api_key"}}`,
			kind:    model.ErrorKindAuth,
			message: "Incorrect API key provided",
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `{"error": {"message": "The server had an error", "type": "server_error"}}`,
			kind:    model.ErrorKindUpstream,
			message: "The server had an error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.status, tt.body, nil)

			text, err := client.Complete(context.Background(), "sk-test", testRequest())

			require.Error(t, err)
			assert.Empty(t, text)

			var ce *model.CompletionError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.kind, ce.Kind)
			assert.Equal(t, tt.status, ce.StatusCode)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestComplete_NonJSONErrorBody(t *testing.T) {
	client := newTestClient(t, http.StatusBadGateway, "<html>bad gateway</html>", nil)

	_, err := client.Complete(context.Background(), "sk-test", testRequest())

	var ce *model.CompletionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, model.ErrorKindUpstream, ce.Kind)
	assert.Equal(t, http.StatusBadGateway, ce.StatusCode)
	assert.NotEmpty(t, err.Error())
}

func TestComplete_NoChoicesIsMalformed(t *testing.T) {
	client := newTestClient(t, http.StatusOK, `{"id": "x", "choices": []}`, nil)

	_, err := client.Complete(context.Background(), "sk-test", testRequest())

	var ce *model.CompletionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, model.ErrorKindMalformed, ce.Kind)
	assert.Equal(t, "no choices in response", err.Error())
}

func TestComplete_UndecodableBodyIsMalformed(t *testing.T) {
	client := newTestClient(t, http.StatusOK, `{"choices": "not-a-list"}`, nil)

	_, err := client.Complete(context.Background(), "sk-test", testRequest())

	var ce *model.CompletionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, model.ErrorKindMalformed, ce.Kind)
}

func TestComplete_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client := openaiadapter.NewClient(openaiadapter.WithBaseURL(baseURL))

	_, err := client.Complete(context.Background(), "sk-test", testRequest())

	var ce *model.CompletionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, model.ErrorKindNetwork, ce.Kind)
	assert.Equal(t, 0, ce.StatusCode)
}

func TestClient_Defaults(t *testing.T) {
	client := openaiadapter.NewClient()

	assert.Equal(t, model.ProviderOpenAI, client.Provider())
	assert.Equal(t, "gpt-4", client.DefaultModel())
}

func TestClient_EmptyModelKeepsDefault(t *testing.T) {
	client := openaiadapter.NewClient(openaiadapter.WithModel(""))

	assert.Equal(t, "gpt-4", client.DefaultModel())
}
