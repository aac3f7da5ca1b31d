package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient returns a Client pointed at a fake upstream.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(ClientConfig{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		Model:      "llama-3.1-8b-instant",
		Params:     Params{Temperature: 0.6, MaxTokens: 400},
		HTTPClient: srv.Client(),
	})
}

func TestClient_Complete(t *testing.T) {
	t.Parallel()

	var captured chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "  hello there  "}},
			},
		})
	})

	reply, err := client.Complete(context.Background(), []Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", reply, "reply should be trimmed")

	assert.Equal(t, "llama-3.1-8b-instant", captured.Model)
	assert.InDelta(t, 0.6, captured.Temperature, 0.0001)
	assert.Equal(t, 400, captured.MaxTokens)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
}

func TestClient_Complete_UpstreamError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`))
	})

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "rate limit exceeded")
	assert.Contains(t, err.Error(), "429")
}

func TestClient_Complete_EmptyChoices(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	reply, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Empty(t, reply)
}

func TestClient_Complete_WhitespaceContent(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"   "}}]}`))
	})

	reply, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Empty(t, reply)
}

func TestClient_Complete_MalformedJSON(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	assert.Error(t, err)
}

func TestClient_Complete_ContextCancelled(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Complete(ctx, []Message{{Role: "user", Content: "hi"}})
	assert.Error(t, err)
}

func TestStatusError_Error(t *testing.T) {
	t.Parallel()

	err := &StatusError{StatusCode: 503, Body: "service unavailable"}
	assert.Equal(t, "groq error 503: service unavailable", err.Error())
}
