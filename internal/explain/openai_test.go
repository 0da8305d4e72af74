package explain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Client:
// - Missing API key fails construction with ErrMissingAPIKey
// - Successful request carries model, system role, code, and max_tokens,
//   and returns the trimmed completion
// - Non-200 status becomes an error with a body preview
// - Body-level API error object becomes an error
// - Empty choices become an error

func TestNewClient_MissingKey(t *testing.T) {
	// No t.Parallel(): manipulates process environment.
	t.Setenv("PYDOCGEN_TEST_KEY", "")

	client, err := NewClient(Options{APIKeyEnv: "PYDOCGEN_TEST_KEY"})

	require.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "PYDOCGEN_TEST_KEY")
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Options{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "test-model",
	})
	require.NoError(t, err)
	return client
}

func TestClient_Explain(t *testing.T) {
	t.Parallel()

	var gotReq chatRequest
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"  This assigns one to x.  "}}]}`))
	})

	text, err := client.Explain(context.Background(), "x = 1")

	require.NoError(t, err)
	assert.Equal(t, "This assigns one to x.", text)
	assert.Equal(t, "Bearer test-key", gotAuth)

	// Test: request shape matches the collaborator contract
	assert.Equal(t, "test-model", gotReq.Model)
	assert.Equal(t, 500, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[0].Content, "expert Python code explainer")
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Contains(t, gotReq.Messages[1].Content, "x = 1")
}

func TestClient_UpstreamStatusError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	})

	_, err := client.Explain(context.Background(), "x = 1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestClient_APIErrorBody(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"model overloaded","type":"server_error"}}`))
	})

	_, err := client.Explain(context.Background(), "x = 1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestClient_NoCompletion(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := client.Explain(context.Background(), "x = 1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no completion")
}

func TestClient_MalformedBody(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := client.Explain(context.Background(), "x = 1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse response")
}
