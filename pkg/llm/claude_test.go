package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaudeChat(t *testing.T) {
	var gotVersion, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotVersion = r.Header.Get("anthropic-version")
		gotKey = r.Header.Get("x-api-key")

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotEmpty(t, body["model"])

		w.Write([]byte(`{"content": [{"text": "Layla is going in May."}]}`))
	}))
	defer srv.Close()

	c := NewClaude("test-key")
	c.apiURL = srv.URL

	answer, err := c.Chat("when is the trip?")
	require.NoError(t, err)
	assert.Equal(t, "Layla is going in May.", answer)
	assert.Equal(t, "2023-06-01", gotVersion)
	assert.Equal(t, "test-key", gotKey)
}

func TestClaudeChatAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer srv.Close()

	c := NewClaude("test-key")
	c.apiURL = srv.URL

	_, err := c.Chat("hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestClaudeChatEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content": []}`))
	}))
	defer srv.Close()

	c := NewClaude("test-key")
	c.apiURL = srv.URL

	_, err := c.Chat("hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestOpenAIChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"choices": [{"message": {"content": "42"}}]}`))
	}))
	defer srv.Close()

	o := NewOpenAI("test-key")
	o.apiURL = srv.URL

	answer, err := o.Chat("how many?")
	require.NoError(t, err)
	assert.Equal(t, "42", answer)
}
