package report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/statuspng/statuspng/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMonitor() models.Monitor {
	return models.Monitor{
		Name: "Payments API",
		URL:  "https://payments.example.com",
	}
}

func TestGenerate_NoCredentialsUsesFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	code := 503
	text := NewGenerator().Generate(context.Background(), testMonitor(), &code, "")

	assert.NotEmpty(t, text)
	assert.Contains(t, text, "Payments API")
	assert.Contains(t, text, "https://payments.example.com")
	assert.Contains(t, text, "HTTP 503")
	assert.Contains(t, text, "What happened")
	assert.Contains(t, text, "Timeline")
}

func TestGenerate_TransportFailureFallbackContainsError(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	text := NewGenerator().Generate(context.Background(), testMonitor(), nil, "dial tcp: connection refused")

	assert.NotEmpty(t, text)
	assert.Contains(t, text, "unable to reach https://payments.example.com")
	assert.Contains(t, text, "dial tcp: connection refused")
}

func TestGenerate_ProviderSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "Payments API")

		json.NewEncoder(w).Encode(chatCompletionResponse{
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{
				{Message: chatMessage{Role: "assistant", Content: "We are investigating an outage."}},
			},
		})
	}))
	defer srv.Close()

	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", srv.URL)

	code := 503
	text := NewGenerator().Generate(context.Background(), testMonitor(), &code, "")

	assert.Equal(t, "We are investigating an outage.", text)
}

func TestGenerate_ProviderErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", srv.URL)

	code := 500
	text := NewGenerator().Generate(context.Background(), testMonitor(), &code, "")

	assert.NotEmpty(t, text)
	assert.Contains(t, text, "Payments API")
	assert.Contains(t, text, "https://payments.example.com")
}

func TestGenerate_EmptyCompletionFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatCompletionResponse{})
	}))
	defer srv.Close()

	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", srv.URL)

	text := NewGenerator().Generate(context.Background(), testMonitor(), nil, "timeout")

	assert.NotEmpty(t, text)
	assert.Contains(t, text, "Payments API")
}

func TestGenerate_UnreachableProviderFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", srv.URL)

	code := 503
	text := NewGenerator().Generate(context.Background(), testMonitor(), &code, "")

	assert.NotEmpty(t, text)
	assert.Contains(t, text, "Payments API")
}
