package answers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/models"
	"golang.org/x/time/rate"
)

// newStubClaudeService builds a ClaudeService whose client talks to a local
// test server instead of the real API.
func newStubClaudeService(t *testing.T, handler http.HandlerFunc) *ClaudeService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)

	return &ClaudeService{
		config: &common.ClaudeConfig{
			APIKey:    "test-key",
			Model:     "claude-haiku-3-5-20241022",
			MaxTokens: 256,
			Timeout:   "5s",
			RateLimit: "1ms",
		},
		client:  client,
		logger:  arbor.NewLogger(),
		limiter: rate.NewLimiter(rate.Inf, 1),
		timeout: 5 * time.Second,
	}
}

// messageHandler answers every request with a completed message holding the
// given text blocks.
func messageHandler(texts ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content := make([]map[string]any, 0, len(texts))
		for _, text := range texts {
			content = append(content, map[string]any{"type": "text", "text": text})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":            "msg_test",
			"type":          "message",
			"role":          "assistant",
			"model":         "claude-haiku-3-5-20241022",
			"content":       content,
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"usage":         map[string]any{"input_tokens": 10, "output_tokens": 5},
		})
	}
}

func sampleChunks() []models.RetrievalResult {
	return []models.RetrievalResult{
		{ChunkID: "doc_a_chunk_0", DocumentID: "doc_a", PageNumber: 2, Text: "Cats are mammals.", Distance: 0.1},
	}
}

func TestClaudeService_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns the model text", func(t *testing.T) {
		svc := newStubClaudeService(t, messageHandler("Cats are mammals, per the document."))

		answer, err := svc.Generate(ctx, "What are cats?", sampleChunks())
		require.NoError(t, err)
		assert.Equal(t, "Cats are mammals, per the document.", answer)
	})

	t.Run("Concatenates multiple text blocks", func(t *testing.T) {
		svc := newStubClaudeService(t, messageHandler("Cats ", "are mammals."))

		answer, err := svc.Generate(ctx, "What are cats?", sampleChunks())
		require.NoError(t, err)
		assert.Equal(t, "Cats are mammals.", answer)
	})

	t.Run("API failure degrades to an explanatory answer", func(t *testing.T) {
		svc := newStubClaudeService(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"type":"error","error":{"type":"api_error","message":"boom"}}`, http.StatusInternalServerError)
		})

		answer, err := svc.Generate(ctx, "What are cats?", sampleChunks())
		require.NoError(t, err)
		assert.Contains(t, answer, "Unable to generate an answer")
		assert.Contains(t, answer, "request failed")
	})

	t.Run("Empty model response degrades to an explanatory answer", func(t *testing.T) {
		svc := newStubClaudeService(t, messageHandler())

		answer, err := svc.Generate(ctx, "What are cats?", sampleChunks())
		require.NoError(t, err)
		assert.Contains(t, answer, "Unable to generate an answer")
		assert.Contains(t, answer, "empty response")
	})

	t.Run("No chunks returns the canned answer without calling the API", func(t *testing.T) {
		called := false
		svc := newStubClaudeService(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		answer, err := svc.Generate(ctx, "What are cats?", nil)
		require.NoError(t, err)
		assert.Equal(t, NoResultsAnswer, answer)
		assert.False(t, called)
	})

	t.Run("Empty question is rejected", func(t *testing.T) {
		svc := newStubClaudeService(t, messageHandler("unused"))

		_, err := svc.Generate(ctx, "", sampleChunks())
		require.Error(t, err)
		assert.True(t, common.IsKind(err, common.KindInvalidInput))
	})
}

func TestNewClaudeService_Validation(t *testing.T) {
	logger := arbor.NewLogger()

	_, err := NewClaudeService(&common.ClaudeConfig{Model: "m", Timeout: "5s", RateLimit: "1s"}, logger)
	require.Error(t, err)
	assert.True(t, common.IsKind(err, common.KindConfiguration))

	_, err = NewClaudeService(&common.ClaudeConfig{APIKey: "k", Model: "m", Timeout: "soon", RateLimit: "1s"}, logger)
	require.Error(t, err)
	assert.True(t, common.IsKind(err, common.KindConfiguration))

	_, err = NewClaudeService(&common.ClaudeConfig{APIKey: "k", Model: "m", Timeout: "5s", RateLimit: "often"}, logger)
	require.Error(t, err)
	assert.True(t, common.IsKind(err, common.KindConfiguration))
}
