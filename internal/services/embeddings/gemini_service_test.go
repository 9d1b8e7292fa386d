package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"google.golang.org/genai"
)

// newStubService builds a GeminiService whose client talks to a local test
// server instead of the real API.
func newStubService(t *testing.T, dimension int, handler http.HandlerFunc) *GeminiService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  server.Client(),
		HTTPOptions: genai.HTTPOptions{BaseURL: server.URL},
	})
	require.NoError(t, err)

	return &GeminiService{
		config: &common.EmbeddingConfig{
			APIKey:    "test-key",
			Model:     "gemini-embedding-001",
			Dimension: dimension,
			Timeout:   "5s",
		},
		client:  client,
		logger:  arbor.NewLogger(),
		timeout: 5 * time.Second,
	}
}

// embeddingHandler answers every request with a single embedding of the given
// values, in both the single and batch response shapes.
func embeddingHandler(values []float32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"embedding":  map[string]any{"values": values},
			"embeddings": []map[string]any{{"values": values}},
		})
	}
}

func TestGeminiService_Embed(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns the vector when dimensions agree", func(t *testing.T) {
		svc := newStubService(t, 3, embeddingHandler([]float32{0.1, 0.2, 0.3}))

		vector, err := svc.Embed(ctx, "cats are mammals")
		require.NoError(t, err)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)
	})

	t.Run("Dimension mismatch is a configuration error", func(t *testing.T) {
		svc := newStubService(t, 768, embeddingHandler([]float32{0.1, 0.2, 0.3}))

		_, err := svc.Embed(ctx, "cats are mammals")
		require.Error(t, err)
		assert.True(t, common.IsKind(err, common.KindConfiguration))
	})

	t.Run("API failure is an upstream error", func(t *testing.T) {
		svc := newStubService(t, 3, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": {"code": 500, "message": "boom"}}`, http.StatusInternalServerError)
		})

		_, err := svc.Embed(ctx, "cats are mammals")
		require.Error(t, err)
		assert.True(t, common.IsKind(err, common.KindUpstream))
	})

	t.Run("Empty text is rejected before calling the API", func(t *testing.T) {
		called := false
		svc := newStubService(t, 3, func(w http.ResponseWriter, r *http.Request) {
			called = true
		})

		_, err := svc.Embed(ctx, "")
		require.Error(t, err)
		assert.True(t, common.IsKind(err, common.KindInvalidInput))
		assert.False(t, called)
	})

	t.Run("Batch aborts on the first failure and keeps the kind", func(t *testing.T) {
		svc := newStubService(t, 768, embeddingHandler([]float32{0.1, 0.2, 0.3}))

		_, err := svc.EmbedBatch(ctx, []string{"first", "second"})
		require.Error(t, err)
		assert.True(t, common.IsKind(err, common.KindConfiguration))
	})
}

func TestNewGeminiService_Validation(t *testing.T) {
	logger := arbor.NewLogger()

	_, err := NewGeminiService(&common.EmbeddingConfig{Model: "m", Dimension: 768, Timeout: "30s"}, logger)
	require.Error(t, err)
	assert.True(t, common.IsKind(err, common.KindConfiguration))

	_, err = NewGeminiService(&common.EmbeddingConfig{APIKey: "k", Model: "m", Dimension: 0, Timeout: "30s"}, logger)
	require.Error(t, err)
	assert.True(t, common.IsKind(err, common.KindConfiguration))

	_, err = NewGeminiService(&common.EmbeddingConfig{APIKey: "k", Model: "m", Dimension: 768, Timeout: "soon"}, logger)
	require.Error(t, err)
	assert.True(t, common.IsKind(err, common.KindConfiguration))
}
