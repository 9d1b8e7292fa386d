// -----------------------------------------------------------------------
// Gemini Embedding Service - Text embedding generation via google.golang.org/genai
// -----------------------------------------------------------------------

package embeddings

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	"google.golang.org/genai"
)

// GeminiService implements the EmbeddingService interface using the Gemini API
type GeminiService struct {
	config  *common.EmbeddingConfig
	client  *genai.Client
	logger  arbor.ILogger
	timeout time.Duration
}

// Compile-time interface assertion
var _ interfaces.EmbeddingService = (*GeminiService)(nil)

// NewGeminiService creates the embedding service. The API key is required;
// without it every ingest and query would fail, so startup fails instead.
func NewGeminiService(config *common.EmbeddingConfig, logger arbor.ILogger) (*GeminiService, error) {
	if config.APIKey == "" {
		return nil, common.NewError(common.KindConfiguration,
			"Gemini API key is required (set GEMINI_API_KEY or embedding.api_key in config)")
	}
	if config.Dimension <= 0 {
		return nil, common.Errorf(common.KindConfiguration, "invalid embedding dimension: %d", config.Dimension)
	}

	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, common.Errorf(common.KindConfiguration, "invalid embedding timeout %q: %v", config.Timeout, err)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, common.WrapError(common.KindConfiguration, "failed to initialize genai client", err)
	}

	logger.Info().
		Str("model", config.Model).
		Int("dimension", config.Dimension).
		Dur("timeout", timeout).
		Msg("Gemini embedding service initialized")

	return &GeminiService{
		config:  config,
		client:  client,
		logger:  logger,
		timeout: timeout,
	}, nil
}

// ModelName returns the configured embedding model
func (s *GeminiService) ModelName() string {
	return s.config.Model
}

// Dimension returns the configured output dimensionality
func (s *GeminiService) Dimension() int {
	return s.config.Dimension
}

// Embed generates an embedding vector for the given text.
func (s *GeminiService) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, common.NewError(common.KindInvalidInput, "text cannot be empty for embedding generation")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()

	outputDim := int32(s.config.Dimension)
	embeddingConfig := &genai.EmbedContentConfig{
		OutputDimensionality: &outputDim,
	}

	result, err := s.client.Models.EmbedContent(timeoutCtx, s.config.Model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, embeddingConfig)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("text_length", len(text)).
			Msg("Embedding generation failed")
		return nil, common.WrapError(common.KindUpstream, "embedding generation failed", err)
	}

	var embedding []float32
	if result != nil && len(result.Embeddings) > 0 {
		embedding = result.Embeddings[0].Values
	}
	if embedding == nil {
		return nil, common.NewError(common.KindUpstream, "no embedding returned from API")
	}

	if len(embedding) != s.config.Dimension {
		return nil, common.Errorf(common.KindConfiguration,
			"embedding dimension mismatch: expected %d, got %d", s.config.Dimension, len(embedding))
	}

	s.logger.Debug().
		Int("text_length", len(text)).
		Int("embedding_dim", len(embedding)).
		Dur("duration", time.Since(startTime)).
		Msg("Embedding generation completed")

	return embedding, nil
}

// EmbedBatch embeds each text in order. A failure on any text aborts the
// batch so callers never commit a partially embedded document.
func (s *GeminiService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vector, err := s.Embed(ctx, text)
		if err != nil {
			return nil, common.WrapError(common.KindOf(err), "batch embedding failed", err)
		}
		vectors = append(vectors, vector)
	}
	return vectors, nil
}
