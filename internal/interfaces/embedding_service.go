package interfaces

import "context"

// EmbeddingService generates vector embeddings. One instance is constructed at
// startup and shared across requests; implementations must be safe for reuse.
type EmbeddingService interface {
	// Generate embedding for raw text
	Embed(ctx context.Context, text string) ([]float32, error)

	// Generate embeddings for multiple texts, in input order
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Get model information
	ModelName() string
	Dimension() int
}
