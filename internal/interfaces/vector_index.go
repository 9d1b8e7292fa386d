package interfaces

import (
	"context"

	"github.com/ternarybob/lectio/internal/models"
)

// VectorIndex stores embedded chunks keyed by document and answers
// nearest-neighbor queries over them.
type VectorIndex interface {
	// UpsertDocument replaces all indexed chunks for the document. Embedding
	// happens before any write; a failed embedding leaves the previous index
	// state untouched.
	UpsertDocument(ctx context.Context, documentID string, chunks []models.Chunk) error

	// Search embeds the query text and returns up to nResults chunks ordered by
	// ascending distance. A non-empty documentIDs set restricts results to
	// chunks whose stored document id is in the set.
	Search(ctx context.Context, queryText string, nResults int, documentIDs []string) ([]models.RetrievalResult, error)

	// DeleteDocument removes every stored chunk for the document. Deleting a
	// document with no entries is a no-op.
	DeleteDocument(ctx context.Context, documentID string) error

	// ListDocumentIDs returns the distinct document ids present in the index
	ListDocumentIDs(ctx context.Context) ([]string, error)
}
