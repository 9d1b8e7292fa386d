package retrieval

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
)

// Retriever answers nearest-chunk lookups against the vector index
type Retriever struct {
	index  interfaces.VectorIndex
	logger arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.Retriever = (*Retriever)(nil)

// NewRetriever creates a new Retriever
func NewRetriever(index interfaces.VectorIndex, logger arbor.ILogger) *Retriever {
	return &Retriever{
		index:  index,
		logger: logger,
	}
}

// Retrieve returns the nResults chunks nearest to queryText, optionally
// restricted to the given document IDs.
func (r *Retriever) Retrieve(ctx context.Context, queryText string, nResults int, documentIDs []string) ([]models.RetrievalResult, error) {
	results, err := r.index.Search(ctx, queryText, nResults, documentIDs)
	if err != nil {
		return nil, err
	}

	r.logger.Debug().
		Int("requested", nResults).
		Int("returned", len(results)).
		Msg("Retrieval completed")
	return results, nil
}
