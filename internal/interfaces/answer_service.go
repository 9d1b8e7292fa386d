package interfaces

import (
	"context"

	"github.com/ternarybob/lectio/internal/models"
)

// AnswerService composes a grounding prompt from retrieved chunks and calls
// the external completion endpoint.
//
// Generate treats upstream failures as a degraded outcome: it returns a
// human-readable answer describing the error instead of failing the query.
// A missing API credential is a configuration error and is returned as such.
type AnswerService interface {
	Generate(ctx context.Context, question string, chunks []models.RetrievalResult) (string, error)
}

// Retriever embeds a query and searches the vector index, returning ranked
// chunks unchanged. All relevance ordering is the index's distance metric.
type Retriever interface {
	Retrieve(ctx context.Context, queryText string, nResults int, documentIDs []string) ([]models.RetrievalResult, error)
}

// QueryService answers natural-language questions over the indexed documents
type QueryService interface {
	Query(ctx context.Context, req *QueryRequest) (*models.Answer, error)
}

// QueryRequest is a question plus optional result count and document filter.
// Transient - never persisted. The upper bound on TopK comes from retrieval
// config, so only the lower bound lives in the tag.
type QueryRequest struct {
	Question    string   `json:"question" validate:"required"`
	TopK        int      `json:"top_k,omitempty" validate:"omitempty,min=1"`
	DocumentIDs []string `json:"document_ids,omitempty"`
}
