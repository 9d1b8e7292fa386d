package interfaces

import (
	"context"

	"github.com/ternarybob/lectio/internal/models"
)

// DocumentService orchestrates document ingestion and lifecycle: file
// persistence, page extraction, chunking, and index maintenance.
type DocumentService interface {
	// Ingest stores the uploaded file, extracts and chunks its pages, and
	// indexes the chunks. A chunking or embedding failure aborts the whole
	// ingestion with no partial index state.
	Ingest(ctx context.Context, filename string, data []byte) (*models.Document, error)

	// Get returns metadata for one document
	Get(ctx context.Context, id string) (*models.Document, error)

	// List returns all documents, newest first
	List(ctx context.Context) ([]*models.Document, error)

	// Delete removes the stored file, metadata, and indexed chunks together
	Delete(ctx context.Context, id string) error

	// ReadPages returns the extracted per-page text of a stored document
	ReadPages(ctx context.Context, id string) ([]string, error)
}
