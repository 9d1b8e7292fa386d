package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/ternarybob/lectio/internal/models"
)

// ErrKeyNotFound is returned when a key/value lookup misses
var ErrKeyNotFound = errors.New("key not found")

// KeyValuePair is a stored key/value entry with timestamps
type KeyValuePair struct {
	Key       string `badgerhold:"key"`
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocumentStorage persists document metadata
type DocumentStorage interface {
	SaveDocument(doc *models.Document) error
	GetDocument(id string) (*models.Document, error)
	ListDocuments() ([]*models.Document, error)
	DeleteDocument(id string) error
}

// ChunkStorage persists embedded chunk records for the vector index.
// ReplaceDocumentChunks performs the delete-then-insert swap for one document
// atomically so a failed upsert never leaves partial state.
type ChunkStorage interface {
	ReplaceDocumentChunks(documentID string, records []*models.ChunkRecord) error
	DeleteDocumentChunks(documentID string) error
	ForEachChunk(fn func(record *models.ChunkRecord) error) error
	ListDocumentIDs() ([]string, error)
}

// FileStorage persists raw uploaded file bytes
type FileStorage interface {
	Save(id string, filename string, data []byte) (string, error)
	Read(id string) ([]byte, error)
	Delete(id string) error
}

// KeyValueStorage provides generic key/value persistence for runtime settings
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// StorageManager provides access to all storage backends
type StorageManager interface {
	DocumentStorage() DocumentStorage
	ChunkStorage() ChunkStorage
	KeyValueStorage() KeyValueStorage
	Close() error
}
