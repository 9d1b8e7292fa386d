package badger

import (
	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ChunkStorage implements the ChunkStorage interface for Badger
type ChunkStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewChunkStorage creates a new ChunkStorage instance
func NewChunkStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ChunkStorage {
	return &ChunkStorage{
		db:     db,
		logger: logger,
	}
}

// ReplaceDocumentChunks swaps all chunk records for a document in a single
// Badger transaction. Readers see either the old set or the new set, never a
// mix, and a failed insert rolls the delete back.
func (s *ChunkStorage) ReplaceDocumentChunks(documentID string, records []*models.ChunkRecord) error {
	if documentID == "" {
		return common.NewError(common.KindInvalidInput, "document ID is required")
	}

	store := s.db.Store()
	err := store.Badger().Update(func(tx *badgerdb.Txn) error {
		if err := store.TxDeleteMatching(tx, &models.ChunkRecord{},
			badgerhold.Where("DocumentID").Eq(documentID).Index("DocumentID")); err != nil && err != badgerhold.ErrNotFound {
			return err
		}
		for _, record := range records {
			if err := store.TxInsert(tx, record.ID, record); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return common.WrapError(common.KindStorage, "failed to replace document chunks", err)
	}

	s.logger.Debug().
		Str("document_id", documentID).
		Int("chunks", len(records)).
		Msg("Replaced document chunks")
	return nil
}

// DeleteDocumentChunks removes all chunk records for a document. Deleting a
// document with no chunks is a no-op.
func (s *ChunkStorage) DeleteDocumentChunks(documentID string) error {
	err := s.db.Store().DeleteMatching(&models.ChunkRecord{},
		badgerhold.Where("DocumentID").Eq(documentID).Index("DocumentID"))
	if err != nil && err != badgerhold.ErrNotFound {
		return common.WrapError(common.KindStorage, "failed to delete document chunks", err)
	}
	return nil
}

// ForEachChunk streams every stored chunk record to fn without materializing
// the full set in memory.
func (s *ChunkStorage) ForEachChunk(fn func(record *models.ChunkRecord) error) error {
	err := s.db.Store().ForEach(badgerhold.Where("ID").Ne(""), func(record *models.ChunkRecord) error {
		return fn(record)
	})
	if err != nil {
		return common.WrapError(common.KindStorage, "failed to iterate chunks", err)
	}
	return nil
}

// ListDocumentIDs returns the distinct document IDs that have stored chunks.
func (s *ChunkStorage) ListDocumentIDs() ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string
	err := s.db.Store().ForEach(badgerhold.Where("ID").Ne(""), func(record *models.ChunkRecord) error {
		if _, ok := seen[record.DocumentID]; !ok {
			seen[record.DocumentID] = struct{}{}
			ids = append(ids, record.DocumentID)
		}
		return nil
	})
	if err != nil {
		return nil, common.WrapError(common.KindStorage, "failed to list document IDs", err)
	}
	return ids, nil
}
