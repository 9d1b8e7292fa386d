// -----------------------------------------------------------------------
// Vector Index Service - Embedding storage and nearest-neighbor search
// -----------------------------------------------------------------------

package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
)

// Service implements the VectorIndex interface over chunk storage with a
// linear cosine-distance scan. Collections here are small enough that a scan
// beats maintaining an approximate index.
type Service struct {
	chunks    interfaces.ChunkStorage
	embedder  interfaces.EmbeddingService
	logger    arbor.ILogger
	docLocks  map[string]*sync.Mutex
	docLockMu sync.Mutex
}

// Compile-time interface assertion
var _ interfaces.VectorIndex = (*Service)(nil)

// NewService creates a new vector index service
func NewService(chunks interfaces.ChunkStorage, embedder interfaces.EmbeddingService, logger arbor.ILogger) *Service {
	return &Service{
		chunks:   chunks,
		embedder: embedder,
		logger:   logger,
		docLocks: make(map[string]*sync.Mutex),
	}
}

// lockDocument serializes writes per document ID so concurrent upserts of the
// same document cannot interleave.
func (s *Service) lockDocument(documentID string) *sync.Mutex {
	s.docLockMu.Lock()
	defer s.docLockMu.Unlock()
	lock, ok := s.docLocks[documentID]
	if !ok {
		lock = &sync.Mutex{}
		s.docLocks[documentID] = lock
	}
	return lock
}

// UpsertDocument embeds all chunks and replaces the document's stored set.
// Every chunk is embedded before anything is written, so an embedding failure
// leaves the previous index state intact.
func (s *Service) UpsertDocument(ctx context.Context, documentID string, chunks []models.Chunk) error {
	if documentID == "" {
		return common.NewError(common.KindInvalidInput, "document ID is required")
	}

	lock := s.lockDocument(documentID)
	lock.Lock()
	defer lock.Unlock()

	startTime := time.Now()

	records := make([]*models.ChunkRecord, 0, len(chunks))
	for i, chunk := range chunks {
		embedding, err := s.embedder.Embed(ctx, chunk.Text)
		if err != nil {
			return common.WrapError(common.KindOf(err), "failed to embed document chunks", err)
		}
		records = append(records, &models.ChunkRecord{
			ID:         fmt.Sprintf("%s_chunk_%d", documentID, i),
			DocumentID: documentID,
			Index:      i,
			PageNumber: chunk.PageNumber,
			Text:       chunk.Text,
			Embedding:  embedding,
		})
	}

	if err := s.chunks.ReplaceDocumentChunks(documentID, records); err != nil {
		return err
	}

	s.logger.Info().
		Str("document_id", documentID).
		Int("chunks", len(records)).
		Dur("duration", time.Since(startTime)).
		Msg("Document indexed")
	return nil
}

// Search embeds the query text and returns the nResults nearest chunks by
// cosine distance, ascending. When documentIDs is non-empty only chunks from
// those documents are considered. Fewer than nResults matches is not an
// error.
func (s *Service) Search(ctx context.Context, queryText string, nResults int, documentIDs []string) ([]models.RetrievalResult, error) {
	if queryText == "" {
		return nil, common.NewError(common.KindInvalidInput, "query text is required")
	}
	if nResults <= 0 {
		return nil, common.Errorf(common.KindInvalidInput, "invalid result count: %d", nResults)
	}

	queryVector, err := s.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, common.WrapError(common.KindOf(err), "failed to embed query", err)
	}

	var filter map[string]struct{}
	if len(documentIDs) > 0 {
		filter = make(map[string]struct{}, len(documentIDs))
		for _, id := range documentIDs {
			filter[id] = struct{}{}
		}
	}

	var results []models.RetrievalResult
	err = s.chunks.ForEachChunk(func(record *models.ChunkRecord) error {
		if filter != nil {
			if _, ok := filter[record.DocumentID]; !ok {
				return nil
			}
		}
		results = append(results, models.RetrievalResult{
			ChunkID:    record.ID,
			DocumentID: record.DocumentID,
			PageNumber: record.PageNumber,
			Text:       record.Text,
			Distance:   cosineDistance(queryVector, record.Embedding),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if len(results) > nResults {
		results = results[:nResults]
	}

	s.logger.Debug().
		Int("requested", nResults).
		Int("returned", len(results)).
		Int("filtered_documents", len(documentIDs)).
		Msg("Vector search completed")
	return results, nil
}

// DeleteDocument removes all indexed chunks for a document. Deleting an
// unindexed document is a no-op.
func (s *Service) DeleteDocument(ctx context.Context, documentID string) error {
	lock := s.lockDocument(documentID)
	lock.Lock()
	defer lock.Unlock()

	return s.chunks.DeleteDocumentChunks(documentID)
}

// ListDocumentIDs returns the document IDs currently present in the index.
func (s *Service) ListDocumentIDs(ctx context.Context) ([]string, error) {
	return s.chunks.ListDocumentIDs()
}

// cosineDistance returns 1 - cosine similarity. Zero-magnitude vectors have
// no direction and are treated as maximally distant.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}

	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
