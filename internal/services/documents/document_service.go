// -----------------------------------------------------------------------
// Document Service - Upload, extraction, chunking, and indexing pipeline
// -----------------------------------------------------------------------

package documents

import (
	"context"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
	"github.com/ternarybob/lectio/internal/services/chunker"
)

// Service implements the DocumentService interface
type Service struct {
	metadata  interfaces.DocumentStorage
	files     interfaces.FileStorage
	extractor interfaces.PDFExtractor
	chunker   *chunker.Chunker
	index     interfaces.VectorIndex
	logger    arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.DocumentService = (*Service)(nil)

// NewService creates a new document service
func NewService(
	metadata interfaces.DocumentStorage,
	files interfaces.FileStorage,
	extractor interfaces.PDFExtractor,
	chunks *chunker.Chunker,
	index interfaces.VectorIndex,
	logger arbor.ILogger,
) *Service {
	return &Service{
		metadata:  metadata,
		files:     files,
		extractor: extractor,
		chunker:   chunks,
		index:     index,
		logger:    logger,
	}
}

// Ingest stores an uploaded PDF and runs the full pipeline: page extraction,
// chunking, embedding, and indexing. Failures after the file is written roll
// the stored state back so a document is never half ingested.
func (s *Service) Ingest(ctx context.Context, filename string, data []byte) (*models.Document, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return nil, common.Errorf(common.KindInvalidInput, "only PDF files are supported, got %q", filename)
	}
	if len(data) == 0 {
		return nil, common.NewError(common.KindInvalidInput, "uploaded file is empty")
	}

	startTime := time.Now()
	id := common.NewDocumentID()

	if _, err := s.files.Save(id, filename, data); err != nil {
		return nil, err
	}

	pages, err := s.extractor.ExtractPages(ctx, data)
	if err != nil {
		s.files.Delete(id)
		return nil, err
	}

	pageTexts := make([]string, len(pages))
	for i, page := range pages {
		pageTexts[i] = page.Text
	}
	chunks := s.chunker.Split(pageTexts)

	if err := s.index.UpsertDocument(ctx, id, chunks); err != nil {
		s.files.Delete(id)
		return nil, err
	}

	doc := &models.Document{
		ID:        id,
		Filename:  filename,
		Size:      int64(len(data)),
		PageCount: len(pages),
		CreatedAt: time.Now(),
	}
	if err := s.metadata.SaveDocument(doc); err != nil {
		s.index.DeleteDocument(ctx, id)
		s.files.Delete(id)
		return nil, err
	}

	s.logger.Info().
		Str("document_id", id).
		Str("filename", filename).
		Int("pages", len(pages)).
		Int("chunks", len(chunks)).
		Dur("duration", time.Since(startTime)).
		Msg("Document ingested")
	return doc, nil
}

// Get returns document metadata by ID.
func (s *Service) Get(ctx context.Context, id string) (*models.Document, error) {
	return s.metadata.GetDocument(id)
}

// List returns all documents, newest upload first.
func (s *Service) List(ctx context.Context) ([]*models.Document, error) {
	return s.metadata.ListDocuments()
}

// Delete removes a document's index entries, stored file, and metadata.
// Deleting an unknown document returns a not-found error.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.metadata.GetDocument(id); err != nil {
		return err
	}

	if err := s.index.DeleteDocument(ctx, id); err != nil {
		return err
	}
	if err := s.files.Delete(id); err != nil {
		return err
	}
	if err := s.metadata.DeleteDocument(id); err != nil {
		return err
	}

	s.logger.Info().Str("document_id", id).Msg("Document deleted")
	return nil
}

// ReadPages re-extracts the page texts of a stored document.
func (s *Service) ReadPages(ctx context.Context, id string) ([]string, error) {
	if _, err := s.metadata.GetDocument(id); err != nil {
		return nil, err
	}

	data, err := s.files.Read(id)
	if err != nil {
		return nil, err
	}

	pages, err := s.extractor.ExtractPages(ctx, data)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(pages))
	for i, page := range pages {
		texts[i] = page.Text
	}
	return texts, nil
}
