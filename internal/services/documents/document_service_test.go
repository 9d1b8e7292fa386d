package documents

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/models"
	"github.com/ternarybob/lectio/internal/services/chunker"
)

type fakeMetadata struct {
	docs map[string]*models.Document
}

func (f *fakeMetadata) SaveDocument(doc *models.Document) error {
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeMetadata) GetDocument(id string) (*models.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, common.Errorf(common.KindNotFound, "document not found: %s", id)
	}
	return doc, nil
}

func (f *fakeMetadata) ListDocuments() ([]*models.Document, error) {
	out := make([]*models.Document, 0, len(f.docs))
	for _, doc := range f.docs {
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeMetadata) DeleteDocument(id string) error {
	delete(f.docs, id)
	return nil
}

type fakeFiles struct {
	stored map[string][]byte
}

func (f *fakeFiles) Save(id, filename string, data []byte) (string, error) {
	f.stored[id] = data
	return id, nil
}

func (f *fakeFiles) Read(id string) ([]byte, error) {
	data, ok := f.stored[id]
	if !ok {
		return nil, common.Errorf(common.KindNotFound, "document file not found: %s", id)
	}
	return data, nil
}

func (f *fakeFiles) Delete(id string) error {
	delete(f.stored, id)
	return nil
}

type fakeExtractor struct {
	pages []interfaces.PDFPageContent
	err   error
}

func (f *fakeExtractor) ExtractPages(ctx context.Context, data []byte) ([]interfaces.PDFPageContent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

func (f *fakeExtractor) PageCount(ctx context.Context, data []byte) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return len(f.pages), nil
}

type fakeIndex struct {
	indexed map[string][]models.Chunk
	err     error
}

func (f *fakeIndex) UpsertDocument(ctx context.Context, documentID string, chunks []models.Chunk) error {
	if f.err != nil {
		return f.err
	}
	f.indexed[documentID] = chunks
	return nil
}

func (f *fakeIndex) Search(ctx context.Context, queryText string, nResults int, documentIDs []string) ([]models.RetrievalResult, error) {
	return nil, nil
}

func (f *fakeIndex) DeleteDocument(ctx context.Context, documentID string) error {
	delete(f.indexed, documentID)
	return nil
}

func (f *fakeIndex) ListDocumentIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.indexed))
	for id := range f.indexed {
		ids = append(ids, id)
	}
	return ids, nil
}

func newTestSetup() (*Service, *fakeMetadata, *fakeFiles, *fakeExtractor, *fakeIndex) {
	metadata := &fakeMetadata{docs: make(map[string]*models.Document)}
	files := &fakeFiles{stored: make(map[string][]byte)}
	extractor := &fakeExtractor{pages: []interfaces.PDFPageContent{
		{PageNumber: 1, Text: "Page one content about cats."},
		{PageNumber: 2, Text: "Page two content about dogs."},
	}}
	index := &fakeIndex{indexed: make(map[string][]models.Chunk)}

	svc := NewService(metadata, files, extractor,
		chunker.New(common.ChunkingConfig{ChunkSize: 300, ChunkOverlap: 50}),
		index, arbor.NewLogger())
	return svc, metadata, files, extractor, index
}

func TestService_Ingest(t *testing.T) {
	ctx := context.Background()

	t.Run("Full pipeline stores file, metadata, and chunks", func(t *testing.T) {
		svc, metadata, files, _, index := newTestSetup()

		doc, err := svc.Ingest(ctx, "report.pdf", []byte("%PDF-fake"))
		require.NoError(t, err)
		assert.True(t, len(doc.ID) > 4 && doc.ID[:4] == "doc_")
		assert.Equal(t, "report.pdf", doc.Filename)
		assert.Equal(t, 2, doc.PageCount)
		assert.Equal(t, int64(9), doc.Size)

		assert.Contains(t, metadata.docs, doc.ID)
		assert.Contains(t, files.stored, doc.ID)
		require.Contains(t, index.indexed, doc.ID)

		chunks := index.indexed[doc.ID]
		require.Len(t, chunks, 2)
		assert.Equal(t, 1, chunks[0].PageNumber)
		assert.Equal(t, 2, chunks[1].PageNumber)
	})

	t.Run("Non-PDF upload is rejected", func(t *testing.T) {
		svc, _, _, _, _ := newTestSetup()

		_, err := svc.Ingest(ctx, "notes.txt", []byte("hello"))
		require.Error(t, err)
		assert.True(t, common.IsKind(err, common.KindInvalidInput))
	})

	t.Run("Empty upload is rejected", func(t *testing.T) {
		svc, _, _, _, _ := newTestSetup()

		_, err := svc.Ingest(ctx, "empty.pdf", nil)
		require.Error(t, err)
		assert.True(t, common.IsKind(err, common.KindInvalidInput))
	})

	t.Run("Extraction failure removes the stored file", func(t *testing.T) {
		svc, metadata, files, extractor, _ := newTestSetup()
		extractor.err = common.NewError(common.KindInvalidInput, "failed to read PDF")

		_, err := svc.Ingest(ctx, "broken.pdf", []byte("not a pdf"))
		require.Error(t, err)
		assert.Empty(t, files.stored)
		assert.Empty(t, metadata.docs)
	})

	t.Run("Indexing failure rolls everything back", func(t *testing.T) {
		svc, metadata, files, _, index := newTestSetup()
		index.err = common.NewError(common.KindUpstream, "embedding backend unavailable")

		_, err := svc.Ingest(ctx, "report.pdf", []byte("%PDF-fake"))
		require.Error(t, err)
		assert.True(t, common.IsKind(err, common.KindUpstream))
		assert.Empty(t, files.stored)
		assert.Empty(t, metadata.docs)
		assert.Empty(t, index.indexed)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Removes index, file, and metadata", func(t *testing.T) {
		svc, metadata, files, _, index := newTestSetup()
		doc, err := svc.Ingest(ctx, "report.pdf", []byte("%PDF-fake"))
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, doc.ID))
		assert.Empty(t, metadata.docs)
		assert.Empty(t, files.stored)
		assert.Empty(t, index.indexed)
	})

	t.Run("Unknown document returns not found", func(t *testing.T) {
		svc, _, _, _, _ := newTestSetup()

		err := svc.Delete(ctx, "doc_missing")
		require.Error(t, err)
		assert.True(t, common.IsKind(err, common.KindNotFound))
	})
}

func TestService_ReadPages(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _, _ := newTestSetup()

	doc, err := svc.Ingest(ctx, "report.pdf", []byte("%PDF-fake"))
	require.NoError(t, err)

	pages, err := svc.ReadPages(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Contains(t, pages[0], "cats")
	assert.Contains(t, pages[1], "dogs")

	_, err = svc.ReadPages(ctx, "doc_missing")
	assert.True(t, common.IsKind(err, common.KindNotFound))
}
