package files

import (
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
)

// FileStorage stores uploaded document bytes on the local filesystem, one
// file per document ID.
type FileStorage struct {
	dir    string
	logger arbor.ILogger
}

// NewFileStorage creates a FileStorage rooted at dir, creating it if needed.
func NewFileStorage(dir string, logger arbor.ILogger) (interfaces.FileStorage, error) {
	if dir == "" {
		return nil, common.NewError(common.KindConfiguration, "document storage directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, common.WrapError(common.KindStorage, "failed to create document storage directory", err)
	}
	return &FileStorage{dir: dir, logger: logger}, nil
}

// path keeps stored files keyed by document ID so original filenames cannot
// collide or escape the storage directory.
func (s *FileStorage) path(id string) string {
	return filepath.Join(s.dir, id+".pdf")
}

func (s *FileStorage) Save(id string, filename string, data []byte) (string, error) {
	if id == "" {
		return "", common.NewError(common.KindInvalidInput, "document ID is required")
	}

	target := s.path(id)
	if err := os.WriteFile(target, data, 0644); err != nil {
		return "", common.WrapError(common.KindStorage, "failed to write document file", err)
	}

	s.logger.Debug().
		Str("document_id", id).
		Str("filename", filename).
		Int("bytes", len(data)).
		Msg("Stored document file")
	return target, nil
}

func (s *FileStorage) Read(id string) ([]byte, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, common.Errorf(common.KindNotFound, "document file not found: %s", id)
		}
		return nil, common.WrapError(common.KindStorage, "failed to read document file", err)
	}
	return data, nil
}

// Delete removes the stored file. Deleting a missing file is a no-op.
func (s *FileStorage) Delete(id string) error {
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return common.WrapError(common.KindStorage, "failed to delete document file", err)
	}
	return nil
}
