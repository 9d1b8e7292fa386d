package common

import (
	"github.com/google/uuid"
)

// NewDocumentID returns a fresh "doc_<uuid>" identifier. Every upload gets a
// new one, so re-uploading the same file never collides with an earlier copy.
func NewDocumentID() string {
	return "doc_" + uuid.New().String()
}
