package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/interfaces"
)

// maxUploadBytes bounds in-memory multipart parsing
const maxUploadBytes = 64 << 20

// DocumentHandler serves document upload, listing, and deletion
type DocumentHandler struct {
	documents interfaces.DocumentService
	logger    arbor.ILogger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documents interfaces.DocumentService, logger arbor.ILogger) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		logger:    logger,
	}
}

// CollectionHandler dispatches /api/documents: POST uploads, GET lists.
func (h *DocumentHandler) CollectionHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.uploadDocument(w, r)
	case http.MethodGet:
		h.listDocuments(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// ItemHandler dispatches /api/documents/{id}: GET fetches, DELETE removes.
func (h *DocumentHandler) ItemHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/documents/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusNotFound, "document not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		doc, err := h.documents.Get(r.Context(), id)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, doc)
	case http.MethodDelete:
		if err := h.documents.Delete(r.Context(), id); err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteSuccess(w, "document deleted")
	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *DocumentHandler) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	doc, err := h.documents.Ingest(r.Context(), header.Filename, data)
	if err != nil {
		h.logger.Warn().Err(err).Str("filename", header.Filename).Msg("Document ingest failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documents.List(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
		"count":     len(docs),
	})
}
