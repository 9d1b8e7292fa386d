package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/interfaces"
)

// QueryHandler serves question answering requests
type QueryHandler struct {
	queries interfaces.QueryService
	logger  arbor.ILogger
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(queries interfaces.QueryService, logger arbor.ILogger) *QueryHandler {
	return &QueryHandler{
		queries: queries,
		logger:  logger,
	}
}

// Handle handles POST /api/query
func (h *QueryHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req interfaces.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	answer, err := h.queries.Query(r.Context(), &req)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Query failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, answer)
}
