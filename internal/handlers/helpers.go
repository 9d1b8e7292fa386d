package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/lectio/internal/common"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a standard success JSON response.
func WriteSuccess(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": message,
	})
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// WriteServiceError translates a service error into an HTTP response using
// its error kind. Unknown errors become 500s with a generic message so
// internal details never leak to clients.
func WriteServiceError(w http.ResponseWriter, err error) error {
	status := http.StatusInternalServerError
	switch common.KindOf(err) {
	case common.KindNotFound:
		status = http.StatusNotFound
	case common.KindInvalidInput:
		status = http.StatusBadRequest
	case common.KindConfiguration:
		status = http.StatusServiceUnavailable
	case common.KindUpstream:
		status = http.StatusBadGateway
	}
	return WriteError(w, status, common.PublicMessage(err))
}
