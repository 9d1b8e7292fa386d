package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Documents
	mux.HandleFunc("/api/documents", s.app.DocumentHandler.CollectionHandler) // GET (list), POST (upload)
	mux.HandleFunc("/api/documents/", s.app.DocumentHandler.ItemHandler)      // GET/DELETE /{id}

	// API routes - Query
	mux.HandleFunc("/api/query", s.app.QueryHandler.Handle) // POST - ask a question

	// API routes - Settings
	mux.HandleFunc("/api/settings", s.app.SettingsHandler.Handle) // GET/PUT

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}
