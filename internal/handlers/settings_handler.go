package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/common"
	"github.com/ternarybob/lectio/internal/interfaces"
	"github.com/ternarybob/lectio/internal/services/query"
)

// ClaudeKeySettingKey is the runtime setting holding the Anthropic API key
const ClaudeKeySettingKey = "claude_api_key"

// SettingsHandler serves runtime-adjustable settings backed by key/value
// storage. The API key is write-only: reads return a masked value.
type SettingsHandler struct {
	settings interfaces.KeyValueStorage
	config   *common.Config
	logger   arbor.ILogger
}

// settingsResponse is the read shape for GET /api/settings
type settingsResponse struct {
	TopK         int    `json:"top_k"`
	ClaudeAPIKey string `json:"claude_api_key"`
	ClaudeModel  string `json:"claude_model"`
}

// settingsUpdate is the write shape for PUT /api/settings
type settingsUpdate struct {
	TopK         *int    `json:"top_k,omitempty"`
	ClaudeAPIKey *string `json:"claude_api_key,omitempty"`
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings interfaces.KeyValueStorage, config *common.Config, logger arbor.ILogger) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
		config:   config,
		logger:   logger,
	}
}

// Handle dispatches /api/settings: GET reads, PUT updates.
func (h *SettingsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getSettings(w, r)
	case http.MethodPut:
		h.updateSettings(w, r)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *SettingsHandler) getSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	topK := h.config.Retrieval.TopK
	if value, err := h.settings.Get(ctx, query.TopKSettingKey); err == nil {
		if parsed, err := strconv.Atoi(value); err == nil {
			topK = parsed
		}
	}

	apiKey := h.config.Claude.APIKey
	if value, err := h.settings.Get(ctx, ClaudeKeySettingKey); err == nil && value != "" {
		apiKey = value
	}

	WriteJSON(w, http.StatusOK, settingsResponse{
		TopK:         topK,
		ClaudeAPIKey: maskAPIKey(apiKey),
		ClaudeModel:  h.config.Claude.Model,
	})
}

func (h *SettingsHandler) updateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var update settingsUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if update.TopK != nil {
		if *update.TopK < 1 || *update.TopK > h.config.Retrieval.MaxTopK {
			WriteError(w, http.StatusBadRequest,
				"top_k must be between 1 and "+strconv.Itoa(h.config.Retrieval.MaxTopK))
			return
		}
		if err := h.settings.Set(ctx, query.TopKSettingKey, strconv.Itoa(*update.TopK)); err != nil {
			WriteServiceError(w, err)
			return
		}
	}

	if update.ClaudeAPIKey != nil {
		if *update.ClaudeAPIKey == "" {
			WriteError(w, http.StatusBadRequest, "claude_api_key cannot be empty")
			return
		}
		if err := h.settings.Set(ctx, ClaudeKeySettingKey, *update.ClaudeAPIKey); err != nil {
			WriteServiceError(w, err)
			return
		}
		h.logger.Info().Msg("Claude API key updated, applies at next startup")
	}

	WriteSuccess(w, "settings updated")
}

// maskAPIKey shows only a short prefix so keys can be identified without
// being exposed.
func maskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 5 {
		return "***"
	}
	return key[:5] + "***"
}
