package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/desktopmtg/desktopmtg/internal/api/response"
	"github.com/desktopmtg/desktopmtg/internal/config"
)

// SettingsHandler exposes the application settings over the API.
type SettingsHandler struct {
	mu       sync.RWMutex
	settings *config.Settings
	persist  bool
}

// NewSettingsHandler creates a new SettingsHandler. When persist is true,
// updates are written back to the settings file.
func NewSettingsHandler(settings *config.Settings, persist bool) *SettingsHandler {
	return &SettingsHandler{settings: settings, persist: persist}
}

// GetSettings returns the current settings.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	response.Success(w, h.settings)
}

// UpdateSettings replaces the settings after validation.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var updated config.Settings
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	if err := updated.Validate(); err != nil {
		response.BadRequest(w, err)
		return
	}

	h.mu.Lock()
	*h.settings = updated
	h.mu.Unlock()

	if h.persist {
		if err := h.settings.Save(); err != nil {
			response.InternalError(w, err)
			return
		}
	}

	response.Success(w, h.settings)
}
