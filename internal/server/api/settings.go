package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/airpointer/internal/store"
)

// SettingsHandler reads and updates the stored preferences. Changes apply
// to the next run of the pointer loop; OnUpdate lets a running loop pick up
// what it can apply live.
type SettingsHandler struct {
	store    *store.Store
	defaults store.Preferences

	// OnUpdate, when set, is called with the preferences after each
	// successful PUT.
	OnUpdate func(store.Preferences)
}

// NewSettingsHandler creates a SettingsHandler. defaults fill in whatever
// the store does not hold.
func NewSettingsHandler(s *store.Store, defaults store.Preferences) *SettingsHandler {
	return &SettingsHandler{store: s, defaults: defaults}
}

// ServeHTTP handles GET and PUT /api/settings.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w)
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) get(w http.ResponseWriter) {
	prefs, err := h.store.Settings().LoadPreferences(h.defaults)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// update applies a partial JSON object on top of the current preferences.
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	prefs, err := h.store.Settings().LoadPreferences(h.defaults)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	if err := store.DecodePreferences(patch, &prefs); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := prefs.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Settings().SavePreferences(prefs); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}
	if h.OnUpdate != nil {
		h.OnUpdate(prefs)
	}

	writeJSON(w, http.StatusOK, prefs)
}
