package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ayusman/airpointer/internal/store"
)

func TestSettingsHandler_GetDefaults(t *testing.T) {
	handler := NewSettingsHandler(newTestStore(t), store.DefaultPreferences())

	req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var got store.Preferences
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if diff := cmp.Diff(store.DefaultPreferences(), got); diff != "" {
		t.Errorf("preferences mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingsHandler_Update(t *testing.T) {
	s := newTestStore(t)
	handler := NewSettingsHandler(s, store.DefaultPreferences())

	body := strings.NewReader(`{"brush_color": "#ff0000", "click_cooldown_ms": 500}`)
	req := httptest.NewRequest(http.MethodPut, "/api/settings", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	want := store.DefaultPreferences()
	want.BrushColor = "#ff0000"
	want.ClickCooldownMS = 500

	got, err := s.Settings().LoadPreferences(store.DefaultPreferences())
	if err != nil {
		t.Fatalf("LoadPreferences() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stored preferences mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingsHandler_UpdateInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"brush_size":`},
		{"bad color", `{"brush_color": "green"}`},
		{"zero brush", `{"brush_size": 0}`},
		{"alpha too large", `{"smoothing_alpha": 1.5}`},
		{"wrong type", `{"brush_size": "huge"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			handler := NewSettingsHandler(s, store.DefaultPreferences())

			req := httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}

			all, _ := s.Settings().All()
			if len(all) != 0 {
				t.Errorf("invalid update should not be stored, got %v", all)
			}
		})
	}
}

func TestSettingsHandler_MethodNotAllowed(t *testing.T) {
	handler := NewSettingsHandler(newTestStore(t), store.DefaultPreferences())

	req := httptest.NewRequest(http.MethodDelete, "/api/settings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}

func TestSettingsHandler_OnUpdate(t *testing.T) {
	handler := NewSettingsHandler(newTestStore(t), store.DefaultPreferences())

	var updates []store.Preferences
	handler.OnUpdate = func(p store.Preferences) {
		updates = append(updates, p)
	}

	t.Run("called after a saved update", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(`{"brush_size": 8}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if len(updates) != 1 || updates[0].BrushSize != 8 {
			t.Errorf("updates = %+v, want one with brush size 8", updates)
		}
	})

	t.Run("not called for invalid settings", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader(`{"brush_color": "green-ish"}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
		if len(updates) != 1 {
			t.Errorf("updates = %d, an invalid update must not be applied", len(updates))
		}
	})
}
