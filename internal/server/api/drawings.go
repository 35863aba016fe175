package api

import (
	"bytes"
	"errors"
	"image"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ayusman/airpointer/internal/store"
)

// ThumbnailSize bounds both sides of a drawing thumbnail.
const ThumbnailSize = 240

// DrawingHandler serves saved drawings.
type DrawingHandler struct {
	store *store.Store
}

// NewDrawingHandler creates a new DrawingHandler with the given store.
func NewDrawingHandler(s *store.Store) *DrawingHandler {
	return &DrawingHandler{store: s}
}

// ServeHTTP routes:
//
//	GET    /api/drawings
//	GET    /api/drawings/{id}
//	GET    /api/drawings/{id}.png
//	GET    /api/drawings/{id}/thumbnail
//	DELETE /api/drawings/{id}
func (h *DrawingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/drawings")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w)
		return
	}

	switch {
	case strings.HasSuffix(path, "/thumbnail"):
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.thumbnail(w, strings.TrimSuffix(path, "/thumbnail"))
	case strings.HasSuffix(path, ".png"):
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.png(w, strings.TrimSuffix(path, ".png"))
	default:
		switch r.Method {
		case http.MethodGet:
			h.get(w, path)
		case http.MethodDelete:
			h.delete(w, path)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

type drawingResponse struct {
	ID           string `json:"id"`
	SessionID    string `json:"session_id,omitempty"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	CreatedAt    string `json:"created_at"`
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type listDrawingsResponse struct {
	Drawings []drawingResponse `json:"drawings"`
}

func toDrawingResponse(d *store.Drawing) drawingResponse {
	return drawingResponse{
		ID:           d.ID,
		SessionID:    d.SessionID,
		Width:        d.Width,
		Height:       d.Height,
		CreatedAt:    formatTime(d.CreatedAt),
		ImageURL:     "/api/drawings/" + d.ID + ".png",
		ThumbnailURL: "/api/drawings/" + d.ID + "/thumbnail",
	}
}

func (h *DrawingHandler) list(w http.ResponseWriter) {
	drawings, err := h.store.Drawings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list drawings")
		return
	}

	response := listDrawingsResponse{
		Drawings: make([]drawingResponse, 0, len(drawings)),
	}
	for _, d := range drawings {
		response.Drawings = append(response.Drawings, toDrawingResponse(d))
	}

	writeJSON(w, http.StatusOK, response)
}

// load fetches a drawing and writes the error response when it fails.
func (h *DrawingHandler) load(w http.ResponseWriter, id string) (*store.Drawing, bool) {
	d, err := h.store.Drawings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Drawing not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "Failed to get drawing")
		return nil, false
	}
	return d, true
}

func (h *DrawingHandler) get(w http.ResponseWriter, id string) {
	if d, ok := h.load(w, id); ok {
		writeJSON(w, http.StatusOK, toDrawingResponse(d))
	}
}

func (h *DrawingHandler) png(w http.ResponseWriter, id string) {
	d, ok := h.load(w, id)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(d.PNG)
}

// thumbnail scales the drawing down to fit ThumbnailSize, keeping its aspect.
func (h *DrawingHandler) thumbnail(w http.ResponseWriter, id string) {
	d, ok := h.load(w, id)
	if !ok {
		return
	}

	img, err := imaging.Decode(bytes.NewReader(d.PNG))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Stored drawing is not a valid image")
		return
	}

	thumb := Thumbnail(img)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode thumbnail")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Thumbnail fits img inside a ThumbnailSize square.
func Thumbnail(img image.Image) *image.NRGBA {
	return imaging.Fit(img, ThumbnailSize, ThumbnailSize, imaging.Lanczos)
}

func (h *DrawingHandler) delete(w http.ResponseWriter, id string) {
	if err := h.store.Drawings().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Drawing not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete drawing")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
