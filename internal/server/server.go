// Package server provides the HTTP server for airpointer: the journal and
// settings API plus live views of the running pointer loop.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/airpointer/internal/server/api"
	"github.com/ayusman/airpointer/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	// Preferences fill in settings the store does not hold.
	Preferences store.Preferences
	// OnSettings receives preferences saved through the API.
	OnSettings func(store.Preferences)
	Feed       *Feed
	Logger     *zap.SugaredLogger
}

// healthResponse is the body of GET /api/health. Mode and Action are empty
// until the pointer loop has published a frame.
type healthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Mode    string `json:"mode,omitempty"`
	Action  string `json:"action,omitempty"`
	Viewers int    `json:"viewers"`
}

// Server represents the HTTP server for the airpointer application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.Logger == nil {
		config.Logger = zap.NewNop().Sugar()
	}
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		sessions := api.NewSessionHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessions)
		s.mux.Handle("/api/sessions/", sessions)

		drawings := api.NewDrawingHandler(s.config.Store)
		s.mux.Handle("/api/drawings", drawings)
		s.mux.Handle("/api/drawings/", drawings)

		settings := api.NewSettingsHandler(s.config.Store, s.preferences())
		settings.OnUpdate = s.config.OnSettings
		s.mux.Handle("/api/settings", settings)
	}

	if s.config.Feed != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Feed))
		s.mux.Handle("/api/live", NewLiveHandler(s.config.Feed, s.config.Logger))
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

func (s *Server) preferences() store.Preferences {
	if s.config.Preferences == (store.Preferences{}) {
		return store.DefaultPreferences()
	}
	return s.config.Preferences
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := healthResponse{
		Status: "ok",
		Uptime: time.Since(s.start).String(),
	}
	if s.config.Feed != nil {
		if lf, ok := s.config.Feed.Latest(); ok {
			response.Mode = lf.Status.Mode.String()
			response.Action = lf.Status.Action
		}
		response.Viewers = s.config.Feed.Subscribers()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s}

	errc := make(chan error, 1)
	go func() {
		s.config.Logger.Infof("HTTP server listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
