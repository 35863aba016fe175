package e2e

import (
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/airpointer/internal/app"
	"github.com/ayusman/airpointer/internal/capture"
	"github.com/ayusman/airpointer/internal/detector"
	"github.com/ayusman/airpointer/internal/input"
	"github.com/ayusman/airpointer/internal/pointer"
	"github.com/ayusman/airpointer/internal/server"
	"github.com/ayusman/airpointer/internal/store"
	"github.com/ayusman/airpointer/testdata"
)

// keyDisplay presses keys on given frames, counted from 1.
type keyDisplay struct {
	keys  map[int]int
	frame int
}

func (d *keyDisplay) Show(*gocv.Mat) { d.frame++ }

func (d *keyDisplay) PollKey() int {
	if k, ok := d.keys[d.frame]; ok {
		return k
	}
	return -1
}

func (d *keyDisplay) Close() error { return nil }

type harness struct {
	store    *store.Store
	feed     *server.Feed
	recorder *input.Recorder
	runner   *app.Runner
	ts       *httptest.Server
}

func newHarness(t *testing.T, frames [][]detector.HandLandmarks, keys map[int]int) *harness {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	blank := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { blank.Close() })

	det := detector.NewMockDetector()
	det.Queue(frames...)

	rec := input.NewRecorder()
	feed := server.NewFeed(nil)
	session := app.NewSession(app.DefaultSessionConfig(pointer.Screen{Width: 1000, Height: 1000}), rec)
	runner := app.NewRunner(app.Config{
		Camera:    capture.NewMockCamera([]*gocv.Mat{&blank}, true),
		Detector:  det,
		Display:   &keyDisplay{keys: keys},
		Publisher: feed,
		Store:     s,
	}, session)

	ts := httptest.NewServer(server.New(server.Config{Store: s, Feed: feed}))
	t.Cleanup(ts.Close)

	return &harness{store: s, feed: feed, recorder: rec, runner: runner, ts: ts}
}

func (h *harness) getJSON(t *testing.T, path string, v any) {
	t.Helper()
	resp, err := h.ts.Client().Get(h.ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s error = %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s status = %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("GET %s decode error = %v", path, err)
	}
}

func TestE2E_PointerSession(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	script, err := testdata.LoadScript("pointer_session")
	if err != nil {
		t.Fatalf("LoadScript() error = %v", err)
	}
	n := len(script.Frames)
	h := newHarness(t, script.Frames, map[int]int{n: 'q'})

	if err := h.runner.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	t.Run("PointerEvents", func(t *testing.T) {
		if got := h.recorder.Count("move"); got != script.HandFrames() {
			t.Errorf("moves = %d, want one per hand frame (%d)", got, script.HandFrames())
		}
		if got := h.recorder.Count("click"); got != 1 {
			t.Errorf("clicks = %d, a held pinch should click once", got)
		}
		if got := h.recorder.Count("scroll"); got != 6 {
			t.Errorf("scrolls = %d, want 6", got)
		}
	})

	t.Run("Journal", func(t *testing.T) {
		var journal struct {
			Frames    int    `json:"frames"`
			Clicks    int    `json:"clicks"`
			Scrolls   int    `json:"scrolls"`
			FinalMode string `json:"final_mode"`
			EndedAt   string `json:"ended_at"`
		}
		h.getJSON(t, "/api/sessions/"+h.runner.Journal().ID, &journal)

		if journal.Frames != n || journal.Clicks != 1 || journal.Scrolls != 6 {
			t.Errorf("journal = %+v", journal)
		}
		if journal.FinalMode != "pointer" || journal.EndedAt == "" {
			t.Errorf("journal = %+v, want a finished pointer session", journal)
		}
	})

	t.Run("LiveFeed", func(t *testing.T) {
		lf, ok := h.feed.Latest()
		if !ok {
			t.Fatal("feed never received a frame")
		}
		if lf.Hand != nil || lf.Status.Action != app.ActionNoHand {
			t.Errorf("last live frame = %+v, the script ends without a hand", lf.Status)
		}
		if _, seq := h.feed.Snapshot(); seq != uint64(n) {
			t.Errorf("stream frames = %d, want %d", seq, n)
		}
	})
}

func TestE2E_DrawAndSave(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	script, err := testdata.LoadScript("draw_session")
	if err != nil {
		t.Fatalf("LoadScript() error = %v", err)
	}

	// The toggle key is applied after the first frame, so lead with an
	// empty one. Save after the last stroke, then quit.
	frames := append([][]detector.HandLandmarks{nil}, script.Frames...)
	frames = append(frames, nil)
	n := len(frames)
	h := newHarness(t, frames, map[int]int{1: 'd', n - 1: 's', n: 'q'})

	if err := h.runner.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := h.recorder.Count("move"); got != 0 {
		t.Errorf("moves = %d, draw mode should not move the cursor", got)
	}

	var journal struct {
		Segments  int    `json:"segments"`
		FinalMode string `json:"final_mode"`
	}
	h.getJSON(t, "/api/sessions/"+h.runner.Journal().ID, &journal)
	// 6 pointing frames, open palm, 4 pointing frames.
	if journal.Segments != 8 || journal.FinalMode != "draw" {
		t.Errorf("journal = %+v, want 8 segments in draw mode", journal)
	}

	var listed struct {
		Drawings []struct {
			ID           string `json:"id"`
			SessionID    string `json:"session_id"`
			ThumbnailURL string `json:"thumbnail_url"`
		} `json:"drawings"`
	}
	h.getJSON(t, "/api/drawings", &listed)
	if len(listed.Drawings) != 1 {
		t.Fatalf("drawings = %d, want 1", len(listed.Drawings))
	}
	if listed.Drawings[0].SessionID != h.runner.Journal().ID {
		t.Errorf("drawing session = %s, want %s", listed.Drawings[0].SessionID, h.runner.Journal().ID)
	}

	resp, err := h.ts.Client().Get(h.ts.URL + listed.Drawings[0].ThumbnailURL)
	if err != nil {
		t.Fatalf("GET thumbnail error = %v", err)
	}
	defer resp.Body.Close()

	thumb, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("thumbnail decode error = %v", err)
	}
	if b := thumb.Bounds(); b.Dx() != 240 || b.Dy() != 240 {
		t.Errorf("thumbnail = %v, want 240x240 for a square canvas", b)
	}
}
