package server

import (
	"sync"

	"github.com/benbjohnson/clock"
	"gocv.io/x/gocv"

	"github.com/ayusman/airpointer/internal/app"
	"github.com/ayusman/airpointer/internal/detector"
)

// LiveFrame is the per-frame state pushed to /api/live clients.
type LiveFrame struct {
	Hand      *detector.HandLandmarks `json:"hand,omitempty"`
	Status    app.Status              `json:"status"`
	Timestamp int64                   `json:"timestamp"`
}

// Feed holds the latest composed frame and status published by the pointer
// loop. It implements app.Publisher and fans the live state out to any
// number of subscribers.
type Feed struct {
	clock clock.Clock

	mu      sync.RWMutex
	jpeg    []byte
	seq     uint64
	live    LiveFrame
	hasLive bool
	subs    map[chan LiveFrame]struct{}
}

// NewFeed creates an empty Feed. A nil clock uses the wall clock.
func NewFeed(clk clock.Clock) *Feed {
	if clk == nil {
		clk = clock.New()
	}
	return &Feed{
		clock: clk,
		subs:  make(map[chan LiveFrame]struct{}),
	}
}

// Publish encodes frame as JPEG for the stream and forwards the status to
// live subscribers.
func (f *Feed) Publish(frame *gocv.Mat, hand *detector.HandLandmarks, status app.Status) {
	if frame != nil && !frame.Empty() {
		buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
		if err == nil {
			f.SetJPEG(buf.GetBytes())
			buf.Close()
		}
	}
	f.PublishLive(hand, status)
}

// SetJPEG replaces the latest stream frame with a copy of data.
func (f *Feed) SetJPEG(data []byte) {
	frame := make([]byte, len(data))
	copy(frame, data)

	f.mu.Lock()
	f.jpeg = frame
	f.seq++
	f.mu.Unlock()
}

// Snapshot returns the latest JPEG frame and its sequence number. The
// sequence is zero until the first frame arrives.
func (f *Feed) Snapshot() ([]byte, uint64) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.jpeg, f.seq
}

// PublishLive records the latest status and offers it to every subscriber.
// Subscribers that have not drained their previous frame miss this one.
func (f *Feed) PublishLive(hand *detector.HandLandmarks, status app.Status) {
	lf := LiveFrame{Status: status, Timestamp: f.clock.Now().UnixMilli()}
	if hand != nil {
		h := *hand
		lf.Hand = &h
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.live = lf
	f.hasLive = true
	for ch := range f.subs {
		select {
		case ch <- lf:
		default:
		}
	}
}

// Latest returns the most recent live frame, if any.
func (f *Feed) Latest() (LiveFrame, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.live, f.hasLive
}

// Subscribe registers for live frames. The latest frame, if any, is
// delivered first. cancel must be called to release the subscription.
func (f *Feed) Subscribe() (<-chan LiveFrame, func()) {
	ch := make(chan LiveFrame, 1)

	f.mu.Lock()
	if f.hasLive {
		ch <- f.live
	}
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, ch)
			f.mu.Unlock()
		})
	}
	return ch, cancel
}

// Subscribers returns the number of active subscriptions.
func (f *Feed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}
