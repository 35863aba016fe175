package plugin

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ayusman/airpointer/internal/input"
)

// Driver is an input.Driver that forwards pointer actions to a plugin.
// Calls never block the frame loop: a single worker runs the plugin, moves
// are coalesced so only the newest position is sent, and clicks and scrolls
// are queued up to a small limit and dropped beyond it.
type Driver struct {
	plugin   *Plugin
	executor *Executor
	logger   *zap.SugaredLogger
	ticks    input.TickAccumulator

	mu      sync.Mutex
	move    *Request
	events  []Request
	wake    chan struct{}
	dropped int

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// maxQueuedEvents bounds the clicks and scrolls waiting for the plugin.
const maxQueuedEvents = 16

var _ input.Driver = (*Driver)(nil)

// NewDriver starts a Driver for plugin. Close stops it.
func NewDriver(plugin *Plugin, executor *Executor, logger *zap.SugaredLogger) *Driver {
	if executor == nil {
		executor = NewExecutor(DefaultTimeout)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Driver{
		plugin:   plugin,
		executor: executor,
		logger:   logger.With("plugin", plugin.Manifest.Name),
		wake:     make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go d.run()
	return d
}

// MoveTo replaces any move not yet sent.
func (d *Driver) MoveTo(x, y int) {
	d.mu.Lock()
	d.move = &Request{Action: ActionMove, X: x, Y: y}
	d.mu.Unlock()
	d.signal()
}

// Click queues a click.
func (d *Driver) Click() {
	d.enqueue(Request{Action: ActionClick})
}

// Scroll queues the whole ticks of amount, carrying fractions over.
func (d *Driver) Scroll(amount float64) {
	d.mu.Lock()
	ticks := d.ticks.Add(amount)
	d.mu.Unlock()
	if ticks != 0 {
		d.enqueue(Request{Action: ActionScroll, Ticks: ticks})
	}
}

func (d *Driver) enqueue(req Request) {
	d.mu.Lock()
	if len(d.events) >= maxQueuedEvents {
		d.dropped++
		d.mu.Unlock()
		return
	}
	d.events = append(d.events, req)
	d.mu.Unlock()
	d.signal()
}

func (d *Driver) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Dropped returns how many clicks and scrolls were discarded because the
// plugin fell behind.
func (d *Driver) Dropped() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dropped
}

// next takes the pending move first so that clicks land where the cursor
// was last sent, then the oldest queued event.
func (d *Driver) next() (Request, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.move != nil {
		req := *d.move
		d.move = nil
		return req, true
	}
	if len(d.events) > 0 {
		req := d.events[0]
		d.events = d.events[1:]
		return req, true
	}
	return Request{}, false
}

func (d *Driver) run() {
	defer close(d.done)

	for {
		select {
		case <-d.ctx.Done():
			return
		case <-d.wake:
		}

		for {
			req, ok := d.next()
			if !ok {
				break
			}
			d.send(req)
			if d.ctx.Err() != nil {
				return
			}
		}
	}
}

func (d *Driver) send(req Request) {
	resp, err := d.executor.Execute(d.ctx, d.plugin, &req)
	if err != nil {
		d.logger.Warnw("plugin call failed", "action", req.Action, "error", err)
		return
	}
	if !resp.Success {
		d.logger.Warnw("plugin rejected action", "action", req.Action, "error", resp.Error)
	}
}

// Close stops the worker and waits for the call in flight. Pending actions
// are discarded.
func (d *Driver) Close() error {
	d.cancel()
	<-d.done
	return nil
}
