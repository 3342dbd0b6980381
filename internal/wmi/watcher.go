// Package wmi talks to the root\WMI monitor brightness classes: it reads and
// sets the panel backlight and watches for brightness change events.
package wmi

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alex-vit/hdrbright/internal/monitor"
	"github.com/alex-vit/hdrbright/internal/notify"
)

// ErrNoInstance is returned when no WMI brightness instance matches.
var ErrNoInstance = errors.New("wmi: no brightness instance for monitor")

// State of a Watcher.
type State int32

const (
	Stopped State = iota
	Watching
)

func (s State) String() string {
	if s == Watching {
		return "watching"
	}
	return "stopped"
}

// Event is one WmiMonitorBrightnessEvent.
type Event struct {
	InstanceName string
	Brightness   uint8
}

// EventSource yields brightness events. Next waits at most timeout and
// reports ok=false when nothing arrived.
type EventSource interface {
	Next(timeout time.Duration) (ev Event, ok bool, err error)
	Close()
}

// Opener subscribes to brightness events.
type Opener func() (EventSource, error)

const defaultPoll = 500 * time.Millisecond

// Watcher delivers brightness changes for one monitor to subscribers, on its
// own goroutine.
type Watcher struct {
	open Opener
	poll time.Duration
	hub  notify.Hub[uint8]

	mu     sync.Mutex
	target string
	state  State
	stop   chan struct{}
	done   chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithOpener replaces the WMI event subscription.
func WithOpener(open Opener) Option {
	return func(w *Watcher) {
		w.open = open
	}
}

// WithPollInterval bounds how long Stop waits for a pending Next.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.poll = d
		}
	}
}

// NewWatcher creates a stopped watcher for the monitor with the given WMI
// instance name.
func NewWatcher(target string, opts ...Option) *Watcher {
	w := &Watcher{
		open:   openBrightnessEvents,
		poll:   defaultPoll,
		target: target,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Subscribe registers fn for brightness percentages of the target monitor.
func (w *Watcher) Subscribe(fn func(percent uint8)) *notify.Subscription {
	return w.hub.Subscribe(fn)
}

// SetTarget switches the monitor whose events are delivered.
func (w *Watcher) SetTarget(target string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.target = target
}

// Target returns the WMI instance name events are matched against.
func (w *Watcher) Target() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.target
}

// State returns the current state.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Start replaces any running subscription with a new one. On failure the
// watcher stays stopped.
func (w *Watcher) Start() error {
	w.Stop()

	src, err := w.open()
	if err != nil {
		log.Warn().Err(err).Msg("wmi: subscribe to brightness events failed")
		return err
	}

	w.mu.Lock()
	stop, done := make(chan struct{}), make(chan struct{})
	w.stop, w.done = stop, done
	w.state = Watching
	target := w.target
	w.mu.Unlock()

	log.Debug().Str("target", target).Msg("wmi: watching brightness events")
	go w.loop(src, stop, done)
	return nil
}

// Stop cancels the subscription and waits for the delivery goroutine.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.state != Watching {
		w.mu.Unlock()
		return
	}
	stop, done := w.stop, w.done
	w.state = Stopped
	w.stop, w.done = nil, nil
	w.mu.Unlock()

	close(stop)
	<-done
}

// Close stops the watcher.
func (w *Watcher) Close() {
	w.Stop()
}

func (w *Watcher) loop(src EventSource, stop, done chan struct{}) {
	defer close(done)
	defer src.Close()

	for {
		select {
		case <-stop:
			return
		default:
		}

		ev, ok, err := src.Next(w.poll)
		if err != nil {
			log.Warn().Err(err).Msg("wmi: brightness event source failed")
			w.markStopped(stop)
			return
		}
		if !ok {
			continue
		}
		if !monitor.SameInstance(ev.InstanceName, w.Target()) {
			log.Debug().Str("instance", ev.InstanceName).Msg("wmi: event for another monitor")
			continue
		}
		w.hub.Publish(ev.Brightness)
	}
}

// markStopped records that the loop owning stop exited on its own.
func (w *Watcher) markStopped(stop chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stop == stop {
		w.state = Stopped
		w.stop, w.done = nil, nil
	}
}

// Reading is one WmiMonitorBrightness instance.
type Reading struct {
	InstanceName string
	Percent      uint8
	Active       bool
}

// FindReading returns the reading belonging to instance.
func FindReading(readings []Reading, instance string) (Reading, bool) {
	for _, r := range readings {
		if monitor.SameInstance(r.InstanceName, instance) {
			return r, true
		}
	}
	return Reading{}, false
}
