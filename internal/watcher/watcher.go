// Package watcher runs the background worker that blocks on the external
// mail command's change-wait call and reports mailbox changes to the main
// loop over a one-way channel.
package watcher

import (
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// EventKind classifies watcher notifications.
type EventKind int

const (
	// Change means a mailbox changed on disk and caches should be
	// invalidated.
	Change EventKind = iota
	// Error means a wait attempt failed. Unless Fatal is set the watcher
	// goes on retrying by itself.
	Error
)

// Event is one watcher notification. Quiet timeouts produce no event at
// all; the wait is simply restarted.
type Event struct {
	Kind  EventKind
	Err   error
	Fatal bool
}

// WaitFunc blocks until a mailbox change, a timeout, or a failure.
// It returns (true, nil) on change and (false, nil) on timeout.
type WaitFunc func() (changed bool, err error)

// Watcher owns the background wait loop. Create with New, then Start.
// The watcher never touches application state; all it does is feed
// Events.
type Watcher struct {
	wait           WaitFunc
	events         chan Event
	done           chan struct{}
	stopOnce       sync.Once
	initialBackoff time.Duration
	maxBackoff     time.Duration
	fatal          func(error) bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithBackoff sets the retry backoff bounds after transient failures.
// The delay starts at initial and doubles up to max, resetting after any
// successful wait.
func WithBackoff(initial, max time.Duration) Option {
	return func(w *Watcher) {
		w.initialBackoff = initial
		w.maxBackoff = max
	}
}

// WithFatal installs a predicate for errors that should stop the watcher
// permanently instead of being retried.
func WithFatal(fn func(error) bool) Option {
	return func(w *Watcher) {
		w.fatal = fn
	}
}

// New returns an unstarted Watcher around wait.
func New(wait WaitFunc, opts ...Option) *Watcher {
	w := &Watcher{
		wait:           wait,
		events:         make(chan Event, 4),
		done:           make(chan struct{}),
		initialBackoff: time.Second,
		maxBackoff:     time.Minute,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Events returns the notification channel. It is closed once the watcher
// stops, whether by Stop or by a fatal error.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start launches the wait loop.
func (w *Watcher) Start() {
	go w.run()
}

// Stop asks the watcher to exit. A wait call already in flight is
// abandoned; the loop notices the stop before the next wait or send.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.done) })
}

func (w *Watcher) run() {
	defer close(w.events)
	backoff := w.initialBackoff
	for {
		select {
		case <-w.done:
			return
		default:
		}

		changed, err := w.wait()
		if err != nil {
			err = eris.Wrap(err, "change wait")
			if w.fatal != nil && w.fatal(err) {
				w.send(Event{Kind: Error, Err: err, Fatal: true})
				return
			}
			if !w.send(Event{Kind: Error, Err: err}) {
				return
			}
			if !w.sleep(backoff) {
				return
			}
			backoff = min(backoff*2, w.maxBackoff)
			continue
		}

		backoff = w.initialBackoff
		if changed {
			if !w.send(Event{Kind: Change}) {
				return
			}
		}
	}
}

func (w *Watcher) send(ev Event) bool {
	select {
	case w.events <- ev:
		return true
	case <-w.done:
		return false
	}
}

func (w *Watcher) sleep(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-w.done:
		return false
	}
}
