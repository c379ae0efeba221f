package backend

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Kind represents the type of event emitted by the backend watcher.
type Kind int

const (
	// KindPoll asks for a refresh of the selected queue's messages.
	KindPoll Kind = iota
	// KindSettle asks for a queue listing refresh once a mutation has had
	// time to propagate.
	KindSettle
)

func (k Kind) String() string {
	switch k {
	case KindPoll:
		return "poll"
	case KindSettle:
		return "settle"
	default:
		return "unknown"
	}
}

// Event is a refresh trigger. The watcher never talks to the remote service
// itself; the UI turns each event into a dispatched action.
type Event struct {
	Kind Kind
	At   time.Time
}

// Watcher owns the periodic poll ticker and any pending settle timers. All
// of them are cancelled by Stop.
type Watcher struct {
	clock    clockwork.Clock
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	stopped bool

	events chan Event
	wg     sync.WaitGroup
	closed chan struct{}
}

// NewWatcher starts a watcher that emits a KindPoll event every interval.
// A non-positive interval disables periodic polling; settle events still work.
func NewWatcher(clock clockwork.Clock, interval time.Duration) *Watcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		clock:    clock,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
		closed:   make(chan struct{}),
	}
	if interval > 0 {
		w.wg.Add(1)
		go w.poll()
	}
	return w
}

// Events returns a channel of backend events. It is closed after Stop once
// every goroutine has exited.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Interval reports the poll interval the watcher was started with.
func (w *Watcher) Interval() time.Duration {
	return w.interval
}

// ScheduleSettle emits a KindSettle event after delay. It reports false when
// the watcher has already been stopped.
func (w *Watcher) ScheduleSettle(delay time.Duration) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return false
	}
	w.wg.Add(1)
	go w.settle(delay)
	return true
}

// Stop cancels the poll ticker and every pending settle timer. It is safe to
// call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	w.mu.Unlock()

	w.cancel()
	go func() {
		w.wg.Wait()
		close(w.events)
		close(w.closed)
	}()
}

// Wait blocks until Stop has been called and all goroutines have exited.
func (w *Watcher) Wait() {
	<-w.closed
}

func (w *Watcher) poll() {
	defer w.wg.Done()

	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.Chan():
			if !w.emit(KindPoll) {
				return
			}
		}
	}
}

func (w *Watcher) settle(delay time.Duration) {
	defer w.wg.Done()

	if delay > 0 {
		select {
		case <-w.ctx.Done():
			return
		case <-w.clock.After(delay):
		}
	}
	w.emit(KindSettle)
}

func (w *Watcher) emit(kind Kind) bool {
	evt := Event{Kind: kind, At: w.clock.Now()}
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}
