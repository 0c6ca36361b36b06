package poll

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Neshaki091/evtrade-client/internal/stats"
)

type FetchFunc[T any] func(ctx context.Context) (T, error)

// UpdateFunc receives the previous and current values after every
// successful fetch. initialized is false on the first observation, when
// there is no baseline to compare against.
type UpdateFunc[T any] func(prev, cur T, initialized bool)

// Watcher re-fetches a value on a fixed interval and derives
// edge-triggered side effects from transitions rather than raw values.
// At most one fetch is in flight at a time; a tick that lands while a
// fetch is still running is skipped. A failed fetch keeps the previous
// value and the interval unchanged.
type Watcher[T any] struct {
	log      *log.Logger
	stats    stats.StatsProvider
	fetch    FetchFunc[T]
	interval time.Duration
	onUpdate UpdateFunc[T]
	onError  func(error)

	mu          sync.Mutex
	inFlight    bool
	last        T
	initialized bool

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
	polls    sync.WaitGroup
}

func NewWatcher[T any](logger *log.Logger, sp stats.StatsProvider, fetch FetchFunc[T],
	interval time.Duration, onUpdate UpdateFunc[T], onError func(error)) *Watcher[T] {
	return &Watcher[T]{
		log:      logger,
		stats:    sp,
		fetch:    fetch,
		interval: interval,
		onUpdate: onUpdate,
		onError:  onError,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start fetches once immediately, then on every interval tick until the
// context is cancelled or Stop is called.
func (w *Watcher[T]) Start(ctx context.Context) {
	if !w.started.CompareAndSwap(false, true) {
		return
	}
	go w.run(ctx)
}

func (w *Watcher[T]) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

// Stop cancels the interval timer and waits for an in-flight fetch to
// return. It is idempotent and safe to call from session teardown
// hooks; once it returns no callback or counter update fires.
func (w *Watcher[T]) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	if w.started.Load() {
		<-w.done
	}
	w.polls.Wait()
}

// Reset discards the baseline so the next observation is treated as the
// first. Registered on session clear so a later login by a different
// user never inherits a stale baseline.
func (w *Watcher[T]) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	var zero T
	w.last = zero
	w.initialized = false
}

// Last returns the most recently observed value, if any.
func (w *Watcher[T]) Last() (T, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.last, w.initialized
}

func (w *Watcher[T]) tick(ctx context.Context) {
	w.mu.Lock()
	if w.inFlight {
		w.mu.Unlock()
		w.stats.Incr(stats.PollSkipped)
		return
	}
	w.inFlight = true
	w.mu.Unlock()

	w.polls.Add(1)
	go func() {
		defer w.polls.Done()
		w.poll(ctx)
	}()
}

func (w *Watcher[T]) stopped() bool {
	select {
	case <-w.stop:
		return true
	default:
		return false
	}
}

// poll runs one fetch-compare-update cycle.
func (w *Watcher[T]) poll(ctx context.Context) {
	defer func() {
		w.mu.Lock()
		w.inFlight = false
		w.mu.Unlock()
	}()

	w.stats.Incr(stats.PollTicks)

	val, err := w.fetch(ctx)
	if w.stopped() {
		// A result that lands after Stop is dropped without side effects.
		return
	}
	if err != nil {
		// Keep the previous value; the next tick retries on schedule.
		w.log.Printf("poll: %v", err)
		if w.onError != nil {
			w.onError(err)
		}
		return
	}

	w.mu.Lock()
	prev, initialized := w.last, w.initialized
	w.last, w.initialized = val, true
	w.mu.Unlock()

	if w.onUpdate != nil {
		w.onUpdate(prev, val, initialized)
	}
}
