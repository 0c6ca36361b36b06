package countdown

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Neshaki091/evtrade-client/internal/types"
)

// Breakdown is the human-readable remaining time until a fixed end
// timestamp. Once Ended is set the breakdown stays frozen at zero.
type Breakdown struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
	Ended   bool
}

// Until derives the breakdown of end minus now. Zero or negative
// remaining time yields all-zero fields with Ended set.
func Until(end, now time.Time) Breakdown {
	remaining := end.Sub(now)
	if remaining <= 0 {
		return Breakdown{Ended: true}
	}

	secs := int(remaining / time.Second)
	return Breakdown{
		Days:    secs / 86400,
		Hours:   secs % 86400 / 3600,
		Minutes: secs % 3600 / 60,
		Seconds: secs % 60,
	}
}

// Over reports whether the auction is actually over. The local Ended
// flag is optimistic and subject to clock skew; the backend status is
// authoritative whenever it is known.
func Over(local Breakdown, status types.AuctionStatus) bool {
	switch status {
	case types.AuctionEnded, types.AuctionCancelled, types.AuctionSettled:
		return true
	case types.AuctionScheduled, types.AuctionActive:
		return false
	}
	return local.Ended
}

// Ticker recomputes the breakdown once per second and emits it on C.
// After emitting the terminal all-zero breakdown it stops on its own;
// no further transitions occur client-side.
type Ticker struct {
	log *log.Logger
	end time.Time
	now func() time.Time

	c        chan Breakdown
	started  atomic.Bool
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func NewTicker(logger *log.Logger, end time.Time) *Ticker {
	return &Ticker{
		log:  logger,
		end:  end,
		now:  time.Now,
		c:    make(chan Breakdown, 1),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// C delivers one breakdown per second. The channel is closed after the
// terminal emission or after Stop.
func (t *Ticker) C() <-chan Breakdown {
	return t.c
}

func (t *Ticker) Start() {
	if !t.started.CompareAndSwap(false, true) {
		return
	}
	go t.run()
}

func (t *Ticker) run() {
	defer close(t.done)
	defer close(t.c)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	if t.emit() {
		return
	}
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			if t.emit() {
				return
			}
		}
	}
}

// emit sends the current breakdown and reports whether it was terminal.
func (t *Ticker) emit() bool {
	b := Until(t.end, t.now())
	select {
	case t.c <- b:
	case <-t.stop:
		return true
	}
	return b.Ended
}

// Stop cancels the ticker. Safe to call on every exit path, including
// after the ticker already finished on its own.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
	if t.started.Load() {
		<-t.done
	}
}
