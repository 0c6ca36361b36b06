package poll

import (
	"log"
	"time"

	"github.com/Neshaki091/evtrade-client/internal/stats"
	"github.com/Neshaki091/evtrade-client/internal/types"
)

// NewBalanceWatcher notifies exactly once per observed strict increase
// of the wallet balance. Decreases and the first observation update the
// baseline silently.
func NewBalanceWatcher(logger *log.Logger, sp stats.StatsProvider, fetch FetchFunc[int64],
	interval time.Duration, notify func(prev, cur int64), onError func(error)) *Watcher[int64] {
	return NewWatcher(logger, sp, fetch, interval, func(prev, cur int64, initialized bool) {
		if initialized && cur > prev {
			sp.Incr(stats.Notifications)
			notify(prev, cur)
		}
	}, onError)
}

// NewStatusWatcher notifies on the false-to-true flip of a polled
// boolean, such as an order reaching the paid state.
func NewStatusWatcher(logger *log.Logger, sp stats.StatsProvider, fetch FetchFunc[bool],
	interval time.Duration, notify func(), onError func(error)) *Watcher[bool] {
	return NewWatcher(logger, sp, fetch, interval, func(prev, cur bool, initialized bool) {
		if initialized && cur && !prev {
			sp.Incr(stats.Notifications)
			notify()
		}
	}, onError)
}

// NewAuctionWatcher re-fetches an auction and reports price increases
// and the auction leaving the active state. The client never derives
// status transitions itself, it only observes them.
func NewAuctionWatcher(logger *log.Logger, sp stats.StatsProvider, fetch FetchFunc[types.Auction],
	interval time.Duration, onPrice func(prev, cur int64), onLeftActive func(types.AuctionStatus),
	onError func(error)) *Watcher[types.Auction] {
	return NewWatcher(logger, sp, fetch, interval, func(prev, cur types.Auction, initialized bool) {
		if !initialized {
			return
		}
		if cur.CurrentPrice > prev.CurrentPrice && onPrice != nil {
			sp.Incr(stats.Notifications)
			onPrice(prev.CurrentPrice, cur.CurrentPrice)
		}
		if prev.Status == types.AuctionActive && cur.Status != types.AuctionActive && onLeftActive != nil {
			sp.Incr(stats.Notifications)
			onLeftActive(cur.Status)
		}
	}, onError)
}
