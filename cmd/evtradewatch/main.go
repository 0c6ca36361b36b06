package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/handlers"

	"github.com/Neshaki091/evtrade-client/internal/account"
	"github.com/Neshaki091/evtrade-client/internal/api"
	"github.com/Neshaki091/evtrade-client/internal/auction"
	"github.com/Neshaki091/evtrade-client/internal/chat"
	"github.com/Neshaki091/evtrade-client/internal/config"
	"github.com/Neshaki091/evtrade-client/internal/countdown"
	"github.com/Neshaki091/evtrade-client/internal/payment"
	"github.com/Neshaki091/evtrade-client/internal/poll"
	"github.com/Neshaki091/evtrade-client/internal/realtime"
	"github.com/Neshaki091/evtrade-client/internal/session"
	"github.com/Neshaki091/evtrade-client/internal/stats"
	"github.com/Neshaki091/evtrade-client/internal/types"
)

var (
	apiURL       string
	realtimeURL  string
	stateDir     string
	pollInterval time.Duration
	debugAddr    string
	email        string
	password     string
	auctionId    string
	orderId      string
)

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "evtrade")
	}
	return ".evtrade"
}

func main() {
	flag.StringVar(&apiURL, "api-url", "http://localhost:8000", "REST backend base url")
	flag.StringVar(&realtimeURL, "realtime-url", "ws://localhost:8000/realtime", "realtime store websocket url")
	flag.StringVar(&stateDir, "state-dir", defaultStateDir(), "directory for the persisted session")
	flag.DurationVar(&pollInterval, "poll-interval", config.DefaultPollInterval, "polling interval for wallet/auction watchers")
	flag.StringVar(&debugAddr, "debug-addr", "", "serve client counters on this address when set")
	flag.StringVar(&email, "email", "", "login email, required when no session is stored")
	flag.StringVar(&password, "password", "", "login password, required when no session is stored")
	flag.StringVar(&auctionId, "auction", "", "auction id to watch")
	flag.StringVar(&orderId, "order", "", "order id to watch for payment confirmation")
	flag.Parse()

	logger := log.New(os.Stderr, "[evtrade] ", log.LstdFlags)

	cfg, err := config.NewConfig(apiURL, realtimeURL, stateDir, pollInterval, debugAddr)
	if err != nil {
		logger.Fatal("config:", err)
	}

	sess, err := session.New(logger, cfg.StateDir)
	if err != nil {
		logger.Fatal("session:", err)
	}

	mux := http.NewServeMux()
	statsUpdater := stats.NewStatsUpdater(mux)
	statsUpdater.Run()
	defer statsUpdater.Stop()

	if cfg.DebugAddr != "" {
		h := handlers.CORS(
			handlers.AllowedMethods([]string{http.MethodGet}),
		)(mux)
		h = handlers.LoggingHandler(os.Stderr, h)
		go func() {
			logger.Printf("serving counters on %s/debug/vars", cfg.DebugAddr)
			if err := http.ListenAndServe(cfg.DebugAddr, h); err != nil {
				logger.Println("debug listener:", err)
			}
		}()
	}

	client, err := api.NewClient(logger, cfg.APIBaseURL, sess, statsUpdater)
	if err != nil {
		logger.Fatal("api client:", err)
	}

	accounts := account.NewService(client)
	auctions := auction.NewService(client)
	payments := payment.NewService(client)
	chats := chat.NewService(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !sess.Authenticated() {
		if email == "" || password == "" {
			logger.Fatal("no stored session: -email and -password are required")
		}
		resp, err := accounts.Login(ctx, email, password)
		if err != nil {
			logger.Fatal("login:", err)
		}
		if err := sess.Establish(resp.Token, resp.User); err != nil {
			logger.Fatal("establish session:", err)
		}
		logger.Printf("logged in as %s", resp.User.Username)
	}

	user, _ := sess.User()
	if exp, ok := sess.ExpiresAt(); ok {
		logger.Printf("session for %s expires at %s", user.Username, exp.Format(time.RFC3339))
	}

	sub, err := realtime.Dial(ctx, logger, statsUpdater, cfg.RealtimeURL, sess.Token(), user.Id,
		accounts, chats, realtime.Callbacks{
			OnRooms: func(rooms []realtime.RoomView) {
				for i, r := range rooms {
					logger.Printf("room %d: %s (%s) %q", i+1, r.OtherName, r.Id, r.LastMessageText)
				}
			},
			OnMessages: func(roomId string, msgs []types.Message) {
				for _, m := range msgs {
					logger.Printf("[%s] %s: %s", roomId, m.SenderId, m.Text)
				}
			},
			OnError: func(err error) {
				logger.Println("realtime:", err)
			},
		})
	if err != nil {
		logger.Fatal("realtime dial:", err)
	}
	sub.WatchRooms(user.Id)

	balanceWatcher := poll.NewBalanceWatcher(logger, statsUpdater, accounts.Balance, cfg.PollInterval,
		func(prev, cur int64) {
			logger.Printf("wallet balance increased: %d -> %d", prev, cur)
		},
		func(err error) {
			if api.IsTransient(err) {
				return // keep last value, retry on the next tick
			}
			logger.Println("balance poll:", err)
		})
	balanceWatcher.Start(ctx)

	var watchers []interface{ Stop() }
	watchers = append(watchers, balanceWatcher)

	sess.OnClear(func() {
		logger.Println("session cleared, resetting watch baselines")
		balanceWatcher.Reset()
		cancel()
	})

	if orderId != "" {
		orderWatcher := poll.NewStatusWatcher(logger, statsUpdater,
			func(ctx context.Context) (bool, error) {
				order, err := payments.Order(ctx, orderId)
				if err != nil {
					return false, err
				}
				return order.Paid(), nil
			},
			cfg.PollInterval,
			func() { logger.Printf("order %s is paid", orderId) },
			nil)
		orderWatcher.Start(ctx)
		watchers = append(watchers, orderWatcher)
	}

	if auctionId != "" {
		a, err := auctions.Get(ctx, auctionId)
		if err != nil {
			logger.Fatal("fetch auction:", err)
		}
		logger.Printf("watching auction %s: current price %d, next bid at least %d",
			a.Id, a.CurrentPrice, auction.MinBidAmount(a))

		auctionWatcher := poll.NewAuctionWatcher(logger, statsUpdater,
			func(ctx context.Context) (types.Auction, error) { return auctions.Get(ctx, auctionId) },
			cfg.PollInterval,
			func(prev, cur int64) {
				logger.Printf("auction %s price: %d -> %d", auctionId, prev, cur)
			},
			func(status types.AuctionStatus) {
				logger.Printf("auction %s is now %s", auctionId, status)
			},
			nil)
		auctionWatcher.Start(ctx)
		watchers = append(watchers, auctionWatcher)

		tick := countdown.NewTicker(logger, a.EndTime)
		tick.Start()
		defer tick.Stop()
		go func() {
			for b := range tick.C() {
				if b.Ended {
					// The local clock is optimistic; the backend status
					// decides whether the auction is actually over.
					cur, err := auctions.Get(ctx, auctionId)
					switch {
					case err != nil:
						logger.Printf("auction %s countdown reached zero, status check failed: %v", auctionId, err)
					case countdown.Over(b, cur.Status):
						logger.Printf("auction %s ended", auctionId)
					default:
						logger.Printf("auction %s countdown reached zero, awaiting backend result", auctionId)
					}
					return
				}
				if b.Seconds == 0 && b.Minutes%5 == 0 {
					logger.Printf("auction %s ends in %dd %dh %dm", auctionId, b.Days, b.Hours, b.Minutes)
				}
			}
		}()
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Printf("received signal: %s", sig)
	case <-sub.Done():
		logger.Println("realtime connection closed")
	case <-ctx.Done():
	}

	sub.Close()
	for _, w := range watchers {
		w.Stop()
	}

	logger.Println("shutdown complete")
}
