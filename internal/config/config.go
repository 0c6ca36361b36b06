package config

import (
	"fmt"
	"net/url"
	"time"
)

const DefaultPollInterval = 5 * time.Second

type Config struct {
	// APIBaseURL is the root of the REST backend, without the /api prefix.
	APIBaseURL string
	// RealtimeURL is the websocket endpoint of the push store.
	RealtimeURL string
	// StateDir holds the persisted session file.
	StateDir string
	// PollInterval is the tick period for balance/status/auction watchers.
	PollInterval time.Duration
	// DebugAddr, when set, serves client counters on /debug/vars.
	DebugAddr string
}

func validateURL(raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	for _, s := range schemes {
		if u.Scheme == s {
			return nil
		}
	}
	return fmt.Errorf("unsupported scheme %q", u.Scheme)
}

func NewConfig(apiBaseURL, realtimeURL, stateDir string, pollInterval time.Duration, debugAddr string) (*Config, error) {
	if apiBaseURL == "" {
		return nil, fmt.Errorf("api base url cannot be empty")
	}
	if err := validateURL(apiBaseURL, "http", "https"); err != nil {
		return nil, fmt.Errorf("api base url: %w", err)
	}
	if realtimeURL == "" {
		return nil, fmt.Errorf("realtime url cannot be empty")
	}
	if err := validateURL(realtimeURL, "ws", "wss"); err != nil {
		return nil, fmt.Errorf("realtime url: %w", err)
	}
	if stateDir == "" {
		return nil, fmt.Errorf("state dir cannot be empty")
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	return &Config{
		APIBaseURL:   apiBaseURL,
		RealtimeURL:  realtimeURL,
		StateDir:     stateDir,
		PollInterval: pollInterval,
		DebugAddr:    debugAddr,
	}, nil
}
