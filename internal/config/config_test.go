package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	var (
		apiURL   = "http://localhost:8000"
		rtURL    = "ws://localhost:8000/ws"
		stateDir = t.TempDir()
	)

	tcases := []struct {
		name     string
		apiURL   string
		rtURL    string
		stateDir string
		interval time.Duration
		err      bool
	}{
		{
			name:     "valid config",
			apiURL:   apiURL,
			rtURL:    rtURL,
			stateDir: stateDir,
			interval: time.Second,
			err:      false,
		},
		{
			name:     "empty api url",
			apiURL:   "",
			rtURL:    rtURL,
			stateDir: stateDir,
			err:      true,
		},
		{
			name:     "api url with websocket scheme",
			apiURL:   rtURL,
			rtURL:    rtURL,
			stateDir: stateDir,
			err:      true,
		},
		{
			name:     "empty realtime url",
			apiURL:   apiURL,
			rtURL:    "",
			stateDir: stateDir,
			err:      true,
		},
		{
			name:     "realtime url with http scheme",
			apiURL:   apiURL,
			rtURL:    apiURL,
			stateDir: stateDir,
			err:      true,
		},
		{
			name:     "empty state dir",
			apiURL:   apiURL,
			rtURL:    rtURL,
			stateDir: "",
			err:      true,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.apiURL, tc.rtURL, tc.stateDir, tc.interval, "")
			if tc.err {
				assert.Error(t, err, "expected error for config: %s", tc.name)
				return
			}
			assert.NoError(t, err, "expected no error for config: %s", tc.name)

			assert.Equal(t, tc.apiURL, cfg.APIBaseURL, "expected api base url to match")
			assert.Equal(t, tc.rtURL, cfg.RealtimeURL, "expected realtime url to match")
			assert.Equal(t, tc.stateDir, cfg.StateDir, "expected state dir to match")
			assert.Equal(t, tc.interval, cfg.PollInterval, "expected poll interval to match")
		})
	}
}

func TestNewConfig_defaultPollInterval(t *testing.T) {
	cfg, err := NewConfig("http://localhost:8000", "ws://localhost:8000/ws", t.TempDir(), 0, "")
	assert.NoError(t, err, "expected no error for zero poll interval")
	assert.Equal(t, DefaultPollInterval, cfg.PollInterval, "expected poll interval to default")
}
