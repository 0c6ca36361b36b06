package testutil

import (
	"io"
	"log"
	"testing"
)

// TestLogger returns a logger that writes through t.Log so output is
// attributed to the failing test.
func TestLogger(t *testing.T) *log.Logger {
	return log.New(testWriter{t}, "[test] ", log.LstdFlags)
}

type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

var _ io.Writer = testWriter{}
