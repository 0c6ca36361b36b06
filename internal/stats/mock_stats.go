package stats

import "github.com/stretchr/testify/mock"

// MockStatsUpdater records expectations against the client counters
// (poll ticks and skips, notifications, api and realtime events) in
// tests that assert on the exact updates a component issues.
type MockStatsUpdater struct {
	mock.Mock
}

var _ StatsProvider = (*MockStatsUpdater)(nil)

func (m *MockStatsUpdater) Incr(name string) {
	m.Called(name)
}
func (m *MockStatsUpdater) Decr(name string) {
	m.Called(name)
}
func (m *MockStatsUpdater) RegisterMetric(name string) {
	m.Called(name)
}
func (m *MockStatsUpdater) Run() {
	m.Called()
}
