package engine

import (
	"sync"
	"time"
)

// Ticker is a repeating tick source.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock supplies wall-clock time and tick sources to the engine.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

type realClock struct{}

type realTicker struct {
	t *time.Ticker
}

// RealClock returns a Clock backed by the time package.
func RealClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

func (r *realTicker) C() <-chan time.Time {
	return r.t.C
}

func (r *realTicker) Stop() {
	r.t.Stop()
}

// ManualClock is a Clock whose time only moves when Advance is called and
// whose tickers only fire through Fire. Used by tests and by the demo mode
// of the binary to fast-forward a workout.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*manualTicker
}

type manualTicker struct {
	clock   *ManualClock
	c       chan time.Time
	stopped bool
}

// NewManualClock creates a ManualClock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the clock's current time.
func (m *ManualClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// NewTicker returns a ticker that fires only when Fire is called.
// The interval is ignored.
func (m *ManualClock) NewTicker(time.Duration) Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTicker{clock: m, c: make(chan time.Time, 1)}
	m.tickers = append(m.tickers, t)
	return t
}

// Advance moves the clock forward by d.
func (m *ManualClock) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Fire delivers one tick to every ticker that has not been stopped. It
// reports how many tickers received the tick.
func (m *ManualClock) Fire() int {
	m.mu.Lock()
	now := m.now
	active := make([]*manualTicker, 0, len(m.tickers))
	for _, t := range m.tickers {
		if !t.stopped {
			active = append(active, t)
		}
	}
	m.mu.Unlock()

	for _, t := range active {
		select {
		case t.c <- now:
		default:
		}
	}
	return len(active)
}

// ActiveTickers returns the number of tickers created and not yet stopped.
func (m *ManualClock) ActiveTickers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tickers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (t *manualTicker) C() <-chan time.Time {
	return t.c
}

func (t *manualTicker) Stop() {
	t.clock.mu.Lock()
	t.stopped = true
	t.clock.mu.Unlock()
}
