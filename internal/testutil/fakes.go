package testutil

import (
	"sync"
	"time"
)

// FakeClock is a manually advanced clock
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock starts at a fixed instant so deadlines are easy to reason about
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// FirstRand always picks the first candidate and never reorders.
// With it captain picks and team deals follow join order.
type FirstRand struct{}

func (FirstRand) Intn(int) int { return 0 }

func (FirstRand) Shuffle(int, func(i, j int)) {}
