package domain

import (
	"math/rand"
	"time"
)

// Tuning holds the queue throttling knobs. They are product choices, so they
// come from configuration rather than being fixed here.
type Tuning struct {
	// ExpiryWindow is how long an unfilled queue stays open.
	ExpiryWindow time.Duration
	// TimeUnit scales the join bonuses below.
	TimeUnit time.Duration
	// NearFullBonus is added when a first-time joiner brings the roster to MaxToStart-2.
	NearFullBonus int
	// HalfwayBonus is added when a first-time joiner brings the roster to MaxToStart/2-1.
	HalfwayBonus int
	// RepingCooldown is the minimum gap between two pings.
	RepingCooldown time.Duration
}

// DefaultTuning returns the values the service ships with.
func DefaultTuning() Tuning {
	return Tuning{
		ExpiryWindow:   60 * time.Minute,
		TimeUnit:       time.Minute,
		NearFullBonus:  10,
		HalfwayBonus:   5,
		RepingCooldown: 10 * time.Minute,
	}
}

// Clock is the time source used for every deadline comparison.
type Clock interface {
	Now() time.Time
}

// Rand is the random source used for captain picks and team shuffles.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock {
	return systemClock{}
}

// NewRand returns a Rand seeded from the current time.
func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
