package clock

import (
	"time"

	"github.com/trebuchet-org/treasury-cli/internal/usecase"
)

// System reads the wall clock in UTC
type System struct{}

// NewSystem creates the wall clock
func NewSystem() *System {
	return &System{}
}

// Now implements usecase.Clock
func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a settable clock for tests and dry runs
type Fixed struct {
	T time.Time
}

// Now implements usecase.Clock
func (f *Fixed) Now() time.Time {
	return f.T
}

// Advance moves the clock forward
func (f *Fixed) Advance(d time.Duration) {
	f.T = f.T.Add(d)
}

var (
	_ usecase.Clock = System{}
	_ usecase.Clock = (*Fixed)(nil)
)
