package jobdispatch

import (
	"time"
)

const (
	defaultCadenceInitial = 500 * time.Millisecond
	defaultCadenceMax     = 30 * time.Second
	defaultPrecision      = 1
)

// CadencePolicy describes how often Watch reports progress.
// Zero values are treated as "use defaults".
type CadencePolicy struct {
	// Initial is the delay before the first report.
	Initial time.Duration

	// Max caps the delay between reports as it grows.
	Max time.Duration

	// Precision is the number of fractional digits of the logged percentage.
	Precision int
}

// DefaultCadence returns the policy Watch uses for zero fields.
func DefaultCadence() CadencePolicy {
	return CadencePolicy{
		Initial:   defaultCadenceInitial,
		Max:       defaultCadenceMax,
		Precision: defaultPrecision,
	}
}

func (c *CadencePolicy) fillDefaults() {
	if c.Initial <= 0 {
		c.Initial = defaultCadenceInitial
	}
	if c.Max <= 0 {
		c.Max = defaultCadenceMax
	}
	if c.Max < c.Initial {
		c.Max = c.Initial
	}
	if c.Precision <= 0 {
		c.Precision = defaultPrecision
	}
}
