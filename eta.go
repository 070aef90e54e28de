package jobdispatch

import (
	"math"
	"time"
)

// ETAFormatter renders an estimate of the remaining time from the time
// elapsed so far and the completed fraction in [0, 1]. It must be pure.
type ETAFormatter func(elapsed time.Duration, fraction float64) string

// FormatETA extrapolates linearly from the observed rate and rounds to the
// second. It returns "unknown" before the first completion.
func FormatETA(elapsed time.Duration, fraction float64) string {
	switch {
	case fraction <= 0 || math.IsNaN(fraction):
		return "unknown"
	case fraction >= 1:
		return "0s"
	}
	remaining := time.Duration(float64(elapsed) * (1 - fraction) / fraction)
	return remaining.Round(time.Second).String()
}
