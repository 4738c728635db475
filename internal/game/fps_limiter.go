package game

import (
	"time"
)

// pausedFPS caps the frame rate while the game is paused.
const pausedFPS = 30

// FPSLimiter provides high-precision frame rate limiting
type FPSLimiter struct {
	limit int
	next  time.Time
}

// NewFPSLimiter creates a limiter for maxFPS frames per second; 0 or less
// disables it.
func NewFPSLimiter(maxFPS int) *FPSLimiter {
	return &FPSLimiter{limit: maxFPS}
}

// Limit returns the effective frame cap.
func (f *FPSLimiter) Limit(paused bool) int {
	if paused && (f.limit <= 0 || f.limit > pausedFPS) {
		return pausedFPS
	}
	return f.limit
}

// Wait blocks until the next frame should be rendered based on the FPS limit.
// Uses a hybrid sleep/spin approach for better precision on high FPS caps.
func (f *FPSLimiter) Wait(paused bool) {
	effectiveLimit := f.Limit(paused)
	if effectiveLimit <= 0 {
		f.next = time.Time{}
		return
	}

	target := time.Second / time.Duration(effectiveLimit)

	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
	}

	// Resync after a hitch instead of rushing to catch up
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}
