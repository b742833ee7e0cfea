// ABOUTME: Pure playback progress computation
// ABOUTME: One display formula shared by the native trigger and the frame loop
package playback

import (
	"fmt"
	"math"
)

// Display is the rendered progress state for one moment in time.
// Both update triggers produce their display through Compute so the
// two can never disagree.
type Display struct {
	Fraction float64 // clamped to [0, 1]
	Elapsed  float64 // seconds
	Duration float64 // resolved seconds
}

// ResolveDuration picks the duration for a playback target: stored
// metadata when positive, the decoded handle's self-reported value as
// fallback, and a floor of 1 so later divisions stay defined.
func ResolveDuration(stored, decoded float64) float64 {
	if stored > 0 && !math.IsInf(stored, 0) {
		return stored
	}
	if decoded > 0 && !math.IsInf(decoded, 0) {
		return decoded
	}
	return 1
}

// Compute derives the display state from a current position and a
// resolved duration. NaN intermediates coerce to 0; the fraction is
// clamped into [0, 1] even when the position momentarily overshoots.
func Compute(currentTime, duration float64) Display {
	if math.IsNaN(currentTime) {
		currentTime = 0
	}
	if math.IsNaN(duration) || duration <= 0 {
		duration = 1
	}

	fraction := currentTime / duration
	if math.IsNaN(fraction) {
		fraction = 0
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	elapsed := currentTime
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > duration {
		elapsed = duration
	}

	return Display{
		Fraction: fraction,
		Elapsed:  elapsed,
		Duration: duration,
	}
}

// FormatTime renders seconds as m:ss
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	whole := int(seconds)
	return fmt.Sprintf("%d:%02d", whole/60, whole%60)
}
