// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for audio playback backends
package output

// Output represents an audio output device. The process owns exactly
// one active output; callers coordinate exclusivity above this layer.
type Output interface {
	// Open initializes the output device
	Open(sampleRate, channels int) error

	// Write outputs audio samples (blocks until written)
	Write(samples []int32) error

	// Pause suspends consumption without releasing the device
	Pause()

	// Resume restarts consumption after a Pause
	Resume()

	// Close releases output resources
	Close() error
}
