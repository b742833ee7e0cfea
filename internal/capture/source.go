// ABOUTME: Microphone source abstraction
// ABOUTME: Defines the capture hardware interface injected into the controller
package capture

import (
	"context"

	"github.com/Voxnote-Project/voxnote-go/pkg/audio"
)

// Device describes an input device
type Device struct {
	ID      string
	Name    string
	Default bool
}

// Source is the microphone abstraction. Open acquires the device,
// which is the point where the host may prompt the user; errors come
// back classified as ErrPermissionDenied or ErrDeviceUnavailable.
type Source interface {
	// Open acquires the input device and returns a live stream
	Open(ctx context.Context) (Stream, error)

	// Devices enumerates available input devices
	Devices() ([]Device, error)

	// Supported reports whether the host capture API is usable at all
	Supported() bool
}

// Stream is one acquired microphone handle. Start/Stop suspend and
// resume delivery without releasing the device; Close releases it so
// the hardware indicator turns off.
type Stream interface {
	// Start begins (or resumes) sample delivery
	Start() error

	// Stop suspends delivery without discarding the device
	Stop() error

	// Read drains the samples buffered since the last call
	Read() ([]int32, error)

	// Format reports the stream's PCM format
	Format() audio.Format

	// Close releases the device
	Close() error
}
