// ABOUTME: Capture error taxonomy
// ABOUTME: Classified errors for permission, device and state misuse
package capture

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied means the user declined microphone access.
	// Terminal for the attempted session; retrying is allowed.
	ErrPermissionDenied = errors.New("microphone permission denied")

	// ErrDeviceUnavailable means no usable input device exists or the
	// driver failed below us.
	ErrDeviceUnavailable = errors.New("no usable input device")

	// ErrAlreadyRecording guards Start while a session is live
	ErrAlreadyRecording = errors.New("capture session already recording")

	// ErrNotRecording guards Stop outside Recording/Paused
	ErrNotRecording = errors.New("no capture session to stop")
)

// classify maps driver errors onto the capture taxonomy. Errors that
// already carry a classification pass through unchanged; anything
// else is a device-level failure.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrDeviceUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
}
