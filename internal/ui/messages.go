// ABOUTME: Message types flowing into the TUI model
// ABOUTME: Engine collaborators post these instead of touching the model
package ui

import (
	"time"

	"github.com/Voxnote-Project/voxnote-go/internal/capture"
	"github.com/Voxnote-Project/voxnote-go/internal/playback"
	"github.com/Voxnote-Project/voxnote-go/internal/store"
)

// PlaybackMsg updates one note's play icon or progress display
type PlaybackMsg struct {
	ID       string
	Icon     *bool
	Progress *playback.Display
	Reset    bool
}

// StickyMsg controls the sticky mini player
type StickyMsg struct {
	Open     *bool
	ID       string
	Progress *playback.Display
}

// WaveFrameMsg signals that the waveform canvas published a frame
type WaveFrameMsg struct{}

// NotesMsg replaces the notes list
type NotesMsg struct {
	Records []store.Record
}

// CaptureMsg updates the recording state shown in the header
type CaptureMsg struct {
	State     capture.State
	StartedAt time.Time
}

// StatusMsg shows a transient status or error line
type StatusMsg struct {
	Text  string
	IsErr bool
}

// recordTickMsg drives the elapsed label while recording
type recordTickMsg time.Time
