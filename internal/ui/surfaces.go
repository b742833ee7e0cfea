// ABOUTME: SurfaceSet implementation bridging the playback session to the TUI
// ABOUTME: Translates surface calls into messages posted to the program
package ui

import (
	"sync"

	"github.com/Voxnote-Project/voxnote-go/internal/playback"
	tea "github.com/charmbracelet/bubbletea"
)

// Surfaces routes playback surface updates into the running program.
// It never calls back into the session; everything is a posted
// message applied on the program's own goroutine.
type Surfaces struct {
	mu           sync.Mutex
	send         func(tea.Msg)
	width        int
	compactWidth int
}

// NewSurfaces creates the surface router. compactWidth is the
// terminal width below which the compact presentation applies.
func NewSurfaces(compactWidth int) *Surfaces {
	return &Surfaces{compactWidth: compactWidth}
}

// Bind attaches the running program's send function. Updates before
// Bind are dropped; nothing is on screen yet to go stale.
func (s *Surfaces) Bind(send func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = send
}

// SetWidth records the current terminal width
func (s *Surfaces) SetWidth(w int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = w
}

// Compact reports whether the presentation is in compact mode
func (s *Surfaces) Compact() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width > 0 && s.width < s.compactWidth
}

func (s *Surfaces) post(msg tea.Msg) {
	s.mu.Lock()
	send := s.send
	s.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

func (s *Surfaces) SetIcon(id string, playing bool) {
	p := playing
	s.post(PlaybackMsg{ID: id, Icon: &p})
}

func (s *Surfaces) SetProgress(id string, d playback.Display) {
	s.post(PlaybackMsg{ID: id, Progress: &d})
}

func (s *Surfaces) ResetProgress(id string) {
	s.post(PlaybackMsg{ID: id, Reset: true})
}

func (s *Surfaces) OpenSticky(id string) {
	open := true
	s.post(StickyMsg{Open: &open, ID: id})
}

func (s *Surfaces) CloseSticky() {
	open := false
	s.post(StickyMsg{Open: &open})
}

func (s *Surfaces) SetStickyProgress(d playback.Display) {
	s.post(StickyMsg{Progress: &d})
}
