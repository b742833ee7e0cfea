// ABOUTME: Playback session engine
// ABOUTME: Owns the single active target, progress loops and seek handling
package playback

import (
	"fmt"
	"sync"
	"time"

	"github.com/Voxnote-Project/voxnote-go/internal/frame"
	"github.com/Voxnote-Project/voxnote-go/pkg/audio"
	"github.com/Voxnote-Project/voxnote-go/pkg/audio/output"
	"github.com/rs/zerolog"
)

// Track identifies which progress track an interaction came from
type Track int

const (
	TrackPrimary Track = iota
	TrackSticky
)

const (
	// chunkFrames is how many frames each feeder write carries;
	// small enough that the position trigger fires frequently
	chunkFrames = 4096

	// pausedPoll is how often an idle feeder re-checks for resume
	pausedPoll = 20 * time.Millisecond
)

// SurfaceSet is the UI collaborator. Calls carry the target id so the
// implementation can ignore updates routed to elements bound to a
// different (stale) id. Implementations must not call back into the
// session.
type SurfaceSet interface {
	// SetIcon flips a note's play/pause icon
	SetIcon(id string, playing bool)

	// SetProgress updates the primary fill and elapsed label
	SetProgress(id string, d Display)

	// ResetProgress returns a note's progress display to zero
	ResetProgress(id string)

	// OpenSticky shows the secondary surface bound to id
	OpenSticky(id string)

	// CloseSticky hides the secondary surface
	CloseSticky()

	// SetStickyProgress updates the secondary fill and labels
	SetStickyProgress(d Display)

	// Compact reports whether the presentation is in compact mode
	Compact() bool
}

// Session owns at most one active playback target. The audio output
// is a process-wide singleton; callers silence playback before
// starting a capture via StopAll.
type Session struct {
	out      output.Output
	surfaces SurfaceSet
	log      zerolog.Logger

	loop *frame.Loop

	mu         sync.Mutex
	activeID   string
	clip       *audio.Clip
	duration   float64 // chosen once per target, never changes mid-session
	cursor     int     // frames played
	playing    bool
	paused     bool
	gen        uint64
	stickyOpen bool

	dragging  bool
	dragTrack Track
}

// NewSession creates a playback session over the given output and
// surfaces. The scheduler drives the per-frame progress loop.
func NewSession(out output.Output, surfaces SurfaceSet, sched frame.Scheduler, log zerolog.Logger) *Session {
	s := &Session{
		out:      out,
		surfaces: surfaces,
		log:      log,
	}
	s.loop = frame.NewLoop(sched, s.frameTick)
	return s
}

// ActiveID returns the id of the current target, or ""
func (s *Session) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Playing reports whether the active target is audibly advancing
func (s *Session) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing && !s.paused
}

// CurrentTime returns the playback position in seconds
func (s *Session) CurrentTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTimeLocked()
}

func (s *Session) currentTimeLocked() float64 {
	if s.clip == nil || s.clip.Format.SampleRate <= 0 {
		return 0
	}
	return float64(s.cursor) / float64(s.clip.Format.SampleRate)
}

func (s *Session) resolvedDurationLocked() float64 {
	return ResolveDuration(s.duration, s.clip.Duration())
}

// Play starts, toggles or switches playback. Starting a new id fully
// stops the previous target first; only one clip is ever audible.
// Calling with the active id toggles pause/resume.
func (s *Session) Play(id string, clip *audio.Clip, knownDuration float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID != "" && s.activeID != id {
		s.stopTargetLocked()
	}

	if s.activeID == id {
		if !s.paused {
			s.pauseLocked()
		} else {
			s.resumeLocked()
		}
		return nil
	}

	return s.startLocked(id, clip, knownDuration)
}

// pauseLocked freezes the active target in place
func (s *Session) pauseLocked() {
	s.paused = true
	s.out.Pause()
	s.surfaces.SetIcon(s.activeID, false)
	s.closeStickyLocked()
	s.loop.Stop()
	s.log.Debug().Str("id", s.activeID).Msg("playback paused")
}

// resumeLocked continues a paused target
func (s *Session) resumeLocked() {
	s.paused = false
	s.out.Resume()
	s.surfaces.SetIcon(s.activeID, true)
	s.openStickyLocked()
	s.loop.Start()
	s.renderLocked()
	s.log.Debug().Str("id", s.activeID).Msg("playback resumed")
}

// startLocked adopts a new target. The previous decoded handle (if
// any) was already discarded by stopTargetLocked.
func (s *Session) startLocked(id string, clip *audio.Clip, knownDuration float64) error {
	if clip == nil || len(clip.Samples) == 0 {
		return fmt.Errorf("no decoded audio for %s", id)
	}

	if err := s.out.Open(clip.Format.SampleRate, clip.Format.Channels); err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}

	s.gen++
	s.activeID = id
	s.clip = clip
	s.cursor = 0
	s.playing = true
	s.paused = false

	// Stored metadata is authoritative; the decoded handle's own
	// duration backfills only when no stored value exists
	s.duration = 0
	if knownDuration > 0 {
		s.duration = knownDuration
	} else if d := clip.Duration(); d > 0 {
		s.duration = d
	}

	s.out.Resume()
	go s.feed(s.gen)

	s.surfaces.SetIcon(id, true)
	// Immediate first render; the user must not wait for the first
	// position event to see progress start
	s.renderLocked()
	s.openStickyLocked()
	s.loop.Start()

	s.log.Info().Str("id", id).Float64("duration", s.duration).Msg("playback started")
	return nil
}

// stopTargetLocked fully stops the current target and resets its
// visual state, releasing the decoded handle.
func (s *Session) stopTargetLocked() {
	id := s.activeID
	if id == "" {
		return
	}

	s.gen++ // kills the feeder
	s.out.Pause()
	s.playing = false
	s.paused = false
	s.activeID = ""
	s.clip = nil
	s.cursor = 0
	s.duration = 0
	s.dragging = false

	s.surfaces.SetIcon(id, false)
	s.surfaces.ResetProgress(id)
	s.closeStickyLocked()
	s.loop.Stop()

	s.log.Debug().Str("id", id).Msg("playback target stopped")
}

// Stop fully stops playback of id if it is the active target. Used
// when a note is deleted out from under the session.
func (s *Session) Stop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID == id {
		s.stopTargetLocked()
	}
}

// StopAll silences playback immediately. Called before a capture
// session starts so recording and playback are never audible at once.
func (s *Session) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.out.Pause()

	if s.activeID != "" {
		s.surfaces.SetIcon(s.activeID, false)
		s.paused = true
	}
	s.closeStickyLocked()
	s.loop.Stop()
}

// feed pushes PCM chunks to the output for one target generation.
// Writes block on the device, which paces delivery; each completed
// write is the native position trigger.
func (s *Session) feed(gen uint64) {
	for {
		s.mu.Lock()
		if s.gen != gen || !s.playing {
			s.mu.Unlock()
			return
		}
		// A drag owns the cursor; writing from it mid-drag would
		// repeat the same chunk until release
		if s.paused || s.dragging {
			s.mu.Unlock()
			time.Sleep(pausedPoll)
			continue
		}

		clip := s.clip
		channels := clip.Format.Channels
		if channels <= 0 {
			channels = 1
		}
		frames := clip.Frames()
		start := s.cursor
		if start >= frames {
			s.finishLocked(gen)
			s.mu.Unlock()
			return
		}
		end := start + chunkFrames
		if end > frames {
			end = frames
		}
		chunk := clip.Samples[start*channels : end*channels]
		s.mu.Unlock()

		if err := s.out.Write(chunk); err != nil {
			s.log.Warn().Err(err).Msg("playback write failed")
			s.mu.Lock()
			s.finishLocked(gen)
			s.mu.Unlock()
			return
		}

		s.advance(gen, end)
	}
}

// advance moves the cursor after a completed write and re-renders.
// This is the coarse-grained native trigger; the frame loop provides
// the smooth one. Both go through the same computation.
func (s *Session) advance(gen uint64, end int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen || !s.playing {
		return
	}
	// A seek that raced ahead of this write wins
	if s.dragging {
		return
	}
	s.cursor = end
	s.renderLocked()
}

// finishLocked resets the target, at natural end-of-clip or when the
// output dies under the feeder
func (s *Session) finishLocked(gen uint64) {
	if s.gen != gen {
		return
	}

	id := s.activeID
	s.playing = false
	s.paused = false
	s.activeID = ""
	s.clip = nil
	s.cursor = 0
	s.duration = 0

	s.surfaces.SetIcon(id, false)
	s.closeStickyLocked()
	s.loop.Stop()

	s.log.Debug().Str("id", id).Msg("playback ended")
}

// frameTick re-renders once per display frame while playback is
// actively advancing; it self-terminates otherwise.
func (s *Session) frameTick(time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playing || s.paused {
		return false
	}
	s.renderLocked()
	return true
}

// renderLocked routes one display state to every bound surface
func (s *Session) renderLocked() {
	if s.activeID == "" {
		return
	}

	d := Compute(s.currentTimeLocked(), s.resolvedDurationLocked())
	s.surfaces.SetProgress(s.activeID, d)
	if s.stickyOpen {
		s.surfaces.SetStickyProgress(d)
	}
}

func (s *Session) openStickyLocked() {
	if !s.surfaces.Compact() {
		return
	}
	s.surfaces.OpenSticky(s.activeID)
	s.stickyOpen = true
}

func (s *Session) closeStickyLocked() {
	if !s.stickyOpen {
		return
	}
	s.surfaces.CloseSticky()
	s.stickyOpen = false
}

// SeekClick performs a single seek to the clicked fraction of a track
func (s *Session) SeekClick(track Track, fraction float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seekLocked(fraction)
}

// DragStart begins a drag on a progress track
func (s *Session) DragStart(track Track, fraction float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID == "" {
		return
	}
	s.dragging = true
	s.dragTrack = track
	s.seekLocked(fraction)
}

// DragMove continuously recomputes the position while dragging
func (s *Session) DragMove(fraction float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dragging {
		return
	}
	s.seekLocked(fraction)
}

// DragEnd finishes a drag
func (s *Session) DragEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dragging = false
}

// Dragging reports whether a drag is in progress
func (s *Session) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragging
}

// seekLocked assigns the playback position from a track fraction
func (s *Session) seekLocked(fraction float64) {
	if s.activeID == "" || s.clip == nil {
		return
	}

	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	target := fraction * s.resolvedDurationLocked()
	cursor := int(target * float64(s.clip.Format.SampleRate))
	if frames := s.clip.Frames(); cursor > frames {
		cursor = frames
	}
	s.cursor = cursor
	s.renderLocked()
}
