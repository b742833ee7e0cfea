// ABOUTME: Tests for the TUI model
// ABOUTME: Tests message application, key handling and mouse seeking
package ui

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Voxnote-Project/voxnote-go/internal/capture"
	"github.com/Voxnote-Project/voxnote-go/internal/playback"
	"github.com/Voxnote-Project/voxnote-go/internal/store"
	tea "github.com/charmbracelet/bubbletea"
)

type seekCall struct {
	track playback.Track
	frac  float64
}

type fakeCtrl struct {
	mu         sync.Mutex
	startErr   error
	stopRec    store.Record
	stopErr    error
	startCalls int
	stopCalls  int
	cancels    int
	pauses     int
	resumes    int
	played     []string
	deleted    []string
	lastQuery  string
	notes      []store.Record
	seeks      []seekCall
	dragStarts []seekCall
	dragMoves  []float64
	dragEnds   int
}

func (f *fakeCtrl) StartRecording() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startCalls++
	return f.startErr
}

func (f *fakeCtrl) StopRecording() (store.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalls++
	return f.stopRec, f.stopErr
}

func (f *fakeCtrl) PauseRecording() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pauses++
	return true
}

func (f *fakeCtrl) ResumeRecording() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumes++
	return true
}

func (f *fakeCtrl) CancelRecording() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancels++
}

func (f *fakeCtrl) PlayNote(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.played = append(f.played, id)
	return nil
}

func (f *fakeCtrl) SeekClick(track playback.Track, frac float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seeks = append(f.seeks, seekCall{track, frac})
}

func (f *fakeCtrl) DragStart(track playback.Track, frac float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dragStarts = append(f.dragStarts, seekCall{track, frac})
}

func (f *fakeCtrl) DragMove(frac float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dragMoves = append(f.dragMoves, frac)
}

func (f *fakeCtrl) DragEnd() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dragEnds++
}

func (f *fakeCtrl) Notes(query string) []store.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = query
	return f.notes
}

func (f *fakeCtrl) DeleteNote(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return true
}

func newTestModel(compactWidth int) (Model, *fakeCtrl, *Surfaces) {
	ctrl := &fakeCtrl{}
	surfaces := NewSurfaces(compactWidth)
	canvas := NewWaveCanvas(40, waveHeight)
	return NewModel(ctrl, canvas, surfaces), ctrl, surfaces
}

func apply(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

func testNotes() []store.Record {
	return []store.Record{
		{ID: "n1", Title: "first note", Duration: 40},
		{ID: "n2", Title: "second note", Duration: 10},
	}
}

func TestWindowSizeDrivesCompactMode(t *testing.T) {
	m, _, surfaces := newTestModel(60)

	m, _ = apply(t, m, tea.WindowSizeMsg{Width: 50, Height: 20})
	if !surfaces.Compact() {
		t.Error("expected compact below the threshold")
	}

	m, _ = apply(t, m, tea.WindowSizeMsg{Width: 80, Height: 20})
	if surfaces.Compact() {
		t.Error("expected regular mode above the threshold")
	}
	_ = m
}

func TestPlaybackMsgTracksActiveNote(t *testing.T) {
	m, _, _ := newTestModel(60)

	playing := true
	m, _ = apply(t, m, PlaybackMsg{ID: "n1", Icon: &playing})
	if m.activeID != "n1" {
		t.Errorf("expected active n1, got %q", m.activeID)
	}
	if !m.icons["n1"] {
		t.Error("expected pause icon for n1")
	}

	m, _ = apply(t, m, PlaybackMsg{ID: "n1", Reset: true})
	if m.activeID != "" {
		t.Error("expected active cleared after reset")
	}
	if _, ok := m.progress["n1"]; ok {
		t.Error("expected progress cleared after reset")
	}
}

func TestStickyMsgOpensAndCloses(t *testing.T) {
	m, _, _ := newTestModel(60)

	open := true
	m, _ = apply(t, m, StickyMsg{Open: &open, ID: "n1"})
	if !m.stickyOpen || m.stickyID != "n1" {
		t.Error("expected sticky open for n1")
	}

	m, _ = apply(t, m, StickyMsg{Progress: &playback.Display{Fraction: 0.5, Elapsed: 20, Duration: 40}})
	if m.stickyProgress.Fraction != 0.5 {
		t.Error("expected sticky progress applied")
	}

	closed := false
	m, _ = apply(t, m, StickyMsg{Open: &closed})
	if m.stickyOpen {
		t.Error("expected sticky closed")
	}
}

func TestRecordKeyStartsCapture(t *testing.T) {
	m, ctrl, _ := newTestModel(60)

	m, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	if ctrl.startCalls != 1 {
		t.Errorf("expected one start call, got %d", ctrl.startCalls)
	}
	started, ok := msg.(recordStartedMsg)
	if !ok {
		t.Fatalf("expected recordStartedMsg, got %T", msg)
	}
	m, _ = apply(t, m, started)
	if m.captureState != capture.StateRecording {
		t.Errorf("expected recording state, got %v", m.captureState)
	}
}

func TestRecordStartFailureShowsError(t *testing.T) {
	m, ctrl, _ := newTestModel(60)
	ctrl.startErr = capture.ErrPermissionDenied

	m, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	msg := cmd()
	status, ok := msg.(StatusMsg)
	if !ok || !status.IsErr {
		t.Fatalf("expected error status, got %#v", msg)
	}
	m, _ = apply(t, m, status)
	if m.captureState != capture.StateIdle {
		t.Error("failed start must stay idle")
	}
	if !strings.Contains(m.status, "permission") {
		t.Errorf("expected permission message, got %q", m.status)
	}
}

func TestRecordKeyStopsAndSaves(t *testing.T) {
	m, ctrl, _ := newTestModel(60)
	ctrl.stopRec = store.Record{ID: "n9", Title: "new note", Duration: 7}
	m.captureState = capture.StateRecording
	m.recordStart = time.Now()

	m, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	msg := cmd()
	if ctrl.stopCalls != 1 {
		t.Errorf("expected one stop call, got %d", ctrl.stopCalls)
	}
	m, _ = apply(t, m, msg)
	if m.captureState != capture.StateIdle {
		t.Error("expected idle after stop")
	}
	if !strings.Contains(m.status, "new note") {
		t.Errorf("expected saved status, got %q", m.status)
	}
}

func TestStopFailureKeepsBufferMessage(t *testing.T) {
	m, ctrl, _ := newTestModel(60)
	ctrl.stopErr = errors.New("storage exhausted")
	m.captureState = capture.StateRecording

	m, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m, _ = apply(t, m, cmd())
	if !m.statusErr || !strings.Contains(m.status, "storage exhausted") {
		t.Errorf("expected storage error surfaced, got %q", m.status)
	}
}

func TestEscapeCancelsRecording(t *testing.T) {
	m, ctrl, _ := newTestModel(60)
	m.captureState = capture.StatePaused

	m, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = apply(t, m, cmd())
	if ctrl.cancels != 1 {
		t.Errorf("expected one cancel, got %d", ctrl.cancels)
	}
	if m.captureState != capture.StateIdle {
		t.Error("expected idle after cancel")
	}
}

func TestPauseKeyTogglesCapture(t *testing.T) {
	m, ctrl, _ := newTestModel(60)
	m.captureState = capture.StateRecording

	m, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	m, _ = apply(t, m, cmd())
	if ctrl.pauses != 1 || m.captureState != capture.StatePaused {
		t.Error("expected paused capture")
	}

	m, cmd = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	m, _ = apply(t, m, cmd())
	if ctrl.resumes != 1 || m.captureState != capture.StateRecording {
		t.Error("expected resumed capture")
	}
}

func TestEnterPlaysSelectedNote(t *testing.T) {
	m, ctrl, _ := newTestModel(60)
	m, _ = apply(t, m, NotesMsg{Records: testNotes()})
	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyDown})

	_, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a play command")
	}
	cmd()
	if len(ctrl.played) != 1 || ctrl.played[0] != "n2" {
		t.Errorf("expected n2 played, got %v", ctrl.played)
	}
}

func TestDeleteKeyRemovesSelected(t *testing.T) {
	m, ctrl, _ := newTestModel(60)
	m, _ = apply(t, m, NotesMsg{Records: testNotes()})

	_, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	cmd()
	if len(ctrl.deleted) != 1 || ctrl.deleted[0] != "n1" {
		t.Errorf("expected n1 deleted, got %v", ctrl.deleted)
	}
}

func TestSearchFiltersNotes(t *testing.T) {
	m, ctrl, _ := newTestModel(60)

	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !m.searching {
		t.Fatal("expected search mode")
	}

	m, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")})
	cmd()
	if ctrl.lastQuery != "ab" {
		t.Errorf("expected query ab, got %q", ctrl.lastQuery)
	}

	m, cmd = apply(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.searching {
		t.Error("expected search mode exited")
	}
	cmd()
	if ctrl.lastQuery != "" {
		t.Errorf("expected query cleared, got %q", ctrl.lastQuery)
	}
}

func TestKeyboardSeekUsesCurrentFraction(t *testing.T) {
	m, ctrl, _ := newTestModel(60)
	playing := true
	m, _ = apply(t, m, PlaybackMsg{ID: "n1", Icon: &playing})
	m, _ = apply(t, m, PlaybackMsg{ID: "n1", Progress: &playback.Display{Fraction: 0.5, Elapsed: 20, Duration: 40}})

	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if len(ctrl.seeks) != 1 {
		t.Fatalf("expected one seek, got %d", len(ctrl.seeks))
	}
	if ctrl.seeks[0].track != playback.TrackPrimary {
		t.Error("expected primary track")
	}
	if ctrl.seeks[0].frac < 0.54 || ctrl.seeks[0].frac > 0.56 {
		t.Errorf("expected fraction near 0.55, got %f", ctrl.seeks[0].frac)
	}
}

func TestMouseDragOnPrimaryBar(t *testing.T) {
	m, ctrl, _ := newTestModel(60)
	m, _ = apply(t, m, tea.WindowSizeMsg{Width: 80, Height: 20})
	m, _ = apply(t, m, NotesMsg{Records: testNotes()})
	playing := true
	m, _ = apply(t, m, PlaybackMsg{ID: "n1", Icon: &playing})

	// mid-bar press on the first note row
	x := barStart() + (barWidth-1)/2
	m, _ = apply(t, m, tea.MouseMsg{X: x, Y: notesTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if len(ctrl.dragStarts) != 1 {
		t.Fatalf("expected a drag start, got %d", len(ctrl.dragStarts))
	}
	if ctrl.dragStarts[0].track != playback.TrackPrimary {
		t.Error("expected primary track")
	}
	if ctrl.dragStarts[0].frac < 0.4 || ctrl.dragStarts[0].frac > 0.6 {
		t.Errorf("expected mid-bar fraction, got %f", ctrl.dragStarts[0].frac)
	}

	m, _ = apply(t, m, tea.MouseMsg{X: barStart() + barWidth - 1, Y: notesTop, Action: tea.MouseActionMotion})
	if len(ctrl.dragMoves) != 1 || ctrl.dragMoves[0] != 1 {
		t.Errorf("expected drag move to 1, got %v", ctrl.dragMoves)
	}

	m, _ = apply(t, m, tea.MouseMsg{X: x, Y: notesTop, Action: tea.MouseActionRelease})
	if ctrl.dragEnds != 1 {
		t.Errorf("expected drag end, got %d", ctrl.dragEnds)
	}
	_ = m
}

func TestMouseDragOnStickyBar(t *testing.T) {
	m, ctrl, _ := newTestModel(60)
	m, _ = apply(t, m, tea.WindowSizeMsg{Width: 50, Height: 20})
	open := true
	m, _ = apply(t, m, StickyMsg{Open: &open, ID: "n1"})

	m, _ = apply(t, m, tea.MouseMsg{X: stickyBarStart(), Y: 19, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if len(ctrl.dragStarts) != 1 {
		t.Fatalf("expected a drag start, got %d", len(ctrl.dragStarts))
	}
	if ctrl.dragStarts[0].track != playback.TrackSticky {
		t.Error("expected sticky track")
	}
	if ctrl.dragStarts[0].frac != 0 {
		t.Errorf("expected fraction 0 at bar start, got %f", ctrl.dragStarts[0].frac)
	}
}

func TestMouseIgnoresInactiveNoteBar(t *testing.T) {
	m, ctrl, _ := newTestModel(60)
	m, _ = apply(t, m, tea.WindowSizeMsg{Width: 80, Height: 20})
	m, _ = apply(t, m, NotesMsg{Records: testNotes()})

	m, _ = apply(t, m, tea.MouseMsg{X: barStart() + 2, Y: notesTop + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if len(ctrl.dragStarts) != 0 {
		t.Error("expected no drag on an inactive note's bar")
	}
	if m.cursor != 1 {
		t.Errorf("expected row click to select note, got cursor %d", m.cursor)
	}
}

func TestViewListsNotes(t *testing.T) {
	m, _, _ := newTestModel(60)
	m, _ = apply(t, m, tea.WindowSizeMsg{Width: 80, Height: 20})
	m, _ = apply(t, m, NotesMsg{Records: testNotes()})

	view := m.View()
	if !strings.Contains(view, "first note") || !strings.Contains(view, "second note") {
		t.Error("expected note titles in the view")
	}
	if !strings.Contains(view, "0:40") {
		t.Error("expected formatted durations in the view")
	}
}

func TestViewShowsStickyPlayer(t *testing.T) {
	m, _, _ := newTestModel(60)
	m, _ = apply(t, m, tea.WindowSizeMsg{Width: 50, Height: 20})
	m, _ = apply(t, m, NotesMsg{Records: testNotes()})
	open := true
	m, _ = apply(t, m, StickyMsg{Open: &open, ID: "n1"})
	m, _ = apply(t, m, StickyMsg{Progress: &playback.Display{Fraction: 0.5, Elapsed: 20, Duration: 40}})

	view := m.View()
	if !strings.Contains(view, "0:20/0:40") {
		t.Error("expected sticky elapsed/duration labels")
	}
}

func TestViewRecordingShowsWaveAndElapsed(t *testing.T) {
	m, _, _ := newTestModel(60)
	m, _ = apply(t, m, tea.WindowSizeMsg{Width: 80, Height: 20})
	m.captureState = capture.StateRecording
	m.recordStart = time.Now().Add(-65 * time.Second)

	view := m.View()
	if !strings.Contains(view, "REC") {
		t.Error("expected recording indicator")
	}
	if !strings.Contains(view, "1:05") {
		t.Errorf("expected elapsed 1:05 in view:\n%s", view)
	}
}
