// ABOUTME: Bubbletea model for the recorder TUI
// ABOUTME: Notes list, record view, progress bars and the sticky player
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Voxnote-Project/voxnote-go/internal/capture"
	"github.com/Voxnote-Project/voxnote-go/internal/playback"
	"github.com/Voxnote-Project/voxnote-go/internal/store"
	tea "github.com/charmbracelet/bubbletea"
)

// Controller is what the key and mouse handlers drive. Implemented by
// the app orchestrator; every method is safe to call off the program
// goroutine.
type Controller interface {
	StartRecording() error
	PauseRecording() bool
	ResumeRecording() bool
	StopRecording() (store.Record, error)
	CancelRecording()

	PlayNote(id string) error
	SeekClick(track playback.Track, fraction float64)
	DragStart(track playback.Track, fraction float64)
	DragMove(fraction float64)
	DragEnd()

	Notes(query string) []store.Record
	DeleteNote(id string) bool
}

// Layout constants; the mouse handler maps cells back through these
const (
	notesTop   = 3 // header box height
	waveHeight = 7
	titleWidth = 18
	barWidth   = 16

	stickyTitleWidth = 12
	stickyBarWidth   = 14
)

func barStart() int       { return 2 + 1 + 1 + titleWidth + 2 }
func stickyBarStart() int { return 1 + 1 + stickyTitleWidth + 2 }

// Model represents the TUI state
type Model struct {
	ctrl     Controller
	canvas   *WaveCanvas
	surfaces *Surfaces

	// Dimensions
	width  int
	height int

	// Notes
	notes     []store.Record
	cursor    int
	offset    int
	query     string
	searching bool

	// Capture
	captureState capture.State
	recordStart  time.Time

	// Playback
	activeID       string
	icons          map[string]bool
	progress       map[string]playback.Display
	stickyOpen     bool
	stickyID       string
	stickyProgress playback.Display

	// Seeking
	dragging  bool
	dragTrack playback.Track

	// Transient status line
	status    string
	statusErr bool
}

// internal command results
type recordStartedMsg struct{ at time.Time }
type recordStoppedMsg struct {
	rec store.Record
	err error
}
type capturePausedMsg struct{ paused bool }
type playResultMsg struct{ err error }

// NewModel creates the TUI model
func NewModel(ctrl Controller, canvas *WaveCanvas, surfaces *Surfaces) Model {
	return Model{
		ctrl:     ctrl,
		canvas:   canvas,
		surfaces: surfaces,
		icons:    make(map[string]bool),
		progress: make(map[string]playback.Display),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.refreshNotes()
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.surfaces.SetWidth(msg.Width)
		m.canvas.SetSize(msg.Width-2, waveHeight)
	case PlaybackMsg:
		m.applyPlayback(msg)
	case StickyMsg:
		m.applySticky(msg)
	case WaveFrameMsg:
		// repaint; the canvas already holds the new frame
	case NotesMsg:
		m.notes = msg.Records
		if m.cursor >= len(m.notes) {
			m.cursor = len(m.notes) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		m.clampOffset()
	case CaptureMsg:
		m.captureState = msg.State
		m.recordStart = msg.StartedAt
	case StatusMsg:
		m.status = msg.Text
		m.statusErr = msg.IsErr
	case recordStartedMsg:
		m.captureState = capture.StateRecording
		m.recordStart = msg.at
		m.status = ""
		return m, recordTick()
	case recordStoppedMsg:
		m.captureState = capture.StateIdle
		if msg.err != nil {
			m.status = msg.err.Error()
			m.statusErr = true
			return m, nil
		}
		m.status = fmt.Sprintf("Saved %s (%s)", msg.rec.Title, playback.FormatTime(float64(msg.rec.Duration)))
		m.statusErr = false
		return m, m.refreshNotes()
	case capturePausedMsg:
		if msg.paused {
			m.captureState = capture.StatePaused
		} else {
			m.captureState = capture.StateRecording
		}
	case playResultMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			m.statusErr = true
		}
	case recordTickMsg:
		if m.recording() {
			return m, recordTick()
		}
	}

	return m, nil
}

func (m Model) recording() bool {
	return m.captureState == capture.StateRecording || m.captureState == capture.StatePaused
}

func (m *Model) applyPlayback(msg PlaybackMsg) {
	if msg.Icon != nil {
		m.icons[msg.ID] = *msg.Icon
		if *msg.Icon {
			m.activeID = msg.ID
		} else if m.activeID == msg.ID && msg.Reset {
			m.activeID = ""
		}
	}
	if msg.Progress != nil {
		m.progress[msg.ID] = *msg.Progress
	}
	if msg.Reset {
		delete(m.progress, msg.ID)
		delete(m.icons, msg.ID)
		if m.activeID == msg.ID {
			m.activeID = ""
		}
	}
}

func (m *Model) applySticky(msg StickyMsg) {
	if msg.Open != nil {
		m.stickyOpen = *msg.Open
		if *msg.Open {
			m.stickyID = msg.ID
		} else {
			m.stickyID = ""
		}
	}
	if msg.Progress != nil {
		m.stickyProgress = *msg.Progress
	}
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		m.clampOffset()
	case "down", "j":
		if m.cursor < len(m.notes)-1 {
			m.cursor++
		}
		m.clampOffset()

	case "enter", " ":
		if m.recording() {
			break
		}
		if m.cursor < len(m.notes) {
			id := m.notes[m.cursor].ID
			ctrl := m.ctrl
			return m, func() tea.Msg { return playResultMsg{err: ctrl.PlayNote(id)} }
		}

	case "r":
		ctrl := m.ctrl
		if m.recording() {
			return m, func() tea.Msg {
				rec, err := ctrl.StopRecording()
				return recordStoppedMsg{rec: rec, err: err}
			}
		}
		return m, func() tea.Msg {
			if err := ctrl.StartRecording(); err != nil {
				return StatusMsg{Text: err.Error(), IsErr: true}
			}
			return recordStartedMsg{at: time.Now()}
		}

	case "p":
		ctrl := m.ctrl
		switch m.captureState {
		case capture.StateRecording:
			return m, func() tea.Msg {
				if ctrl.PauseRecording() {
					return capturePausedMsg{paused: true}
				}
				return nil
			}
		case capture.StatePaused:
			return m, func() tea.Msg {
				if ctrl.ResumeRecording() {
					return capturePausedMsg{paused: false}
				}
				return nil
			}
		}

	case "esc":
		if m.recording() {
			ctrl := m.ctrl
			return m, func() tea.Msg {
				ctrl.CancelRecording()
				return CaptureMsg{State: capture.StateIdle}
			}
		}

	case "d":
		if m.recording() {
			break
		}
		if m.cursor < len(m.notes) {
			id := m.notes[m.cursor].ID
			ctrl := m.ctrl
			query := m.query
			return m, func() tea.Msg {
				ctrl.DeleteNote(id)
				return NotesMsg{Records: ctrl.Notes(query)}
			}
		}

	case "/":
		m.searching = true

	case "left", "right":
		if m.activeID == "" {
			break
		}
		frac := m.progress[m.activeID].Fraction
		if msg.String() == "left" {
			frac -= 0.05
		} else {
			frac += 0.05
		}
		m.ctrl.SeekClick(playback.TrackPrimary, frac)
	}

	return m, nil
}

// handleSearchKey edits the filter query
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searching = false
		if msg.String() == "esc" {
			m.query = ""
			return m, m.refreshNotes()
		}
	case "backspace":
		if len(m.query) > 0 {
			m.query = m.query[:len(m.query)-1]
			return m, m.refreshNotes()
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.query += string(msg.Runes)
			return m, m.refreshNotes()
		}
	}
	return m, nil
}

// handleMouse maps clicks and drags on progress tracks to seeks
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if track, frac, ok := m.trackAt(msg.X, msg.Y); ok {
			m.dragging = true
			m.dragTrack = track
			m.ctrl.DragStart(track, frac)
			return m, nil
		}
		// clicking a note row selects it
		if idx, ok := m.noteRowAt(msg.Y); ok {
			m.cursor = idx
		}

	case tea.MouseActionMotion:
		if m.dragging {
			m.ctrl.DragMove(m.fractionOn(m.dragTrack, msg.X))
		}

	case tea.MouseActionRelease:
		if m.dragging {
			m.dragging = false
			m.ctrl.DragEnd()
		}
	}

	return m, nil
}

// trackAt resolves a cell position to a seekable progress track
func (m Model) trackAt(x, y int) (playback.Track, float64, bool) {
	if m.stickyOpen && y == m.height-1 {
		start := stickyBarStart()
		if x >= start && x < start+stickyBarWidth {
			return playback.TrackSticky, m.fractionOn(playback.TrackSticky, x), true
		}
	}

	if m.compact() || m.recording() {
		return 0, 0, false
	}
	idx, ok := m.noteRowAt(y)
	if !ok || m.notes[idx].ID != m.activeID {
		return 0, 0, false
	}
	start := barStart()
	if x >= start && x < start+barWidth {
		return playback.TrackPrimary, m.fractionOn(playback.TrackPrimary, x), true
	}
	return 0, 0, false
}

func (m Model) noteRowAt(y int) (int, bool) {
	if m.recording() {
		return 0, false
	}
	idx := y - notesTop + m.offset
	if idx < 0 || idx >= len(m.notes) {
		return 0, false
	}
	return idx, true
}

func (m Model) fractionOn(track playback.Track, x int) float64 {
	start, width := barStart(), barWidth
	if track == playback.TrackSticky {
		start, width = stickyBarStart(), stickyBarWidth
	}
	frac := float64(x-start) / float64(width-1)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return frac
}

func (m Model) compact() bool {
	return m.surfaces.Compact()
}

func (m Model) refreshNotes() tea.Cmd {
	ctrl := m.ctrl
	query := m.query
	return func() tea.Msg {
		return NotesMsg{Records: ctrl.Notes(query)}
	}
}

func recordTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return recordTickMsg(t)
	})
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())

	if m.recording() {
		b.WriteString(m.renderRecordView())
	} else {
		b.WriteString(m.renderNotes())
	}

	b.WriteString(m.renderHelp())
	if m.stickyOpen {
		b.WriteString(m.renderSticky())
	}

	return b.String()
}

func (m Model) renderHeader() string {
	inner := m.width - 2
	if inner < 10 {
		inner = 10
	}

	status := fmt.Sprintf("%d notes", len(m.notes))
	switch {
	case m.searching || m.query != "":
		status = "/" + m.query
	case m.captureState == capture.StateRecording:
		status = "● REC " + playback.FormatTime(time.Since(m.recordStart).Seconds())
	case m.captureState == capture.StatePaused:
		status = "‖ PAUSED " + playback.FormatTime(time.Since(m.recordStart).Seconds())
	case m.status != "":
		status = m.status
		if m.statusErr {
			status = "✗ " + status
		}
	}

	title := " Voxnote "
	top := "┌─" + title + strings.Repeat("─", max(0, inner-len([]rune(title))-1)) + "┐\n"
	mid := fmt.Sprintf("│ %-*s │\n", max(0, inner-2), truncate(status, max(0, inner-2)))
	bottom := "└" + strings.Repeat("─", inner) + "┘\n"
	return top + mid + bottom
}

func (m Model) renderRecordView() string {
	var b strings.Builder
	for _, row := range m.canvas.Rows() {
		b.WriteString(" ")
		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderNotes() string {
	if len(m.notes) == 0 {
		return "\n  No recordings yet. Press r to record.\n\n"
	}

	visible := m.visibleRows()

	var b strings.Builder
	for i := m.offset; i < len(m.notes) && i < m.offset+visible; i++ {
		b.WriteString(m.renderNoteRow(i))
	}
	return b.String()
}

func (m Model) visibleRows() int {
	visible := m.height - notesTop - 2 // help + possible sticky
	if visible < 1 {
		visible = 1
	}
	return visible
}

// clampOffset keeps the cursor on screen
func (m *Model) clampOffset() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m Model) renderNoteRow(i int) string {
	rec := m.notes[i]

	prefix := "  "
	if i == m.cursor {
		prefix = "> "
	}

	icon := "▶"
	if m.icons[rec.ID] {
		icon = "⏸"
	}

	title := truncate(rec.Title, titleWidth)
	total := playback.FormatTime(float64(rec.Duration))

	if m.compact() {
		return fmt.Sprintf("%s%s %-*s %s\n", prefix, icon, titleWidth, title, total)
	}

	d, ok := m.progress[rec.ID]
	elapsed := "0:00"
	frac := 0.0
	if ok {
		elapsed = playback.FormatTime(d.Elapsed)
		frac = d.Fraction
		total = playback.FormatTime(d.Duration)
	}

	return fmt.Sprintf("%s%s %-*s [%s] %s/%s\n",
		prefix, icon, titleWidth, title, renderBar(frac, barWidth), elapsed, total)
}

func (m Model) renderSticky() string {
	title := ""
	for _, rec := range m.notes {
		if rec.ID == m.stickyID {
			title = rec.Title
			break
		}
	}

	icon := "⏸"
	if !m.icons[m.stickyID] {
		icon = "▶"
	}

	d := m.stickyProgress
	return fmt.Sprintf("%s %-*s [%s] %s/%s",
		icon, stickyTitleWidth, truncate(title, stickyTitleWidth),
		renderBar(d.Fraction, stickyBarWidth),
		playback.FormatTime(d.Elapsed), playback.FormatTime(d.Duration))
}

func (m Model) renderHelp() string {
	if m.recording() {
		return "\n  r:Stop&Save  p:Pause/Resume  esc:Discard\n"
	}
	return "\n  r:Record  enter:Play/Pause  d:Delete  /:Search  q:Quit\n"
}

// Utility functions
func renderBar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction * float64(width))
	var b strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			b.WriteString("█")
		} else {
			b.WriteString("░")
		}
	}
	return b.String()
}

func truncate(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	if length <= 3 {
		return string(r[:length])
	}
	return string(r[:length-3]) + "..."
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
