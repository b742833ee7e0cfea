// ABOUTME: Application orchestrator wiring capture, waveform, playback and storage
// ABOUTME: Enforces the capture/playback exclusivity invariant
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Voxnote-Project/voxnote-go/internal/capture"
	"github.com/Voxnote-Project/voxnote-go/internal/config"
	"github.com/Voxnote-Project/voxnote-go/internal/frame"
	"github.com/Voxnote-Project/voxnote-go/internal/playback"
	"github.com/Voxnote-Project/voxnote-go/internal/store"
	"github.com/Voxnote-Project/voxnote-go/internal/ui"
	"github.com/Voxnote-Project/voxnote-go/internal/waveform"
	"github.com/Voxnote-Project/voxnote-go/pkg/audio"
	"github.com/Voxnote-Project/voxnote-go/pkg/audio/output"
	"github.com/rs/zerolog"
)

const startTimeout = 10 * time.Second

// player is the slice of the playback session the app drives
type player interface {
	ActiveID() string
	Playing() bool
	Play(id string, clip *audio.Clip, knownDuration float64) error
	Stop(id string)
	StopAll()
	SeekClick(track playback.Track, fraction float64)
	DragStart(track playback.Track, fraction float64)
	DragMove(fraction float64)
	DragEnd()
}

// App wires the engine components together and implements
// ui.Controller. The microphone and the audio output are both
// process-wide singletons; App is the layer that makes sure only one
// of capture and playback is audible at a time.
type App struct {
	cfg *config.Config
	log zerolog.Logger

	store      *store.Store
	controller *capture.Controller
	renderer   *waveform.Renderer
	session    player
	out        output.Output

	surfaces *ui.Surfaces
	canvas   *ui.WaveCanvas
}

// New builds the production app over the real microphone and output
func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	source := capture.NewPortAudioSource(cfg.Audio.Device, cfg.Audio.SampleRate, log)
	return newApp(cfg, log, source, output.NewOto(log))
}

// newApp shares the wiring between production and tests
func newApp(cfg *config.Config, log zerolog.Logger, source capture.Source, out output.Output) (*App, error) {
	st, err := store.New(cfg.Storage.DataDir, cfg.Storage.QuotaBytes, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open recording store: %w", err)
	}

	surfaces := ui.NewSurfaces(cfg.UI.CompactWidth)
	canvas := ui.NewWaveCanvas(78, 7)
	sched := frame.NewTickerScheduler()

	a := &App{
		cfg:        cfg,
		log:        log,
		store:      st,
		controller: capture.NewController(source, log),
		renderer:   waveform.NewRenderer(canvas, sched, log),
		session:    playback.NewSession(out, surfaces, sched, log),
		out:        out,
		surfaces:   surfaces,
		canvas:     canvas,
	}
	return a, nil
}

// Run starts the TUI and blocks until it exits
func (a *App) Run() error {
	p, err := ui.Run(a, a.canvas, a.surfaces)
	if err != nil {
		return err
	}
	defer a.Shutdown()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ui error: %w", err)
	}
	return nil
}

// Shutdown releases all hardware resources
func (a *App) Shutdown() {
	a.session.StopAll()
	a.renderer.Destroy()
	a.controller.Cleanup()
	if err := a.out.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close audio output")
	}
}

// StartRecording silences playback, starts the capture session and
// hands the live stream to the waveform renderer.
func (a *App) StartRecording() error {
	a.session.StopAll()

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()

	if err := a.controller.Start(ctx); err != nil {
		return err
	}

	// A failed analysis pipeline degrades to the idle wave; it never
	// blocks recording
	if err := a.renderer.Initialize(a.controller.Live()); err != nil {
		a.log.Warn().Err(err).Msg("waveform analysis unavailable")
	} else {
		a.renderer.Start()
	}
	return nil
}

// PauseRecording suspends the capture stream
func (a *App) PauseRecording() bool {
	return a.controller.Pause()
}

// ResumeRecording continues a paused capture
func (a *App) ResumeRecording() bool {
	return a.controller.Resume()
}

// StopRecording finalizes the capture and saves the recording. The
// hardware is released whether or not the save succeeds; a refused
// save surfaces the error and the take is lost when the next session
// starts.
func (a *App) StopRecording() (store.Record, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()

	result, err := a.controller.Stop(ctx)
	a.renderer.Stop()
	if err != nil {
		a.controller.Cleanup()
		return store.Record{}, err
	}

	rec, saveErr := a.store.Save(result.Clip, result.Duration, "")
	a.controller.Cleanup()
	if saveErr != nil {
		return store.Record{}, saveErr
	}
	return rec, nil
}

// CancelRecording discards the in-flight capture without saving
func (a *App) CancelRecording() {
	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()

	if _, err := a.controller.Stop(ctx); err != nil {
		a.log.Debug().Err(err).Msg("cancel with no live capture")
	}
	a.renderer.Stop()
	a.controller.Cleanup()
}

// PlayNote starts, toggles or switches playback of a saved note.
// Refused while a capture session is live.
func (a *App) PlayNote(id string) error {
	switch a.controller.State() {
	case capture.StateRecording, capture.StatePaused:
		return fmt.Errorf("stop recording before playing")
	}

	// Toggling the active note never reloads the audio
	if a.session.ActiveID() == id {
		if err := a.session.Play(id, nil, 0); err == nil {
			return nil
		}
		// The clip finished between the check and the toggle; fall
		// through and start it over from disk
	}

	clip, rec, err := a.store.Load(id)
	if err != nil {
		return err
	}
	return a.session.Play(id, clip, float64(rec.Duration))
}

// SeekClick forwards a single-click seek to the session
func (a *App) SeekClick(track playback.Track, fraction float64) {
	a.session.SeekClick(track, fraction)
}

// DragStart forwards the beginning of a progress drag
func (a *App) DragStart(track playback.Track, fraction float64) {
	a.session.DragStart(track, fraction)
}

// DragMove forwards a drag position change
func (a *App) DragMove(fraction float64) {
	a.session.DragMove(fraction)
}

// DragEnd forwards the end of a drag
func (a *App) DragEnd() {
	a.session.DragEnd()
}

// Notes lists saved recordings matching the query
func (a *App) Notes(query string) []store.Record {
	return a.store.List(store.Filter{Query: query})
}

// DeleteNote stops playback of id if active and removes it
func (a *App) DeleteNote(id string) bool {
	a.session.Stop(id)
	return a.store.Delete(id)
}
