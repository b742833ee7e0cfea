// ABOUTME: Amplitude-reactive waveform renderer
// ABOUTME: Runs a self-rescheduling render loop over a live analyser
package waveform

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Voxnote-Project/voxnote-go/internal/frame"
	"github.com/rs/zerolog"
)

const (
	// phaseRate advances the wave with wall-clock time so motion is
	// continuous regardless of frame rate
	phaseRate = 0.005

	// columnStep controls how many wave cycles fit across the canvas
	columnStep = 0.25

	// idleAmplitude is the fixed low amplitude of the idle band
	idleAmplitude = 0.2
)

// Canvas is the drawing surface. The renderer clears and plots cells;
// the owner presents them and reports its current size.
type Canvas interface {
	// Size returns the backing resolution in cells
	Size() (w, h int)

	// Clear blanks the surface
	Clear()

	// Set marks one cell
	Set(x, y int)

	// Flush publishes the completed frame
	Flush()
}

// Renderer paints an animated waveform while a capture session is
// live and a static idle band otherwise. The animated loop is
// self-rescheduling and self-terminating; see frame.Loop for the
// cancellation discipline.
type Renderer struct {
	canvas Canvas
	sched  frame.Scheduler
	log    zerolog.Logger

	loop *frame.Loop

	mu        sync.Mutex
	analyser  *SpectrumAnalyser
	feedStop  chan struct{}
	feedDone  chan struct{}
	destroyed bool
}

// NewRenderer creates a renderer over the given canvas and scheduler
func NewRenderer(canvas Canvas, sched frame.Scheduler, log zerolog.Logger) *Renderer {
	r := &Renderer{
		canvas: canvas,
		sched:  sched,
		log:    log,
	}
	r.loop = frame.NewLoop(sched, r.renderTick)
	return r
}

// Initialize builds the analysis pipeline over a live sample feed.
// Failure leaves the renderer usable for idle drawing only.
func (r *Renderer) Initialize(feed <-chan []int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed {
		return fmt.Errorf("renderer destroyed")
	}
	if feed == nil {
		return fmt.Errorf("no live stream")
	}

	// Tear down a previous pipeline before adopting the new feed
	r.stopFeedLocked()

	r.analyser = NewSpectrumAnalyser()
	r.feedStop = make(chan struct{})
	r.feedDone = make(chan struct{})
	go r.pump(feed, r.analyser, r.feedStop, r.feedDone)

	return nil
}

// pump moves live sample blocks into the analyser until stopped
func (r *Renderer) pump(feed <-chan []int32, analyser *SpectrumAnalyser, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-stop:
			return
		case block, ok := <-feed:
			if !ok {
				return
			}
			analyser.Feed(block)
		}
	}
}

// Start begins the animated loop. No-op if already animating.
func (r *Renderer) Start() {
	r.mu.Lock()
	if r.destroyed {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	r.loop.Start()
}

// Animating reports whether the render loop is live
func (r *Renderer) Animating() bool {
	return r.loop.State() != frame.LoopStopped
}

// renderTick paints one animated frame and asks the loop to continue
func (r *Renderer) renderTick(now time.Time) bool {
	r.mu.Lock()
	analyser := r.analyser
	r.mu.Unlock()

	amplitude := 0.0
	if analyser != nil {
		amplitude = Amplitude(analyser.Energies())
	}

	phase := float64(now.UnixMilli()) * phaseRate
	r.drawWave(phase, amplitude)

	return true
}

// Stop halts the animation, cancels the pending frame and repaints
// the idle band so the surface never goes blank.
func (r *Renderer) Stop() {
	r.loop.Stop()
	r.DrawIdle()
}

// DrawIdle paints the static low-amplitude band
func (r *Renderer) DrawIdle() {
	r.drawWave(0, idleAmplitude)
}

// Resize repaints after the surface's backing resolution changed.
// The owner observes layout changes and calls this; an animated loop
// picks the new size up on its next frame by itself.
func (r *Renderer) Resize() {
	if !r.Animating() {
		r.DrawIdle()
	}
}

// Destroy stops animation and releases the analysis pipeline. Safe to
// call multiple times.
func (r *Renderer) Destroy() {
	r.loop.Stop()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.destroyed {
		return
	}
	r.destroyed = true
	r.stopFeedLocked()
	r.analyser = nil
}

func (r *Renderer) stopFeedLocked() {
	if r.feedStop != nil {
		close(r.feedStop)
		<-r.feedDone
		r.feedStop = nil
		r.feedDone = nil
	}
}

// drawWave paints one sinusoidal band across the canvas
func (r *Renderer) drawWave(phase, amplitude float64) {
	w, h := r.canvas.Size()
	if w <= 0 || h <= 0 {
		return
	}

	if amplitude > 1 {
		amplitude = 1
	}

	r.canvas.Clear()

	mid := float64(h-1) / 2
	span := mid * amplitude

	for x := 0; x < w; x++ {
		theta := float64(x)*columnStep + phase
		y := int(math.Round(mid + span*math.Sin(theta)))
		if y < 0 {
			y = 0
		}
		if y >= h {
			y = h - 1
		}
		r.canvas.Set(x, y)
	}

	r.canvas.Flush()
}
