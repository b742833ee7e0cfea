// ABOUTME: Capture session state machine
// ABOUTME: Owns the microphone stream and the record/pause/resume/stop lifecycle
package capture

import (
	"context"
	"sync"
	"time"

	"github.com/Voxnote-Project/voxnote-go/pkg/audio"
	"github.com/rs/zerolog"
)

// State identifies where the capture session is in its lifecycle
type State int

const (
	StateIdle State = iota
	StateRequestingPermission
	StateRecording
	StatePaused
	StateStopped
)

// String returns a readable state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequestingPermission:
		return "requesting-permission"
	case StateRecording:
		return "recording"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// FlushInterval bounds how long captured samples sit in the stream
// before they land in the chunk list.
const FlushInterval = 100 * time.Millisecond

// Result is a finished capture: the assembled buffer and the
// wall-clock duration in whole seconds.
type Result struct {
	Clip     *audio.Clip
	Duration int
}

// Controller owns at most one capture session at a time. All methods
// are safe for concurrent use; state transitions happen atomically
// under one lock.
type Controller struct {
	source Source
	log    zerolog.Logger

	// now is swappable for duration tests
	now func() time.Time

	mu        sync.Mutex
	state     State
	stream    Stream
	chunks    [][]int32
	startTime time.Time
	flushStop chan struct{}
	flushDone chan struct{}

	// live feeds the waveform renderer; drop-on-full so a slow
	// consumer never stalls the flush loop
	live chan []int32
}

// NewController creates a capture controller over the given source
func NewController(source Source, log zerolog.Logger) *Controller {
	return &Controller{
		source: source,
		log:    log,
		now:    time.Now,
		state:  StateIdle,
		live:   make(chan []int32, 8),
	}
}

// State returns the current session state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Live returns the channel carrying freshly captured sample blocks,
// for amplitude analysis while recording.
func (c *Controller) Live() <-chan []int32 {
	return c.live
}

// IsSupported reports whether the host capture API is available.
// Pure probe, no side effects.
func (c *Controller) IsSupported() bool {
	return c.source.Supported()
}

// Devices enumerates available input devices
func (c *Controller) Devices() ([]Device, error) {
	return c.source.Devices()
}

// RequestPermission acquires the microphone. If a stream is already
// held it is reused rather than re-requested. On failure the state
// returns to Idle and the error is classified.
func (c *Controller) RequestPermission(ctx context.Context) error {
	c.mu.Lock()
	if c.stream != nil {
		c.mu.Unlock()
		return nil
	}
	prev := c.state
	c.state = StateRequestingPermission
	c.mu.Unlock()

	stream, err := c.source.Open(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = StateIdle
		c.log.Warn().Err(err).Msg("microphone acquisition failed")
		return err
	}

	c.stream = stream
	c.state = prev
	c.log.Info().Msg("microphone acquired")
	return nil
}

// Start begins a new capture session. Fails with ErrAlreadyRecording
// if a session is live. Acquires the microphone first if needed.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateRecording || c.state == StatePaused {
		c.mu.Unlock()
		return ErrAlreadyRecording
	}
	c.mu.Unlock()

	if err := c.RequestPermission(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-check: a concurrent Start may have won the race while the
	// permission request was in flight
	if c.state == StateRecording || c.state == StatePaused {
		return ErrAlreadyRecording
	}

	if err := c.stream.Start(); err != nil {
		c.state = StateIdle
		return classify(err)
	}

	c.chunks = nil
	c.startTime = c.now()
	c.state = StateRecording
	c.flushStop = make(chan struct{})
	c.flushDone = make(chan struct{})
	go c.flushLoop(c.flushStop, c.flushDone)

	c.log.Info().Msg("recording started")
	return nil
}

// flushLoop drains the stream on a fixed interval so chunks stay
// small and near-real-time.
func (c *Controller) flushLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.flush()
		}
	}
}

// flush appends one chunk of buffered samples. Chunks are append-only
// until Stop assembles them.
func (c *Controller) flush() {
	c.mu.Lock()
	if c.state != StateRecording || c.stream == nil {
		c.mu.Unlock()
		return
	}
	stream := c.stream
	c.mu.Unlock()

	samples, err := stream.Read()
	if err != nil {
		c.log.Debug().Err(err).Msg("stream read failed")
		return
	}
	if len(samples) == 0 {
		return
	}

	c.mu.Lock()
	if c.state == StateRecording {
		c.chunks = append(c.chunks, samples)
	}
	c.mu.Unlock()

	select {
	case c.live <- samples:
	default:
		// Renderer is behind; dropping a block is fine
	}
}

// Pause suspends capture. Legal only from Recording; otherwise a safe
// no-op returning false.
func (c *Controller) Pause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRecording {
		c.log.Debug().Str("state", c.state.String()).Msg("pause ignored")
		return false
	}

	if err := c.stream.Stop(); err != nil {
		c.log.Warn().Err(err).Msg("stream suspend failed")
		return false
	}

	c.state = StatePaused
	c.log.Info().Msg("recording paused")
	return true
}

// Resume restarts capture after a Pause. Legal only from Paused;
// otherwise a safe no-op returning false. The start timestamp is
// deliberately untouched: reported duration is wall-clock from first
// start to stop, paused spans included.
func (c *Controller) Resume() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePaused {
		c.log.Debug().Str("state", c.state.String()).Msg("resume ignored")
		return false
	}

	if err := c.stream.Start(); err != nil {
		c.log.Warn().Err(err).Msg("stream resume failed")
		return false
	}

	c.state = StateRecording
	c.log.Info().Msg("recording resumed")
	return true
}

// Stop finalizes the session and assembles the captured chunks into
// one immutable buffer. Legal from Recording or Paused.
func (c *Controller) Stop(ctx context.Context) (*Result, error) {
	c.mu.Lock()
	if c.state != StateRecording && c.state != StatePaused {
		c.mu.Unlock()
		return nil, ErrNotRecording
	}
	wasRecording := c.state == StateRecording
	flushStop := c.flushStop
	flushDone := c.flushDone
	c.flushStop = nil
	c.flushDone = nil
	c.mu.Unlock()

	// Halt the flusher before the final drain
	if flushStop != nil {
		close(flushStop)
		select {
		case <-flushDone:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Final drain of anything still buffered in the stream
	if wasRecording && c.stream != nil {
		if samples, err := c.stream.Read(); err == nil && len(samples) > 0 {
			c.chunks = append(c.chunks, samples)
		}
		if err := c.stream.Stop(); err != nil {
			c.log.Warn().Err(err).Msg("stream stop failed")
		}
	}

	total := 0
	for _, chunk := range c.chunks {
		total += len(chunk)
	}
	samples := make([]int32, 0, total)
	for _, chunk := range c.chunks {
		samples = append(samples, chunk...)
	}

	elapsed := c.now().Sub(c.startTime)
	duration := int(elapsed.Seconds())

	format := audio.Format{Codec: "pcm", SampleRate: 44100, Channels: 1, BitDepth: 16}
	if c.stream != nil {
		format = c.stream.Format()
	}

	c.state = StateStopped

	c.log.Info().Int("duration_s", duration).Int("samples", total).Msg("recording stopped")

	return &Result{
		Clip:     &audio.Clip{Format: format, Samples: samples},
		Duration: duration,
	}, nil
}

// Cleanup releases the microphone and resets to Idle. Always safe to
// call; it is the mandatory release step after Stop or a cancelled
// session because device handles are scarce.
func (c *Controller) Cleanup() {
	c.mu.Lock()
	flushStop := c.flushStop
	flushDone := c.flushDone
	c.flushStop = nil
	c.flushDone = nil
	c.mu.Unlock()

	if flushStop != nil {
		close(flushStop)
		<-flushDone
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stream != nil {
		if c.state == StateRecording {
			if err := c.stream.Stop(); err != nil {
				c.log.Debug().Err(err).Msg("stream stop during cleanup")
			}
		}
		if err := c.stream.Close(); err != nil {
			c.log.Warn().Err(err).Msg("stream close failed")
		}
		c.stream = nil
	}

	c.chunks = nil
	c.state = StateIdle
	c.log.Info().Msg("capture session cleaned up")
}
