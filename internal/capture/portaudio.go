// ABOUTME: PortAudio-backed microphone source
// ABOUTME: Acquires the default input device and buffers captured samples
package capture

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Voxnote-Project/voxnote-go/pkg/audio"
	"github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog"
)

// PortAudioSource opens microphone streams through PortAudio
type PortAudioSource struct {
	sampleRate int
	deviceID   string
	log        zerolog.Logger

	initOnce sync.Once
	initErr  error
}

// NewPortAudioSource creates a source for the given device. An empty
// deviceID selects the system default input.
func NewPortAudioSource(deviceID string, sampleRate int, log zerolog.Logger) *PortAudioSource {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	return &PortAudioSource{
		sampleRate: sampleRate,
		deviceID:   deviceID,
		log:        log,
	}
}

func (s *PortAudioSource) init() error {
	s.initOnce.Do(func() {
		s.initErr = portaudio.Initialize()
	})
	return s.initErr
}

// Supported reports whether PortAudio can see at least one input device
func (s *PortAudioSource) Supported() bool {
	if err := s.init(); err != nil {
		return false
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return false
	}
	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			return true
		}
	}
	return false
}

// Devices enumerates input devices
func (s *PortAudioSource) Devices() ([]Device, error) {
	if err := s.init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	defaultDevice, _ := portaudio.DefaultInputDevice()

	result := make([]Device, 0, len(devices))
	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			result = append(result, Device{
				ID:      d.Name,
				Name:    d.Name,
				Default: d == defaultDevice,
			})
		}
	}

	return result, nil
}

// Open acquires the configured input device and returns a suspended
// stream. The OS permission prompt, where one exists, fires here.
func (s *PortAudioSource) Open(ctx context.Context) (Stream, error) {
	if err := s.init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	var device *portaudio.DeviceInfo
	if s.deviceID == "" {
		var err error
		device, err = portaudio.DefaultInputDevice()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
		}
	} else {
		devices, err := portaudio.Devices()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
		}
		for _, d := range devices {
			if d.Name == s.deviceID {
				device = d
				break
			}
		}
	}

	if device == nil {
		return nil, fmt.Errorf("%w: device not found: %s", ErrDeviceUnavailable, s.deviceID)
	}

	// An int32 buffer selects paInt32: full-scale 32-bit samples,
	// rescaled to the pipeline's 24-bit range by the pump
	buffer := make([]int32, 512)
	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: 1,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      float64(s.sampleRate),
		FramesPerBuffer: len(buffer),
	}, buffer)
	if err != nil {
		return nil, classifyOpenError(err)
	}

	ps := &portAudioStream{
		stream:     stream,
		buffer:     buffer,
		sampleRate: s.sampleRate,
		log:        s.log,
	}

	s.log.Info().Str("device", device.Name).Int("sample_rate", s.sampleRate).
		Msg("input device opened")

	return ps, nil
}

// classifyOpenError distinguishes an OS-level access refusal from a
// plain device failure so callers can route the user appropriately.
func classifyOpenError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "denied") || strings.Contains(msg, "not permitted") ||
		strings.Contains(msg, "unauthorized") {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
}

// portAudioStream wraps an open PortAudio stream. A pump goroutine
// moves samples from the hardware callback buffer into pending while
// the stream is started.
type portAudioStream struct {
	stream     *portaudio.Stream
	buffer     []int32
	sampleRate int
	log        zerolog.Logger

	mu      sync.Mutex
	pending []int32
	started bool
	closed  bool

	pumpStop chan struct{}
	pumpDone chan struct{}
}

// Start begins sample delivery
func (p *portAudioStream) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("%w: stream closed", ErrDeviceUnavailable)
	}
	if p.started {
		return nil
	}

	if err := p.stream.Start(); err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	p.started = true
	p.pumpStop = make(chan struct{})
	p.pumpDone = make(chan struct{})
	go p.pump(p.pumpStop, p.pumpDone)

	return nil
}

func (p *portAudioStream) pump(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-stop:
			return
		default:
		}

		if err := p.stream.Read(); err != nil {
			// Overflow just means we were slow; anything else ends the pump
			if err == portaudio.InputOverflowed {
				continue
			}
			p.log.Debug().Err(err).Msg("portaudio read ended")
			return
		}

		block := scale24(p.buffer)

		p.mu.Lock()
		p.pending = append(p.pending, block...)
		p.mu.Unlock()
	}
}

// scale24 converts full-scale 32-bit device samples into the 24-bit
// left-justified range the rest of the pipeline works in. Without
// this, anything louder than -48 dBFS wraps when saved as 16-bit.
func scale24(src []int32) []int32 {
	out := make([]int32, len(src))
	for i, s := range src {
		out[i] = s >> 8
	}
	return out
}

// Stop suspends delivery, keeping the device
func (p *portAudioStream) Stop() error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return nil
	}
	p.started = false
	stop := p.pumpStop
	done := p.pumpDone
	p.mu.Unlock()

	close(stop)
	<-done

	if err := p.stream.Stop(); err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	return nil
}

// Read drains the samples buffered since the last call
func (p *portAudioStream) Read() ([]int32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, fmt.Errorf("%w: stream closed", ErrDeviceUnavailable)
	}

	out := p.pending
	p.pending = nil
	return out, nil
}

// Format reports the stream's PCM format
func (p *portAudioStream) Format() audio.Format {
	return audio.Format{
		Codec:      "pcm",
		SampleRate: p.sampleRate,
		Channels:   1,
		BitDepth:   16,
	}
}

// Close releases the device
func (p *portAudioStream) Close() error {
	if err := p.Stop(); err != nil {
		p.log.Debug().Err(err).Msg("stop before close failed")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	p.pending = nil

	return p.stream.Close()
}
