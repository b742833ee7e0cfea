// ABOUTME: Tests for audio types
// ABOUTME: Tests clip duration accounting and sample conversion functions
package audio

import "testing"

func TestClipDuration(t *testing.T) {
	tests := []struct {
		name     string
		clip     Clip
		expected float64
	}{
		{
			"mono one second",
			Clip{Format: Format{SampleRate: 44100, Channels: 1}, Samples: make([]int32, 44100)},
			1.0,
		},
		{
			"stereo one second",
			Clip{Format: Format{SampleRate: 48000, Channels: 2}, Samples: make([]int32, 96000)},
			1.0,
		},
		{
			"empty clip",
			Clip{Format: Format{SampleRate: 44100, Channels: 1}},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.clip.Duration(); got != tt.expected {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestClipDurationZeroRate(t *testing.T) {
	clip := Clip{Samples: make([]int32, 1024)}
	if got := clip.Duration(); got != 0 {
		t.Errorf("expected 0 for zero sample rate, got %f", got)
	}
}

func TestNilClipDuration(t *testing.T) {
	var clip *Clip
	if got := clip.Duration(); got != 0 {
		t.Errorf("expected 0 for nil clip, got %f", got)
	}
}

func TestSampleFromInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected int32
	}{
		{"zero", 0, 0},
		{"positive", 100, 100 << 8},
		{"negative", -100, -100 << 8},
		{"max", 32767, 32767 << 8},
		{"min", -32768, -32768 << 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFromInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestSampleRoundTrip16Bit(t *testing.T) {
	samples := []int16{0, 100, -100, 1000, -1000, 32767, -32768}

	for _, original := range samples {
		sample32 := SampleFromInt16(original)
		result := SampleToInt16(sample32)
		if result != original {
			t.Errorf("round-trip failed: %d -> %d -> %d", original, sample32, result)
		}
	}
}

func TestSampleRoundTrip24Bit(t *testing.T) {
	samples := []int32{0, 100000, -100000, Max24Bit, Min24Bit}

	for _, original := range samples {
		b := SampleTo24Bit(original)
		result := SampleFrom24Bit(b)
		if result != original {
			t.Errorf("round-trip failed: %d -> %v -> %d", original, b, result)
		}
	}
}

func TestFrameCountMono(t *testing.T) {
	f := Format{Channels: 1}
	if got := f.FrameCount(make([]int32, 512)); got != 512 {
		t.Errorf("expected 512 frames, got %d", got)
	}
}

func TestFrameCountStereo(t *testing.T) {
	f := Format{Channels: 2}
	if got := f.FrameCount(make([]int32, 512)); got != 256 {
		t.Errorf("expected 256 frames, got %d", got)
	}
}
