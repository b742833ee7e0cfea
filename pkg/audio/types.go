// ABOUTME: Audio type definitions
// ABOUTME: Defines stream formats, decoded clips and sample conversions
package audio

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// Format describes audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// FrameCount returns the number of per-channel frames in a sample slice
func (f Format) FrameCount(samples []int32) int {
	if f.Channels <= 0 {
		return len(samples)
	}
	return len(samples) / f.Channels
}

// Clip is a decoded, ready-to-play audio buffer
type Clip struct {
	Format  Format
	Samples []int32 // Interleaved PCM (int32 to support both 16-bit and 24-bit)
}

// Frames returns the number of per-channel frames in the clip
func (c *Clip) Frames() int {
	return c.Format.FrameCount(c.Samples)
}

// Duration returns the clip length in seconds as reported by the
// decoded data itself. Stored metadata, when present, takes priority
// over this value.
func (c *Clip) Duration() float64 {
	if c == nil || c.Format.SampleRate <= 0 {
		return 0
	}
	return float64(c.Frames()) / float64(c.Format.SampleRate)
}

// SampleToInt16 converts int32 sample to int16 (for 16-bit playback)
func SampleToInt16(sample int32) int16 {
	// Right-shift to convert 24-bit (or 16-bit) to 16-bit range
	return int16(sample >> 8)
}

// SampleFromInt16 converts int16 sample to int32 (left-justified in 24-bit)
func SampleFromInt16(sample int16) int32 {
	// Left-shift to position 16-bit value in upper bits
	return int32(sample) << 8
}

// SampleTo24Bit converts int32 to 24-bit packed bytes (little-endian)
func SampleTo24Bit(sample int32) [3]byte {
	return [3]byte{
		byte(sample),
		byte(sample >> 8),
		byte(sample >> 16),
	}
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	// Sign extend from 24-bit to 32-bit
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return val
}
