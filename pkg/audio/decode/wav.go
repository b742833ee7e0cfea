// ABOUTME: WAV container decoder
// ABOUTME: Parses RIFF/WAVE headers and decodes the PCM payload
package decode

import (
	"encoding/binary"
	"fmt"

	"github.com/Voxnote-Project/voxnote-go/pkg/audio"
)

// WAVDecoder decodes PCM audio wrapped in a RIFF/WAVE container
type WAVDecoder struct{}

// NewWAV creates a new WAV decoder
func NewWAV(format audio.Format) (Decoder, error) {
	if format.Codec != "wav" {
		return nil, fmt.Errorf("invalid codec for WAV decoder: %s", format.Codec)
	}
	return &WAVDecoder{}, nil
}

// Decode converts a complete WAV file to a decoded clip
func (d *WAVDecoder) Decode(data []byte) (*audio.Clip, error) {
	return ReadWAV(data)
}

// Close releases resources
func (d *WAVDecoder) Close() error {
	return nil
}

// ReadWAV parses a complete WAV file and returns the decoded clip,
// including the format read from the container header.
func ReadWAV(data []byte) (*audio.Clip, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("wav data too short: %d bytes", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE file")
	}

	var format audio.Format
	var payload []byte
	sawFmt := false

	// Walk chunks; fmt must precede data
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			return nil, fmt.Errorf("truncated %s chunk", chunkID)
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, fmt.Errorf("fmt chunk too short: %d bytes", chunkSize)
			}
			audioFormat := binary.LittleEndian.Uint16(data[body : body+2])
			if audioFormat != 1 {
				return nil, fmt.Errorf("unsupported wav encoding: %d (only PCM)", audioFormat)
			}
			format.Codec = "pcm"
			format.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			format.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			format.BitDepth = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			sawFmt = true

		case "data":
			payload = data[body : body+chunkSize]
		}

		// Chunks are word-aligned
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if !sawFmt {
		return nil, fmt.Errorf("missing fmt chunk")
	}
	if payload == nil {
		return nil, fmt.Errorf("missing data chunk")
	}

	pcm, err := NewPCM(format)
	if err != nil {
		return nil, fmt.Errorf("unsupported wav payload: %w", err)
	}
	defer pcm.Close()

	return pcm.Decode(payload)
}
