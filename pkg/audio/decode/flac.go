// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes FLAC audio to int32 samples using mewkiz/flac
package decode

import (
	"bytes"
	"fmt"
	"io"

	"github.com/Voxnote-Project/voxnote-go/pkg/audio"
	"github.com/mewkiz/flac"
)

// FLACDecoder decodes FLAC audio
type FLACDecoder struct{}

// NewFLAC creates a new FLAC decoder
func NewFLAC(format audio.Format) (Decoder, error) {
	if format.Codec != "flac" {
		return nil, fmt.Errorf("invalid codec for FLAC decoder: %s", format.Codec)
	}
	return &FLACDecoder{}, nil
}

// Decode converts a complete FLAC stream to a decoded clip
func (d *FLACDecoder) Decode(data []byte) (*audio.Clip, error) {
	return ReadFLAC(data)
}

// Close releases decoder resources
func (d *FLACDecoder) Close() error {
	return nil
}

// ReadFLAC decodes a complete FLAC stream and returns the decoded
// clip, including the format read from the stream info block.
func ReadFLAC(data []byte) (*audio.Clip, error) {
	stream, err := flac.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse flac stream: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	// Left-justify samples into the shared 24-bit range
	shift := 24 - int(info.BitsPerSample)

	var samples []int32
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flac decode error: %w", err)
		}

		// Interleave subframes (one per channel)
		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			for _, sub := range frame.Subframes {
				s := sub.Samples[i]
				if shift > 0 {
					s <<= shift
				} else if shift < 0 {
					s >>= -shift
				}
				samples = append(samples, s)
			}
		}
	}

	return &audio.Clip{
		Format: audio.Format{
			Codec:      "pcm",
			SampleRate: int(info.SampleRate),
			Channels:   int(info.NChannels),
			BitDepth:   24,
		},
		Samples: samples,
	}, nil
}
