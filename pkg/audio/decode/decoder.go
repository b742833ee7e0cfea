// ABOUTME: Decoder interface definition
// ABOUTME: Common interface for all audio decoders
package decode

import (
	"fmt"

	"github.com/Voxnote-Project/voxnote-go/pkg/audio"
)

// Decoder decodes audio in various formats to a ready-to-play clip.
// Container codecs report the format discovered in the data; raw
// codecs echo the format they were created with.
type Decoder interface {
	// Decode converts encoded audio data to a decoded clip
	Decode(data []byte) (*audio.Clip, error)

	// Close releases decoder resources
	Close() error
}

// New creates a decoder for the given format
func New(format audio.Format) (Decoder, error) {
	switch format.Codec {
	case "pcm":
		return NewPCM(format)
	case "wav":
		return NewWAV(format)
	case "mp3":
		return NewMP3(format)
	case "flac":
		return NewFLAC(format)
	case "opus":
		return NewOpus(format)
	default:
		return nil, fmt.Errorf("unsupported codec: %s", format.Codec)
	}
}
