// ABOUTME: File-based decode helpers
// ABOUTME: Loads a saved recording into a ready-to-play clip
package decode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Voxnote-Project/voxnote-go/pkg/audio"
)

// File loads and decodes a saved recording by path, routing through
// the codec registry keyed on the file extension.
func File(path string) (*audio.Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	dec, err := New(format)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return dec.Decode(data)
}

// FormatForPath maps a file extension onto a decodable format. The
// container codecs read the real stream parameters from the data
// itself, so only the codec is filled in.
func FormatForPath(path string) (audio.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return audio.Format{Codec: "wav"}, nil
	case ".mp3":
		return audio.Format{Codec: "mp3"}, nil
	case ".flac":
		return audio.Format{Codec: "flac"}, nil
	default:
		return audio.Format{}, fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
	}
}
