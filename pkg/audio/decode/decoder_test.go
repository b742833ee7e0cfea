// ABOUTME: Tests for the codec registry
// ABOUTME: Tests decoder dispatch for every supported codec
package decode

import (
	"testing"

	"github.com/Voxnote-Project/voxnote-go/pkg/audio"
)

func TestNewDispatch(t *testing.T) {
	tests := []struct {
		codec   string
		wantErr bool
	}{
		{"pcm", false},
		{"wav", false},
		{"mp3", false},
		{"flac", false},
		{"opus", false},
		{"ogg", true},
	}

	for _, tt := range tests {
		t.Run(tt.codec, func(t *testing.T) {
			dec, err := New(audio.Format{Codec: tt.codec, SampleRate: 48000, Channels: 1, BitDepth: 16})
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for codec %s", tt.codec)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for codec %s: %v", tt.codec, err)
			}
			if dec == nil {
				t.Fatalf("expected decoder for codec %s", tt.codec)
			}
			if err := dec.Close(); err != nil {
				t.Errorf("close failed for codec %s: %v", tt.codec, err)
			}
		})
	}
}
