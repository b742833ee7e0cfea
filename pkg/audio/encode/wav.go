// ABOUTME: WAV container encoder
// ABOUTME: Wraps PCM samples in a RIFF/WAVE header for on-disk storage
package encode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Voxnote-Project/voxnote-go/pkg/audio"
)

// WriteWAV encodes the clip as a 16-bit PCM WAV file and writes it to w
func WriteWAV(w io.Writer, clip *audio.Clip) error {
	if clip == nil || clip.Format.SampleRate <= 0 || clip.Format.Channels <= 0 {
		return fmt.Errorf("invalid clip format: %+v", clip)
	}

	pcm, err := NewPCM(audio.Format{
		Codec:      "pcm",
		SampleRate: clip.Format.SampleRate,
		Channels:   clip.Format.Channels,
		BitDepth:   16,
	})
	if err != nil {
		return err
	}
	defer pcm.Close()

	payload, err := pcm.Encode(clip.Samples)
	if err != nil {
		return err
	}

	const (
		bitDepth  = 16
		fmtSize   = 16
		headerLen = 36 // RIFF size excluding the data chunk body
	)

	channels := clip.Format.Channels
	sampleRate := clip.Format.SampleRate
	blockAlign := channels * bitDepth / 8
	byteRate := sampleRate * blockAlign

	var header bytes.Buffer
	header.WriteString("RIFF")
	binary.Write(&header, binary.LittleEndian, uint32(headerLen+len(payload)))
	header.WriteString("WAVE")
	header.WriteString("fmt ")
	binary.Write(&header, binary.LittleEndian, uint32(fmtSize))
	binary.Write(&header, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&header, binary.LittleEndian, uint16(channels))
	binary.Write(&header, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&header, binary.LittleEndian, uint32(byteRate))
	binary.Write(&header, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&header, binary.LittleEndian, uint16(bitDepth))
	header.WriteString("data")
	binary.Write(&header, binary.LittleEndian, uint32(len(payload)))

	if _, err := w.Write(header.Bytes()); err != nil {
		return fmt.Errorf("failed to write wav header: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("failed to write wav payload: %w", err)
	}

	return nil
}

// EncodeWAV encodes the clip as a 16-bit PCM WAV file in memory
func EncodeWAV(clip *audio.Clip) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteWAV(&buf, clip); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
