// ABOUTME: Spectral analyser for live capture audio
// ABOUTME: Produces smoothed frequency-bin energy snapshots from sample blocks
package waveform

import (
	"math"
	"sync"

	"github.com/Voxnote-Project/voxnote-go/pkg/audio"
)

const (
	// WindowSize is the number of recent samples analysed per snapshot
	WindowSize = 256

	// BinCount is the fixed frequency-bin resolution
	BinCount = WindowSize / 2

	// Smoothing blends each new snapshot with the previous one
	Smoothing = 0.8

	// Bin energies map magnitude decibels in this window onto 0..255
	minDecibels = -100.0
	maxDecibels = -30.0
)

// Analyser yields periodic frequency-energy snapshots from a live
// stream. Energies are scaled to 0..255 per bin.
type Analyser interface {
	Energies() []float64
}

// SpectrumAnalyser keeps a ring of the most recent samples and
// computes per-bin magnitudes over that window on demand.
type SpectrumAnalyser struct {
	mu     sync.Mutex
	window [WindowSize]int32
	pos    int
	filled bool
	bins   [BinCount]float64
}

// NewSpectrumAnalyser creates an analyser
func NewSpectrumAnalyser() *SpectrumAnalyser {
	return &SpectrumAnalyser{}
}

// Feed appends captured samples to the analysis window
func (a *SpectrumAnalyser) Feed(samples []int32) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, s := range samples {
		a.window[a.pos] = s
		a.pos++
		if a.pos == WindowSize {
			a.pos = 0
			a.filled = true
		}
	}
}

// Energies returns the current smoothed energy snapshot, one value in
// 0..255 per bin.
func (a *SpectrumAnalyser) Energies() []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.filled && a.pos == 0 {
		return make([]float64, BinCount)
	}

	// Copy the window in chronological order
	var w [WindowSize]float64
	start := a.pos
	if !a.filled {
		start = 0
	}
	for i := 0; i < WindowSize; i++ {
		w[i] = float64(a.window[(start+i)%WindowSize]) / float64(audio.Max24Bit)
	}

	// Per-bin DFT magnitude over the window
	for k := 0; k < BinCount; k++ {
		var re, im float64
		for n := 0; n < WindowSize; n++ {
			theta := 2 * math.Pi * float64(k) * float64(n) / WindowSize
			re += w[n] * math.Cos(theta)
			im -= w[n] * math.Sin(theta)
		}
		mag := 2 * math.Sqrt(re*re+im*im) / WindowSize

		level := 0.0
		if mag > 0 {
			db := 20 * math.Log10(mag)
			level = (db - minDecibels) / (maxDecibels - minDecibels) * 255
			if level < 0 {
				level = 0
			}
			if level > 255 {
				level = 255
			}
		}

		a.bins[k] = Smoothing*a.bins[k] + (1-Smoothing)*level
	}

	out := make([]float64, BinCount)
	copy(out, a.bins[:])
	return out
}

// Amplitude derives the normalized wave amplitude from an energy
// snapshot: mean energy over 128, with a fixed 3x gain so typical
// speech reads as visually energetic rather than flat.
func Amplitude(energies []float64) float64 {
	if len(energies) == 0 {
		return 0
	}

	var sum float64
	for _, e := range energies {
		sum += e
	}
	average := sum / float64(len(energies))

	amplitude := (average / 128) * 3
	if amplitude < 0 {
		return 0
	}
	return amplitude
}
