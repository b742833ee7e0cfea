// ABOUTME: Package documentation for audio output
// ABOUTME: Playback backends behind a common Output interface
//
// Package output plays PCM samples on the host audio device. The oto
// backend is the production implementation; tests substitute fakes.
package output
