// ABOUTME: Package documentation for audio decoders
// ABOUTME: Describes supported codecs and the clip helpers
//
// Package decode converts encoded audio into PCM int32 samples.
// Supported codecs: pcm, wav, mp3, flac and opus. The Clip and File
// helpers decode an entire recording into an audio.Clip ready for
// playback.
package decode
