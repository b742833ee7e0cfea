// ABOUTME: Package documentation for audio types
// ABOUTME: Shared audio primitives used by capture, storage and playback
//
// Package audio defines the core audio types shared across Voxnote:
// stream formats, decoded clips and sample width conversions.
package audio
