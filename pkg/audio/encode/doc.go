// ABOUTME: Package documentation for audio encoders
// ABOUTME: PCM sample packing and WAV container writing
//
// Package encode converts PCM int32 samples into storable byte
// formats. The WAV helpers produce the on-disk representation used
// for saved recordings.
package encode
