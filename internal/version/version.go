// ABOUTME: Version constants for the application
// ABOUTME: Single place the CLI and logs read identity from
package version

const (
	Product      = "Voxnote"
	Version      = "0.1.0"
	Manufacturer = "Voxnote Project"
)
