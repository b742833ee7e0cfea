// ABOUTME: Devices subcommand
// ABOUTME: Enumerates available microphone inputs
package cli

import (
	"fmt"

	"github.com/Voxnote-Project/voxnote-go/internal/capture"
	"github.com/spf13/cobra"
)

func NewDevicesCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List available input devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			source := capture.NewPortAudioSource(deps.Config.Audio.Device, deps.Config.Audio.SampleRate, deps.Log)
			devices, err := source.Devices()
			if err != nil {
				return fmt.Errorf("failed to enumerate devices: %w", err)
			}
			if len(devices) == 0 {
				fmt.Println("No input devices found")
				return nil
			}

			for _, d := range devices {
				marker := " "
				if d.Default {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, d.Name)
			}
			return nil
		},
	}
}
