// ABOUTME: Doctor subcommand
// ABOUTME: Checks capture support, storage and quota headroom
package cli

import (
	"fmt"
	"os"

	"github.com/Voxnote-Project/voxnote-go/internal/capture"
	"github.com/Voxnote-Project/voxnote-go/internal/logging"
	"github.com/Voxnote-Project/voxnote-go/internal/store"
	"github.com/spf13/cobra"
)

func NewDoctorCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check prerequisites",
		RunE: func(cmd *cobra.Command, args []string) error {
			ok := true

			source := capture.NewPortAudioSource(deps.Config.Audio.Device, deps.Config.Audio.SampleRate, deps.Log)
			if source.Supported() {
				check("Microphone", true, "input device available")
			} else {
				check("Microphone", false, "no input device found")
				ok = false
			}

			dataDir := deps.Config.Storage.DataDir
			if err := os.MkdirAll(dataDir, 0o755); err != nil {
				check("Data directory", false, fmt.Sprintf("%s: %v", dataDir, err))
				ok = false
			} else {
				check("Data directory", true, dataDir)
			}

			st, err := store.New(dataDir, deps.Config.Storage.QuotaBytes, deps.Log)
			if err != nil {
				check("Recording index", false, err.Error())
				ok = false
			} else if quota := deps.Config.Storage.QuotaBytes; quota > 0 {
				usage := st.Usage()
				check("Quota", usage < quota,
					fmt.Sprintf("%d of %d bytes used", usage, quota))
				if usage >= quota {
					ok = false
				}
			} else {
				check("Quota", true, "unlimited")
			}

			check("Log file", true, logging.LogPath())

			if ok {
				fmt.Println("\nAll checks passed. Ready to record.")
			} else {
				fmt.Println("\nSome checks failed.")
			}
			return nil
		},
	}
}

func check(name string, ok bool, detail string) {
	mark := "✓"
	if !ok {
		mark = "✗"
	}
	fmt.Printf("%s %-18s %s\n", mark, name, detail)
}
