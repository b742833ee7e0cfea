// ABOUTME: Root cobra command and shared CLI dependencies
// ABOUTME: Running with no subcommand opens the recorder TUI
package cli

import (
	"fmt"

	"github.com/Voxnote-Project/voxnote-go/internal/app"
	"github.com/Voxnote-Project/voxnote-go/internal/config"
	"github.com/Voxnote-Project/voxnote-go/internal/logging"
	"github.com/Voxnote-Project/voxnote-go/internal/version"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Dependencies carries what subcommands need, resolved once in the
// root's PersistentPreRunE.
type Dependencies struct {
	Config *config.Config
	Log    zerolog.Logger
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	var cfgFile string
	deps := &Dependencies{}

	rootCmd := &cobra.Command{
		Use:   "voxnote",
		Short: "Record voice notes with a live waveform and replay them",
		Long: `Voxnote records microphone audio with a live amplitude-reactive
waveform, saves notes locally as WAV, and replays them with seekable
progress in the terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			deps.Config = cfg
			deps.Log = logging.New(cfg.Log.Level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(deps.Config, deps.Log)
			if err != nil {
				return err
			}
			return a.Run()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("%s %s\n", version.Product, version.Version))

	rootCmd.AddCommand(NewDevicesCmd(deps))
	rootCmd.AddCommand(NewImportCmd(deps))
	rootCmd.AddCommand(NewListCmd(deps))
	rootCmd.AddCommand(NewDoctorCmd(deps))

	return rootCmd
}
