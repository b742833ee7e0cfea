// ABOUTME: Import subcommand
// ABOUTME: Decodes an external audio file and saves it as a note
package cli

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Voxnote-Project/voxnote-go/internal/store"
	"github.com/Voxnote-Project/voxnote-go/pkg/audio/decode"
	"github.com/spf13/cobra"
)

func NewImportCmd(deps *Dependencies) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a WAV, MP3 or FLAC file as a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			clip, err := decode.File(path)
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", path, err)
			}

			st, err := store.New(deps.Config.Storage.DataDir, deps.Config.Storage.QuotaBytes, deps.Log)
			if err != nil {
				return err
			}

			if title == "" {
				title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
			duration := int(math.Floor(clip.Duration()))

			rec, err := st.Save(clip, duration, title)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %s as %s (%ds)\n", path, rec.ID, rec.Duration)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "note title")
	return cmd
}
