// ABOUTME: List subcommand
// ABOUTME: Prints saved recordings without opening the TUI
package cli

import (
	"fmt"

	"github.com/Voxnote-Project/voxnote-go/internal/playback"
	"github.com/Voxnote-Project/voxnote-go/internal/store"
	"github.com/spf13/cobra"
)

func NewListCmd(deps *Dependencies) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved recordings",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.New(deps.Config.Storage.DataDir, deps.Config.Storage.QuotaBytes, deps.Log)
			if err != nil {
				return err
			}

			records := st.List(store.Filter{Query: query})
			if len(records) == 0 {
				fmt.Println("No recordings found")
				return nil
			}

			for _, rec := range records {
				fmt.Printf("%s  %-30s %6s  %s\n",
					rec.CreatedAt.Format("2006-01-02 15:04"),
					rec.Title,
					playback.FormatTime(float64(rec.Duration)),
					rec.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by title")
	return cmd
}
