package cli

import (
	"encoding/json"
	"fmt"

	"github.com/downfa11-org/boundlog/pkg/disk"
	"github.com/spf13/cobra"
)

type fileStats struct {
	Path  string `json:"path"`
	Size  int64  `json:"size"`
	Lines int    `json:"lines"`
}

func newStatsCommand() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats <file>",
		Short: "Report size and line count of a log file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			size, lines, err := disk.Scan(args[0])
			if err != nil {
				return fmt.Errorf("scan %s: %w", args[0], err)
			}
			st := fileStats{Path: args[0], Size: size, Lines: lines}

			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(st)
			}
			fmt.Fprintf(out, "path:  %s\nsize:  %d\nlines: %d\n", st.Path, st.Size, st.Lines)
			return nil
		},
	}
	statsCmd.Flags().Bool("json", false, "Print stats as JSON")
	return statsCmd
}
