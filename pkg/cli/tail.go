package cli

import (
	"fmt"

	"github.com/downfa11-org/boundlog/pkg/logtail"
	"github.com/spf13/cobra"
)

func newTailCommand() *cobra.Command {
	tailCmd := &cobra.Command{
		Use:   "tail <file>",
		Short: "Print the newest lines of a log file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, _ := cmd.Flags().GetInt("lines")
			raw, _ := cmd.Flags().GetBool("raw")
			if n <= 0 {
				return fmt.Errorf("invalid --lines %d; must be positive", n)
			}

			lines, err := logtail.Read(args[0], n)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, line := range lines {
				if !raw {
					line = logtail.Format(line)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	tailCmd.Flags().IntP("lines", "n", 20, "Number of lines to print")
	tailCmd.Flags().Bool("raw", false, "Print stored JSON instead of formatted lines")
	return tailCmd
}
