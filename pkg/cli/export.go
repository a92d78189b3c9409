package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/downfa11-org/boundlog/pkg/config"
	"github.com/downfa11-org/boundlog/util"
	"github.com/spf13/cobra"
)

func newExportCommand() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write a compressed copy of a log file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			compression, _ := cmd.Flags().GetString("compression")
			if !cmd.Flags().Changed("compression") {
				configPath, _ := cmd.Flags().GetString("config")
				cfg, err := config.LoadFile(configPath)
				if err != nil {
					return err
				}
				compression = cfg.ExportCompression
			}

			switch compression {
			case "none", "gzip", "lz4":
			default:
				return fmt.Errorf("invalid --compression %q; use gzip|lz4|none", compression)
			}
			if output == "" {
				output = args[0] + util.Extension(compression)
				if compression == "none" {
					output = args[0] + ".export"
				}
			}
			if filepath.Clean(output) == filepath.Clean(args[0]) {
				return fmt.Errorf("refusing to export %s onto itself", args[0])
			}
			n, err := exportFile(args[0], output, compression)
			if err != nil {
				return err
			}
			util.Info("exported %s (%d bytes) to %s", args[0], n, output)
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}
	exportCmd.Flags().StringP("output", "o", "", "Output path (default: <file> plus compression extension)")
	exportCmd.Flags().String("compression", "", "Compression: gzip|lz4|none (default: export_compression from config, else gzip)")
	return exportCmd
}

func exportFile(src, dst, compression string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", dst, err)
	}
	n, err := util.CompressStream(out, in, compression)
	if err != nil {
		out.Close()
		return 0, fmt.Errorf("compress %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", dst, err)
	}
	return n, nil
}
