package commands

import (
	"context"
	"fmt"
	"github.com/agamayoga/fsscan/internal/config"
	"github.com/agamayoga/fsscan/internal/console"
	"github.com/agamayoga/fsscan/internal/core"
	"github.com/agamayoga/fsscan/internal/manifest"
	"github.com/agamayoga/fsscan/internal/storage"
	"github.com/agamayoga/fsscan/pkg/fsx"
	"github.com/agamayoga/fsscan/pkg/logx"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"io"
	"os"
)

var scanFlags struct {
	input   string
	output  string
	force   bool
	exclude []string
	total   int64
}

var scanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "Inventory a directory tree into a manifest",
	Long: "Walks a directory tree, records every file and folder with its size, timestamps and SHA-1 " +
		"checksum, and saves the manifest every minute so an interrupted scan can be resumed.",
	Example: "  fsscan scan C: -o drive_c.json\n" +
		"  fsscan scan /mnt/backup -i backup.json -o backup.json -f",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

func init() {
	scanCmd.Flags().StringVarP(&scanFlags.input, "input", "i", "", "manifest of a previous scan to resume from")
	scanCmd.Flags().StringVarP(&scanFlags.output, "output", "o", "", "manifest file to write (.zst to compress)")
	scanCmd.Flags().BoolVarP(&scanFlags.force, "force", "f", false, "overwrite the output file if it exists")
	scanCmd.Flags().StringSliceVar(&scanFlags.exclude, "exclude", nil, "glob pattern of paths to skip, repeatable")
	scanCmd.Flags().Int64Var(&scanFlags.total, "total", 0, "byte total progress is measured against (default volume capacity)")
}

func runScan(ctx context.Context, out io.Writer, target string) error {
	logx.StartTimer()

	root, err := fsx.ResolveRoot(target)
	if err != nil {
		return errors.Wrap(err, "invalid scan target")
	}

	if err := config.ValidateScanOptions(scanFlags.input, scanFlags.output, scanFlags.force); err != nil {
		return err
	}

	cfg := config.Get()
	publishers, err := storage.NewPublishers(cfg)
	if err != nil {
		return err
	}

	var prior *manifest.Manifest
	if scanFlags.input != "" {
		prior, err = manifest.Load(scanFlags.input)
		if err != nil {
			return errors.Wrap(err, "failed to load the manifest to resume from")
		}
	}

	opts := core.ScanOptions{
		Root:    root,
		Prior:   prior,
		Total:   scanFlags.total,
		Exclude: append(append([]string{}, cfg.Scan.Exclude...), scanFlags.exclude...),
	}
	if opts.Total <= 0 {
		opts.Total = cfg.Scan.Total
	}

	fs := fsx.OSFileSystem{}
	_, _ = fmt.Fprintf(out, "Scanning %s (%s)\n\n", root, core.BytesToString(displayTotal(fs, root, opts.Total)))

	progress := console.NewProgress(os.Stdout)
	scanner, err := core.NewScanner(opts, fs, fsx.SHA1Hasher{}, progress, manifest.Writer{Path: scanFlags.output})
	if err != nil {
		return err
	}

	res, err := scanner.Run()
	progress.Finish()
	if err != nil {
		return errors.Wrap(err, "scan failed")
	}

	_, _ = fmt.Fprintf(out, "\nFound %d files and folders, %d errors, %s%% of drive space\n\nDone!\n",
		res.Count, res.Errors, core.FormatPercent(res.Percent))

	logx.As().Info().
		Str("scanner", res.ID).
		Str("output", scanFlags.output).
		Str("total_time", logx.ExecutionTime()).
		Msg("Scan finished")

	return publish(ctx, publishers, scanFlags.output)
}

// displayTotal returns the size announced before a scan: the configured total, or the
// capacity of the volume holding root.
func displayTotal(fs fsx.FileSystem, root string, total int64) int64 {
	if total > 0 {
		return total
	}

	capacity, err := fs.Capacity(root)
	if err != nil {
		return 0
	}

	return capacity
}
