package commands

import (
	"context"
	"fmt"
	"github.com/agamayoga/fsscan/internal/config"
	"github.com/agamayoga/fsscan/internal/console"
	"github.com/agamayoga/fsscan/internal/core"
	"github.com/agamayoga/fsscan/internal/manifest"
	"github.com/agamayoga/fsscan/internal/storage"
	"github.com/agamayoga/fsscan/pkg/logx"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"io"
	"os"
)

var compareFlags struct {
	output       string
	force        bool
	prefixLength int
}

var compareCmd = &cobra.Command{
	Use:   "compare <primary> <secondary>",
	Short: "Compare two manifests for differences",
	Long: "Matches the records of two manifests by path, ignoring the volume prefix and letter case, " +
		"and reports files that are missing on either side or whose size or SHA-1 checksum differ.",
	Example: "  fsscan compare drive_c.json drive_d.json -o result.json",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefixLength := config.Get().Compare.PrefixLength
		if cmd.Flags().Changed("prefix-length") {
			prefixLength = compareFlags.prefixLength
		}
		return runCompare(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], prefixLength)
	},
}

func init() {
	compareCmd.Flags().StringVarP(&compareFlags.output, "output", "o", "", "conflict file to write (.zst to compress)")
	compareCmd.Flags().BoolVarP(&compareFlags.force, "force", "f", false, "overwrite the output file if it exists")
	compareCmd.Flags().IntVar(&compareFlags.prefixLength, "prefix-length", core.DefaultPrefixLength,
		"leading path characters ignored when matching, e.g. 3 for \"C:\\\", 0 compares whole paths")
}

func runCompare(ctx context.Context, out io.Writer, primary string, secondary string, prefixLength int) error {
	logx.StartTimer()

	if err := config.ValidateCompareOptions(primary, secondary, compareFlags.output, compareFlags.force, prefixLength); err != nil {
		return err
	}

	publishers, err := storage.NewPublishers(config.Get())
	if err != nil {
		return err
	}

	a, err := manifest.Load(primary)
	if err != nil {
		return errors.Wrap(err, "failed to load the primary manifest")
	}

	b, err := manifest.Load(secondary)
	if err != nil {
		return errors.Wrap(err, "failed to load the secondary manifest")
	}

	_, _ = fmt.Fprintf(out, "Comparing...\nA: %d records\nB: %d records\n\n", a.Len(), b.Len())

	progress := console.NewProgress(os.Stdout)
	res := core.NewReconciler(core.CompareOptions{PrefixLength: prefixLength}, progress).Compare(a, b)
	progress.Finish()

	_, _ = fmt.Fprintf(out, "\nFound %d conflicts\n\n", len(res.Conflicts))

	if compareFlags.output == "" {
		for _, c := range res.Conflicts {
			_, _ = fmt.Fprintf(out, "%s: %s\n", c.Path, c.Message)
		}
	} else if err := manifest.SaveConflicts(compareFlags.output, res.Conflicts); err != nil {
		return errors.Wrap(err, "failed to save conflicts")
	}

	_, _ = fmt.Fprintln(out, "Done!")

	logx.As().Info().
		Int("conflicts", len(res.Conflicts)).
		Str("output", compareFlags.output).
		Str("total_time", logx.ExecutionTime()).
		Msg("Comparison finished")

	return publish(ctx, publishers, compareFlags.output)
}
