package commands

import (
	"fmt"
	"github.com/agamayoga/fsscan/internal/core"
	"github.com/agamayoga/fsscan/pkg/fsx"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"os"
)

var checksumFlags struct {
	text string
}

var checksumCmd = &cobra.Command{
	Use:   "checksum [path...]",
	Short: "Print SHA-1 checksums of files, directories or a string",
	Long: "Prints a \"<sha1> *<path>\" line for every named file and for every file directly inside " +
		"a named directory. The output can be checked later with the verify command.",
	Example: "  fsscan checksum photos > photos.sha1\n  fsscan checksum --string \"hello\"",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("string") {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), fsx.StringChecksum(checksumFlags.text))
			return err
		}

		if len(args) == 0 {
			return errors.New("path argument is missing")
		}

		return core.ChecksumPaths(cmd.OutOrStdout(), fsx.OSFileSystem{}, fsx.SHA1Hasher{}, args)
	},
}

var verifyCmd = &cobra.Command{
	Use:     "verify <list.sha1>",
	Short:   "Verify files against a checksum list",
	Example: "  fsscan verify photos.sha1",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return errors.Wrap(err, "failed to open checksum list")
		}
		defer fsx.CloseFile(f)

		res, err := core.VerifyList(f, cmd.OutOrStdout(), fsx.OSFileSystem{}, fsx.SHA1Hasher{})
		if err != nil {
			return err
		}

		if !res.Passed() {
			return errors.Errorf("verification failed: %d failed, %d missing, %d ok", res.Failed, res.Missing, res.OK)
		}

		return nil
	},
}

func init() {
	checksumCmd.Flags().StringVar(&checksumFlags.text, "string", "", "print the checksum of this text instead of files")
}
