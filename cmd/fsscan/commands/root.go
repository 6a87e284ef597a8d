package commands

import (
	"fmt"
	"github.com/agamayoga/fsscan/internal/config"
	"github.com/agamayoga/fsscan/internal/version"
	"github.com/agamayoga/fsscan/pkg/logx"
	"github.com/spf13/cobra"
	"os"
)

var (
	// Used for flags.
	flagConfig string

	rootCmd = &cobra.Command{
		Use:           "fsscan",
		Short:         "Inventory file trees and compare their manifests",
		Long:          "fsscan - builds a resumable JSON manifest of a directory tree and reconciles the manifests of two copies",
		Version:       version.Number(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "d", "", "config file path")
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddCommand(scanCmd, compareCmd, checksumCmd, verifyCmd, versionCmd)
}

func initConfig() {
	var err error
	err = config.Initialize(flagConfig)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "failed to initialize config")
		cobra.CheckErr(err)
	}

	err = logx.Initialize(config.Get().Log)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		cobra.CheckErr(err)
	}
}
