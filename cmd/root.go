// Package cmd wires configuration, storage and services into the
// expired-listings command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"expired-listings/config"
	"expired-listings/utils"
)

var rootCmd = &cobra.Command{
	Use:   "expired-listings",
	Short: "Find off-market MLS listings that were neither sold nor relisted",
	Long: "expired-listings compares an off-market MLS export against sold and for-sale\n" +
		"exports and reports the properties that expired without selling or relisting.",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration and builds the logger every command uses.
func setup() (*config.Config, *utils.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, utils.NewLogger(cfg.LogLevel, cfg.LogFormat), nil
}
