package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "advisor",
		Short:         "CryptoAdvisor - strategy-driven crypto recommendations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newRankCmd())
	rootCmd.AddCommand(newStrategiesCmd())

	rootCmd.PersistentFlags().String("config", "", "Configuration file path (default $CONFIG_PATH or configs/config.yaml)")
	return rootCmd
}
