// Package cmd holds the CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "lekia-translations",
	Short: "Batch text optimization and translation service",
	Long: `Runs spreadsheet rows (product texts or UI strings) through a
generative text backend: optimization, multi-language translation, and a
live progress stream over SSE.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
}
