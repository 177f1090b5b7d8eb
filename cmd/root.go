package cmd

import (
	"fmt"
	"os"

	"waxcrate/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "waxcrate",
	Short: "Waxcrate is a personal album collection service.",
	Run: func(cmd *cobra.Command, args []string) {
		// Default action is the same as the server subcommand.
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
