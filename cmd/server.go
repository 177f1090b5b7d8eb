package cmd

import (
	"waxcrate/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Waxcrate HTTP server",
	Long:  `Start the Waxcrate HTTP server, serving the collection API backed by MySQL and the Spotify catalog.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
