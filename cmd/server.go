package cmd

import (
	"ShelfFM/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the ShelfFM server",
	Long:  `Start the ShelfFM HTTP server: catalog browsing, playlists and the playback engine.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
