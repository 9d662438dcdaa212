package cmd

import (
	"fmt"
	"log"
	"os"

	"ShelfFM/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shelffm",
	Short: "ShelfFM is a personal media library and playback service.",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Starting ShelfFM server...")
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
