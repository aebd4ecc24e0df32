package cmd

import (
	"fmt"
	"log"
	"os"

	"OopzAudio/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "oopzaudio",
	Short: "OopzAudio is a playback-control service driving an external audio player.",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Starting AudioService...")
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
