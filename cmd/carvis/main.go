package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "carvis",
	Short:         "Local career assistant engine",
	Long:          "carvis runs the local engine behind the career assistant UI: job tracking, reminders, weekly missions, inbox scanning, and generated career assets.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
