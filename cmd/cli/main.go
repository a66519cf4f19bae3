package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host   string
	actor  string
	dryRun bool
)

var rootCmd = &cobra.Command{
	Use:   "matchpoint-cli",
	Short: "A CLI to interact with the matchpoint server",
	Long: `A command-line interface for checking score sheets offline and for
submitting, reviewing and commenting on match results through the matchpoint server.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", os.Getenv("MATCHPOINT_ACTOR"), "The player id to act as")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Ask the server not to persist or publish anything")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
