package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var redisAddr string

var rootCmd = &cobra.Command{
	Use:   "genewar-cli",
	Short: "Genewar operations CLI",
	Long: `Genewar CLI is a command-line interface for inspecting a running
genewar deployment.

Available commands:
  queue       Show the matchmaking queue
  snapshot    Dump the recovery snapshot for a match
  match       Show a match record
  rating      Look up a player's rating

Use "genewar-cli [command] --help" for more information about a specific command.`,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis", "localhost:6379", "Redis address")
}
