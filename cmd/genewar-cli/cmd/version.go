package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version can be set at build time with -ldflags "-X '...cmd.Version=v1.2.3'".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the CLI version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("genewar-cli", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
