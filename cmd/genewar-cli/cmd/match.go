package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nfrund/genewar/internal/config"
	"github.com/nfrund/genewar/internal/database"
	"github.com/nfrund/genewar/internal/store"
)

var matchCmd = &cobra.Command{
	Use:   "match <match-id>",
	Short: "Show a match record",
	Long:  "Prints the durable match record as JSON. Connection settings come from the environment.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matchID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("match id must be a UUID: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cfg := config.New()
		db, err := database.NewDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close(ctx)

		matches := store.NewSurrealMatchStore(db)
		match, err := matches.Match(ctx, matchID)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(match)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
}
