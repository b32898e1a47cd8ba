package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nfrund/genewar/internal/config"
	"github.com/nfrund/genewar/internal/database"
	"github.com/nfrund/genewar/internal/store"
)

var ratingCmd = &cobra.Command{
	Use:   "rating <player-id>",
	Short: "Look up a player's rating",
	Long:  "Reads the player's current rating from the match database. Connection settings come from the environment.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		playerID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("player id must be a UUID: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cfg := config.New()
		db, err := database.NewDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close(ctx)

		ledger := store.NewSurrealRatingLedger(db)
		rating, err := ledger.Rating(ctx, playerID)
		if err != nil {
			return err
		}

		fmt.Printf("%s  rating=%d\n", playerID, rating)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ratingCmd)
}
