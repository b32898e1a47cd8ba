package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/nfrund/genewar/internal/snapshot"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <match-id>",
	Short: "Dump the recovery snapshot for a match",
	Long:  "Prints the raw JSON snapshot a restarted coordinator would restore from.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matchID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("match id must be a UUID: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		defer rdb.Close()

		store := snapshot.NewRedisStore(rdb)
		data, found, err := store.Get(ctx, matchID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("no snapshot for match %s", matchID)
		}

		fmt.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}
