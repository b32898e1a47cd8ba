package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/nfrund/genewar/internal/matchmaking"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show the matchmaking queue",
	Long:  "Lists every waiting player in pairing order, lowest score first.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		defer rdb.Close()

		queue := matchmaking.NewQueue(rdb)
		entries, err := queue.Entries(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("%d waiting\n", len(entries))
		for i, e := range entries {
			fmt.Printf("%3d. %s  score=%.6f\n", i+1, e.PlayerID, e.Score)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queueCmd)
}
