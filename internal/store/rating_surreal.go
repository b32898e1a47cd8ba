package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/nfrund/genewar/internal/database"
	"github.com/nfrund/genewar/internal/models"
)

// DefaultRating is assumed for players with no rating record yet.
const DefaultRating = 1500

// SurrealRatingLedger implements domain.RatingLedger on top of SurrealDB.
type SurrealRatingLedger struct {
	db *surrealdb.DB
}

// NewSurrealRatingLedger creates a rating ledger backed by the given connection.
func NewSurrealRatingLedger(db *surrealdb.DB) *SurrealRatingLedger {
	return &SurrealRatingLedger{db: db}
}

func playerRecordID(playerID uuid.UUID) surrealmodels.RecordID {
	return surrealmodels.NewRecordID("player", playerID.String())
}

// Rating returns the player's current rating, or DefaultRating when the
// player has never finished a match.
func (s *SurrealRatingLedger) Rating(ctx context.Context, playerID uuid.UUID) (int, error) {
	player, err := database.QueryOne[models.Player](ctx, s.db, "SELECT * FROM $id", map[string]any{
		"id": playerRecordID(playerID),
	})
	if err != nil {
		return 0, fmt.Errorf("fetch rating: %w", err)
	}
	if player == nil {
		return DefaultRating, nil
	}
	return player.Rating, nil
}

// ApplyDelta adjusts the player's rating in one atomic statement, creating
// the record on first use and flooring the result at zero.
func (s *SurrealRatingLedger) ApplyDelta(ctx context.Context, playerID uuid.UUID, delta int) (int, error) {
	query := "UPSERT $id SET rating = math::max(0, (rating ?? $base) + $delta) RETURN AFTER"
	player, err := database.QueryOne[models.Player](ctx, s.db, query, map[string]any{
		"id":    playerRecordID(playerID),
		"base":  DefaultRating,
		"delta": delta,
	})
	if err != nil {
		return 0, fmt.Errorf("apply rating delta: %w", err)
	}
	if player == nil {
		return 0, fmt.Errorf("apply rating delta: no record returned for player %s", playerID)
	}
	return player.Rating, nil
}
