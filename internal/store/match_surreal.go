// Package store persists match records and player ratings in SurrealDB.
// Records are addressed by record id derived from the match or player UUID,
// so every write is a single targeted statement.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/nfrund/genewar/internal/database"
	"github.com/nfrund/genewar/internal/domain"
	"github.com/nfrund/genewar/internal/models"
)

// SurrealMatchStore implements domain.MatchStore on top of SurrealDB.
type SurrealMatchStore struct {
	db *surrealdb.DB
}

// NewSurrealMatchStore creates a match store backed by the given connection.
func NewSurrealMatchStore(db *surrealdb.DB) *SurrealMatchStore {
	return &SurrealMatchStore{db: db}
}

func matchRecordID(matchID uuid.UUID) surrealmodels.RecordID {
	return surrealmodels.NewRecordID("match", matchID.String())
}

// CreatePendingMatch writes a new pending match record and returns its id.
func (s *SurrealMatchStore) CreatePendingMatch(ctx context.Context, playerA, playerB uuid.UUID) (uuid.UUID, error) {
	matchID := uuid.New()
	match := models.Match{
		PlayerA:   playerA.String(),
		PlayerB:   playerB.String(),
		Status:    models.MatchPending,
		CreatedAt: time.Now().UTC(),
	}
	err := database.Execute(ctx, s.db, "CREATE $id CONTENT $data", map[string]any{
		"id":   matchRecordID(matchID),
		"data": match,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("create match: %w", err)
	}
	return matchID, nil
}

// MarkInProgress moves a pending match to in_progress. Re-marking is a no-op
// and a finished match is never reopened.
func (s *SurrealMatchStore) MarkInProgress(ctx context.Context, matchID uuid.UUID) error {
	query := "UPDATE $id SET status = $status WHERE status != $finished"
	err := database.Execute(ctx, s.db, query, map[string]any{
		"id":       matchRecordID(matchID),
		"status":   models.MatchInProgress,
		"finished": models.MatchFinished,
	})
	if err != nil {
		return fmt.Errorf("mark match in progress: %w", err)
	}
	return nil
}

// MarkFinished records the terminal outcome. The WHERE guard makes the write
// first-wins, so a duplicate completion cannot overwrite the result.
func (s *SurrealMatchStore) MarkFinished(ctx context.Context, matchID uuid.UUID, winner *uuid.UUID, deltaA, deltaB int) error {
	var winnerStr *string
	if winner != nil {
		w := winner.String()
		winnerStr = &w
	}
	query := `UPDATE $id SET
		status = $status,
		winner = $winner,
		delta_a = $delta_a,
		delta_b = $delta_b,
		finished_at = time::now()
	WHERE status != $status`
	err := database.Execute(ctx, s.db, query, map[string]any{
		"id":      matchRecordID(matchID),
		"status":  models.MatchFinished,
		"winner":  winnerStr,
		"delta_a": deltaA,
		"delta_b": deltaB,
	})
	if err != nil {
		return fmt.Errorf("mark match finished: %w", err)
	}
	return nil
}

// Match fetches a single match record. A match that was never created
// returns domain.ErrNotFound.
func (s *SurrealMatchStore) Match(ctx context.Context, matchID uuid.UUID) (*models.Match, error) {
	match, err := database.QueryOne[models.Match](ctx, s.db, "SELECT * FROM $id", map[string]any{
		"id": matchRecordID(matchID),
	})
	if err != nil {
		return nil, fmt.Errorf("fetch match: %w", err)
	}
	if match == nil {
		return nil, fmt.Errorf("fetch match %s: %w", matchID, domain.ErrNotFound)
	}
	return match, nil
}
