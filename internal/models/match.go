package models

import (
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// MatchStatus is the lifecycle state of a match record.
type MatchStatus string

const (
	MatchPending    MatchStatus = "pending"
	MatchInProgress MatchStatus = "in_progress"
	MatchFinished   MatchStatus = "finished"
)

// Match represents a match record in the database. Winner and the rating
// deltas are only present once the match has finished; a nil winner on a
// finished match means a draw.
type Match struct {
	ID         *models.RecordID `json:"id,omitempty"`
	PlayerA    string           `json:"player_a"`
	PlayerB    string           `json:"player_b"`
	Status     MatchStatus      `json:"status"`
	Winner     *string          `json:"winner,omitempty"`
	DeltaA     *int             `json:"delta_a,omitempty"`
	DeltaB     *int             `json:"delta_b,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
}
