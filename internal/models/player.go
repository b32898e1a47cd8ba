package models

import (
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// Player represents a player's persistent rating record.
type Player struct {
	ID     *models.RecordID `json:"id,omitempty"`
	Rating int              `json:"rating"`
}
