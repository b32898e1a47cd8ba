package pubsub

import "github.com/google/uuid"

// PlayerTopic returns the per-player event channel name. Every event the
// backend emits is addressed to exactly one player; the transport layer
// subscribes to this topic for each connected client.
func PlayerTopic(playerID uuid.UUID) string {
	return "player." + playerID.String() + ".events"
}
