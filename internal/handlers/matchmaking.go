package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nfrund/genewar/internal/domain"
)

// QueueService is the slice of the matchmaking queue the HTTP layer needs.
type QueueService interface {
	Join(ctx context.Context, playerID uuid.UUID, rating int) error
	Leave(ctx context.Context, playerID uuid.UUID) error
	Waiting(ctx context.Context) (int64, error)
}

// MatchmakingHandler exposes the matchmaking queue over HTTP. Joining looks
// up the player's current rating so the queue orders by skill.
type MatchmakingHandler struct {
	queue   QueueService
	ratings domain.RatingLedger
}

// NewMatchmakingHandler creates a new matchmaking handler.
func NewMatchmakingHandler(queue QueueService, ratings domain.RatingLedger) *MatchmakingHandler {
	return &MatchmakingHandler{queue: queue, ratings: ratings}
}

// Join enqueues a player for matchmaking.
func (h *MatchmakingHandler) Join(c echo.Context) error {
	var req JoinQueueRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "bad_request", Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "validation_failed", Message: err.Error()})
	}

	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "bad_player_id", Message: "player_id must be a UUID"})
	}

	ctx := c.Request().Context()
	rating, err := h.ratings.Rating(ctx, playerID)
	if err != nil {
		c.Logger().Error("could not look up rating", "player_id", playerID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "rating_unavailable", Message: "could not look up rating"})
	}

	if err := h.queue.Join(ctx, playerID, rating); err != nil {
		c.Logger().Error("could not join queue", "player_id", playerID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "queue_unavailable", Message: "could not join queue"})
	}

	return c.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
}

// Leave removes a player from the matchmaking queue.
func (h *MatchmakingHandler) Leave(c echo.Context) error {
	var req LeaveQueueRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "bad_request", Message: "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "validation_failed", Message: err.Error()})
	}

	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "bad_player_id", Message: "player_id must be a UUID"})
	}

	if err := h.queue.Leave(c.Request().Context(), playerID); err != nil {
		c.Logger().Error("could not leave queue", "player_id", playerID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "queue_unavailable", Message: "could not leave queue"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "left"})
}

// Status reports the current queue depth.
func (h *MatchmakingHandler) Status(c echo.Context) error {
	waiting, err := h.queue.Waiting(c.Request().Context())
	if err != nil {
		c.Logger().Error("could not read queue size", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Code: "queue_unavailable", Message: "could not read queue size"})
	}
	return c.JSON(http.StatusOK, QueueStatusResponse{Waiting: waiting})
}
