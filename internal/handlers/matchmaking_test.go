package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	joined  map[uuid.UUID]int
	left    map[uuid.UUID]bool
	waiting int64
	failErr error
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{joined: map[uuid.UUID]int{}, left: map[uuid.UUID]bool{}}
}

func (f *fakeQueue) Join(ctx context.Context, playerID uuid.UUID, rating int) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.joined[playerID] = rating
	return nil
}

func (f *fakeQueue) Leave(ctx context.Context, playerID uuid.UUID) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.left[playerID] = true
	return nil
}

func (f *fakeQueue) Waiting(ctx context.Context) (int64, error) {
	return f.waiting, f.failErr
}

type fakeLedger struct {
	ratings map[uuid.UUID]int
}

func (f *fakeLedger) Rating(ctx context.Context, playerID uuid.UUID) (int, error) {
	if r, ok := f.ratings[playerID]; ok {
		return r, nil
	}
	return 1500, nil
}

func (f *fakeLedger) ApplyDelta(ctx context.Context, playerID uuid.UUID, delta int) (int, error) {
	return 0, errors.New("not used")
}

func doRequest(t *testing.T, handler echo.HandlerFunc, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler(c))
	return rec
}

func TestJoinQueuesPlayerWithItsRating(t *testing.T) {
	queue := newFakeQueue()
	playerID := uuid.New()
	ledger := &fakeLedger{ratings: map[uuid.UUID]int{playerID: 1742}}
	h := NewMatchmakingHandler(queue, ledger)

	rec := doRequest(t, h.Join, http.MethodPost, "/api/queue/join", `{"player_id":"`+playerID.String()+`"}`)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1742, queue.joined[playerID])
}

func TestJoinRejectsMissingPlayerID(t *testing.T) {
	h := NewMatchmakingHandler(newFakeQueue(), &fakeLedger{})

	rec := doRequest(t, h.Join, http.MethodPost, "/api/queue/join", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_failed")
}

func TestJoinRejectsMalformedBody(t *testing.T) {
	h := NewMatchmakingHandler(newFakeQueue(), &fakeLedger{})

	rec := doRequest(t, h.Join, http.MethodPost, "/api/queue/join", `{"player_id":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJoinReportsQueueFailure(t *testing.T) {
	queue := newFakeQueue()
	queue.failErr = errors.New("redis down")
	h := NewMatchmakingHandler(queue, &fakeLedger{})

	rec := doRequest(t, h.Join, http.MethodPost, "/api/queue/join", `{"player_id":"`+uuid.NewString()+`"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "queue_unavailable")
}

func TestLeaveRemovesPlayer(t *testing.T) {
	queue := newFakeQueue()
	playerID := uuid.New()
	h := NewMatchmakingHandler(queue, &fakeLedger{})

	rec := doRequest(t, h.Leave, http.MethodPost, "/api/queue/leave", `{"player_id":"`+playerID.String()+`"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, queue.left[playerID])
}

func TestStatusReportsQueueDepth(t *testing.T) {
	queue := newFakeQueue()
	queue.waiting = 7
	h := NewMatchmakingHandler(queue, &fakeLedger{})

	rec := doRequest(t, h.Status, http.MethodGet, "/api/queue", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"waiting":7}`, rec.Body.String())
}

func TestHealthCheck(t *testing.T) {
	rec := doRequest(t, HealthCheck, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
