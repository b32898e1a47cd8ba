package game

import (
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/genewar/internal/domain"
)

// PendingTurn is one player's submitted-but-unresolved action batch.
type PendingTurn struct {
	Turn    int             `json:"turn"`
	Actions []domain.Action `json:"actions"`
}

// Snapshot is the serialized form of a live match, written to the snapshot
// store after every resolved turn and deleted when the match finishes. A
// coordinator spawned for a match id with an existing snapshot resumes from
// it verbatim; no action replay is needed because the snapshot already
// reflects every resolved turn.
//
// Disconnect timestamps are deliberately not persisted: the snapshot's TTL
// equals the grace duration, so a match whose players never return simply
// ages out of the store.
type Snapshot struct {
	Turn int `json:"turn"`

	PlayerA *uuid.UUID `json:"player_a"`
	PlayerB *uuid.UUID `json:"player_b"`
	ReadyA  bool       `json:"ready_a"`
	ReadyB  bool       `json:"ready_b"`

	PoolA  domain.ResourcePool `json:"pool_a"`
	PoolB  domain.ResourcePool `json:"pool_b"`
	UnitsA []domain.Unit       `json:"units_a"`
	UnitsB []domain.Unit       `json:"units_b"`

	PendingA *PendingTurn `json:"pending_a,omitempty"`
	PendingB *PendingTurn `json:"pending_b,omitempty"`

	LastOutcome *domain.ServerMsg `json:"last_outcome,omitempty"`
}

// matchState is the in-memory state owned exclusively by one coordinator.
type matchState struct {
	Turn int

	PlayerA *uuid.UUID
	PlayerB *uuid.UUID
	ReadyA  bool
	ReadyB  bool

	dcSinceA *time.Time
	dcSinceB *time.Time

	PoolA  domain.ResourcePool
	PoolB  domain.ResourcePool
	UnitsA []domain.Unit
	UnitsB []domain.Unit

	PendingA *PendingTurn
	PendingB *PendingTurn

	LastOutcome *domain.ServerMsg
}

func newMatchState() *matchState {
	return &matchState{
		PoolA:  domain.StartingPool(),
		PoolB:  domain.StartingPool(),
		UnitsA: []domain.Unit{},
		UnitsB: []domain.Unit{},
	}
}

func (st *matchState) isPlayerA(id uuid.UUID) bool {
	return st.PlayerA != nil && *st.PlayerA == id
}

func (st *matchState) isPlayerB(id uuid.UUID) bool {
	return st.PlayerB != nil && *st.PlayerB == id
}

func (st *matchState) snapshot() Snapshot {
	return Snapshot{
		Turn:        st.Turn,
		PlayerA:     st.PlayerA,
		PlayerB:     st.PlayerB,
		ReadyA:      st.ReadyA,
		ReadyB:      st.ReadyB,
		PoolA:       st.PoolA,
		PoolB:       st.PoolB,
		UnitsA:      st.UnitsA,
		UnitsB:      st.UnitsB,
		PendingA:    st.PendingA,
		PendingB:    st.PendingB,
		LastOutcome: st.LastOutcome,
	}
}

// apply loads every snapshotted field back into the state.
func (s *Snapshot) apply(st *matchState) {
	st.Turn = s.Turn
	st.PlayerA = s.PlayerA
	st.PlayerB = s.PlayerB
	st.ReadyA = s.ReadyA
	st.ReadyB = s.ReadyB
	st.PoolA = s.PoolA
	st.PoolB = s.PoolB
	st.UnitsA = s.UnitsA
	st.UnitsB = s.UnitsB
	if st.UnitsA == nil {
		st.UnitsA = []domain.Unit{}
	}
	if st.UnitsB == nil {
		st.UnitsB = []domain.Unit{}
	}
	st.PendingA = s.PendingA
	st.PendingB = s.PendingB
	st.LastOutcome = s.LastOutcome
}
