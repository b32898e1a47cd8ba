package game

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
	"github.com/nfrund/genewar/internal/domain"
)

// Resolve applies both players' action batches for one turn against the
// current battle state, mutating the pools and rosters in place, and returns
// the outcome. It performs no I/O and is fully deterministic: identical
// inputs always yield an identical outcome and identical resulting state.
//
// Order of application:
//  1. Spawns, side A then side B, in submission order within a side.
//     Unaffordable spawns are dropped silently.
//  2. Attacks from both sides, merged and sorted by attacker id so that
//     simultaneous attacks resolve in a total order independent of arrival.
//  3. Pass actions, recorded as applied with no side effects.
//
// The caller is responsible for advancing the turn counter and persisting
// the resulting state.
func Resolve(
	actionsA, actionsB []domain.Action,
	poolA, poolB *domain.ResourcePool,
	unitsA, unitsB *[]domain.Unit,
) domain.TurnOutcome {
	outcome := domain.TurnOutcome{
		Applied:   []domain.Action{},
		Spawned:   []domain.Unit{},
		Destroyed: []uuid.UUID{},
	}

	spawnUnits(actionsA, poolA, unitsA, &outcome)
	spawnUnits(actionsB, poolB, unitsB, &outcome)

	applyAttacks(actionsA, actionsB, unitsA, unitsB, &outcome)

	recordPasses(actionsA, &outcome)
	recordPasses(actionsB, &outcome)

	return outcome
}

// spawnUnits runs the spawn pass for one side. A spawn that the pool cannot
// cover is skipped entirely: not applied, not reported, pool untouched.
func spawnUnits(actions []domain.Action, pool *domain.ResourcePool, roster *[]domain.Unit, out *domain.TurnOutcome) {
	for _, a := range actions {
		if a.Type != domain.ActionPlayUnit || a.Unit == nil {
			continue
		}
		cost := a.Unit.Archetype.Cost()
		if !pool.CanPay(cost) {
			continue
		}
		pool.Pay(cost)

		u := *a.Unit
		u.HP = u.Archetype.Stats().HP
		*roster = append(*roster, u)

		out.Spawned = append(out.Spawned, u)
		out.Applied = append(out.Applied, a)
	}
}

// applyAttacks collects every attack from both sides, fixes a deterministic
// order by attacker id, and applies them sequentially against the live
// rosters. An attacker destroyed earlier in the same pass is simply not
// found, and its queued attack is skipped.
func applyAttacks(actionsA, actionsB []domain.Action, unitsA, unitsB *[]domain.Unit, out *domain.TurnOutcome) {
	attacks := make([]domain.Action, 0, len(actionsA)+len(actionsB))
	for _, a := range actionsA {
		if a.Type == domain.ActionAttack {
			attacks = append(attacks, a)
		}
	}
	for _, a := range actionsB {
		if a.Type == domain.ActionAttack {
			attacks = append(attacks, a)
		}
	}
	sort.SliceStable(attacks, func(i, j int) bool {
		return bytes.Compare(attacks[i].AttackerID[:], attacks[j].AttackerID[:]) < 0
	})

	for _, a := range attacks {
		if attacker := findUnit(*unitsA, a.AttackerID); attacker != nil {
			// Attacker fights for side A; the defender must be on side B.
			if hit(attacker.Archetype.Stats().Attack, a.DefenderID, unitsB, out) {
				out.Applied = append(out.Applied, a)
			}
		} else if attacker := findUnit(*unitsB, a.AttackerID); attacker != nil {
			if hit(attacker.Archetype.Stats().Attack, a.DefenderID, unitsA, out) {
				out.Applied = append(out.Applied, a)
			}
		}
	}
}

// hit applies power to the defender on the given roster. Lethal damage
// removes the defender and records it as destroyed; otherwise hit-points are
// reduced. Returns false when the defender is not on the roster.
func hit(power int, defenderID uuid.UUID, roster *[]domain.Unit, out *domain.TurnOutcome) bool {
	idx := -1
	for i := range *roster {
		if (*roster)[i].ID == defenderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	defender := &(*roster)[idx]
	if power >= defender.HP {
		out.Destroyed = append(out.Destroyed, defender.ID)
		*roster = append((*roster)[:idx], (*roster)[idx+1:]...)
	} else {
		defender.HP -= power
	}
	return true
}

func recordPasses(actions []domain.Action, out *domain.TurnOutcome) {
	for _, a := range actions {
		if a.Type == domain.ActionPass {
			out.Applied = append(out.Applied, a)
		}
	}
}

func findUnit(roster []domain.Unit, id uuid.UUID) *domain.Unit {
	for i := range roster {
		if roster[i].ID == id {
			return &roster[i]
		}
	}
	return nil
}
