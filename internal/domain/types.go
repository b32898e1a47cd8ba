package domain

import (
	"github.com/google/uuid"
)

// Archetype is one of the four fixed unit templates. The template determines
// a unit's spawn cost, attack power and starting hit-points.
type Archetype string

const (
	ArchetypeLight  Archetype = "light"
	ArchetypeRanged Archetype = "ranged"
	ArchetypeHeavy  Archetype = "heavy"
	ArchetypeSeeder Archetype = "seeder"
)

// Cost describes the resources debited from a player's pool when a unit of
// this archetype is spawned.
type Cost struct {
	Energy    int
	Biomass   int
	GeneSeeds int
}

// Stats describes an archetype's combat profile.
type Stats struct {
	Attack int
	HP     int
}

// Cost returns the fixed spawn cost of the archetype. Unknown archetypes
// cost nothing and spawn nothing useful; callers validate upstream.
func (a Archetype) Cost() Cost {
	switch a {
	case ArchetypeLight:
		return Cost{Energy: 1}
	case ArchetypeRanged:
		return Cost{Energy: 2, Biomass: 1}
	case ArchetypeHeavy:
		return Cost{Biomass: 3}
	case ArchetypeSeeder:
		return Cost{Energy: 1, GeneSeeds: 1}
	}
	return Cost{}
}

// Stats returns the fixed attack/starting-hp pair of the archetype.
func (a Archetype) Stats() Stats {
	switch a {
	case ArchetypeLight:
		return Stats{Attack: 1, HP: 1}
	case ArchetypeRanged:
		return Stats{Attack: 2, HP: 1}
	case ArchetypeHeavy:
		return Stats{Attack: 3, HP: 3}
	case ArchetypeSeeder:
		return Stats{Attack: 0, HP: 2}
	}
	return Stats{}
}

// ResourcePool tracks one player's spendable resources. Values never go
// negative: a spawn is either paid in full or not at all.
type ResourcePool struct {
	Energy    int `json:"energy"`
	Biomass   int `json:"biomass"`
	GeneSeeds int `json:"gene_seeds"`
}

// StartingPool is the allotment every player receives at match start and
// after a snapshot-less restore.
func StartingPool() ResourcePool {
	return ResourcePool{Energy: 5, Biomass: 5, GeneSeeds: 2}
}

// CanPay reports whether the pool covers the given cost.
func (p ResourcePool) CanPay(c Cost) bool {
	return p.Energy >= c.Energy && p.Biomass >= c.Biomass && p.GeneSeeds >= c.GeneSeeds
}

// Pay debits the cost from the pool. Callers must check CanPay first.
func (p *ResourcePool) Pay(c Cost) {
	p.Energy -= c.Energy
	p.Biomass -= c.Biomass
	p.GeneSeeds -= c.GeneSeeds
}

// Unit is one unit on the battlefield. HP only ever decreases after spawn;
// the unit is removed exactly once when HP reaches zero or below.
type Unit struct {
	ID        uuid.UUID `json:"id"`
	Archetype Archetype `json:"archetype"`
	OwnerID   uuid.UUID `json:"owner_id"`
	HP        int       `json:"hp"`
}

// ActionType discriminates the Action union.
type ActionType string

const (
	ActionPlayUnit ActionType = "play_unit"
	ActionAttack   ActionType = "attack"
	ActionPass     ActionType = "pass"
)

// Action is a single player intent for one turn. Players submit actions in
// batches; a batch may mix spawns, attacks and passes.
type Action struct {
	Type ActionType `json:"type"`

	// Unit is set for play_unit actions. The server overwrites its HP with
	// the archetype's starting value on spawn.
	Unit *Unit `json:"unit,omitempty"`

	// AttackerID/DefenderID are set for attack actions.
	AttackerID uuid.UUID `json:"attacker_id,omitempty"`
	DefenderID uuid.UUID `json:"defender_id,omitempty"`
}

// TurnOutcome is the immutable result of resolving one turn. It is broadcast
// to both players and retained as the last result for resume replay.
type TurnOutcome struct {
	Applied   []Action    `json:"applied"`
	Spawned   []Unit      `json:"spawned"`
	Destroyed []uuid.UUID `json:"destroyed"`
}
