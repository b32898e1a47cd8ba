package game

import "math"

// DefaultKFactor is the Elo K-factor applied to every finished match.
const DefaultKFactor = 32.0

// Outcome flags the terminal result of a match for rating purposes.
type Outcome int

const (
	OutcomeDraw Outcome = iota
	OutcomeWinA
	OutcomeWinB
)

// EloDelta computes the rating adjustments for both players using the
// standard logistic expectation. Deltas are rounded to the nearest integer;
// the storage layer floors the resulting ratings at zero.
func EloDelta(ratingA, ratingB int, outcome Outcome, k float64) (deltaA, deltaB int) {
	expectedA := 1.0 / (1.0 + math.Pow(10, float64(ratingB-ratingA)/400.0))
	expectedB := 1.0 - expectedA

	var scoreA, scoreB float64
	switch outcome {
	case OutcomeWinA:
		scoreA, scoreB = 1, 0
	case OutcomeWinB:
		scoreA, scoreB = 0, 1
	default:
		scoreA, scoreB = 0.5, 0.5
	}

	deltaA = int(math.Round(k * (scoreA - expectedA)))
	deltaB = int(math.Round(k * (scoreB - expectedB)))
	return deltaA, deltaB
}
