package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEloDrawEqualRatings(t *testing.T) {
	deltaA, deltaB := EloDelta(1500, 1500, OutcomeDraw, DefaultKFactor)
	assert.Equal(t, 0, deltaA)
	assert.Equal(t, 0, deltaB)
}

func TestEloDecisiveZeroSum(t *testing.T) {
	cases := []struct {
		name             string
		ratingA, ratingB int
		outcome          Outcome
	}{
		{"equal ratings, A wins", 1500, 1500, OutcomeWinA},
		{"underdog A wins", 1400, 1600, OutcomeWinA},
		{"favorite B wins", 1200, 1800, OutcomeWinB},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deltaA, deltaB := EloDelta(tc.ratingA, tc.ratingB, tc.outcome, DefaultKFactor)
			assert.Equal(t, -deltaB, deltaA, "decisive outcomes are zero-sum")
			assert.NotZero(t, deltaA)
		})
	}
}

func TestEloUnderdogWin(t *testing.T) {
	deltaA, deltaB := EloDelta(1400, 1600, OutcomeWinA, DefaultKFactor)
	assert.Positive(t, deltaA, "winner gains rating")
	assert.Negative(t, deltaB)
	assert.Equal(t, -deltaB, deltaA)
	// E_A = 1/(1+10^0.5) ≈ 0.24, so the underdog gains about three quarters
	// of the K-factor.
	assert.Equal(t, 24, deltaA)
}

func TestEloDrawBetweenUnequalRatings(t *testing.T) {
	deltaA, deltaB := EloDelta(1400, 1600, OutcomeDraw, DefaultKFactor)
	assert.Positive(t, deltaA, "lower-rated player gains on a draw")
	assert.Negative(t, deltaB)
	assert.Equal(t, -deltaB, deltaA)
}
