package game

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpawnPolicySpawn(t *testing.T) {
	policy := DefaultSpawnPolicy()
	rng := rand.New(rand.NewPCG(1, 1))

	t.Run("filling the only empty cell", func(t *testing.T) {
		b := noPairs.Place(5, 0)

		got, ok := policy.Spawn(b, rng)

		require.True(t, ok, "Should spawn when a cell is empty")
		require.NotZero(t, got[5], "Should fill the empty cell")
		for i := range b {
			if i != 5 {
				require.Equal(t, b[i], got[i], "Should not touch occupied cell %d", i)
			}
		}
	})

	t.Run("full board does not spawn", func(t *testing.T) {
		got, ok := policy.Spawn(noPairs, rng)

		require.False(t, ok, "Should report that no tile was spawned")
		require.Equal(t, noPairs, got, "Board should not change")
	})

	t.Run("never selecting an occupied cell", func(t *testing.T) {
		b := NewBoard([Size][Size]uint8{{1, 2, 3, 4}, {0, 0, 0, 0}, {5, 6, 7, 8}})
		for i := 0; i < 1000; i++ {
			got, ok := policy.Spawn(b, rng)
			require.True(t, ok)
			require.Equal(t, b.CountEmpty()-1, got.CountEmpty(), "Exactly one empty cell should be filled")
			for cell, e := range b {
				if e != 0 {
					require.Equal(t, e, got[cell], "Occupied cell %d changed", cell)
				}
			}
		}
	})

	t.Run("empirical ratio converges to the weights", func(t *testing.T) {
		const trials = 20000
		counts := map[uint8]int{}
		var empty Board
		for i := 0; i < trials; i++ {
			got, _ := policy.Spawn(empty, rng)
			e, _ := got.MaxTile()
			counts[e]++
		}

		require.Equal(t, trials, counts[1]+counts[2], "Only 2s and 4s should spawn")
		require.InDelta(t, 0.9, float64(counts[1])/trials, 0.015, "About nine in ten spawns should be 2s")
	})

	t.Run("zero policy falls back to the default weights", func(t *testing.T) {
		var zero SpawnPolicy
		var empty Board

		got, ok := zero.Spawn(empty, rng)

		require.True(t, ok)
		require.Equal(t, 15, got.CountEmpty())
		require.Len(t, zero.Outcomes(), 2)
	})
}

func TestSpawnPolicyOutcomes(t *testing.T) {
	t.Run("normalizing probabilities", func(t *testing.T) {
		policy, err := NewSpawnPolicy([]SpawnWeight{{Exponent: 1, Weight: 3}, {Exponent: 2, Weight: 1}})
		require.NoError(t, err)

		outcomes := policy.Outcomes()

		require.Equal(t, []Outcome{{Exponent: 1, Probability: 0.75}, {Exponent: 2, Probability: 0.25}}, outcomes)
	})
}

func TestNewSpawnPolicy(t *testing.T) {
	cases := []struct {
		name    string
		weights []SpawnWeight
	}{
		{"empty weights", nil},
		{"zero exponent", []SpawnWeight{{Exponent: 0, Weight: 1}}},
		{"negative weight", []SpawnWeight{{Exponent: 1, Weight: -1}}},
		{"zero weight", []SpawnWeight{{Exponent: 1, Weight: 0}}},
		{"infinite weight", []SpawnWeight{{Exponent: 1, Weight: math.Inf(1)}}},
		{"NaN weight", []SpawnWeight{{Exponent: 1, Weight: math.NaN()}}},
	}
	for _, tc := range cases {
		t.Run("rejecting "+tc.name, func(t *testing.T) {
			_, err := NewSpawnPolicy(tc.weights)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
