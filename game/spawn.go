package game

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// SpawnWeight is the relative weight of spawning a tile with the given exponent.
type SpawnWeight struct {
	Exponent uint8
	Weight   float64
}

// SpawnPolicy picks a uniformly random empty cell and fills it with an exponent
// drawn from its weights.
type SpawnPolicy struct {
	weights []SpawnWeight
	total   float64
}

// Outcome is one possible spawn result with its probability given the cell was chosen.
type Outcome struct {
	Exponent    uint8
	Probability float64
}

// DefaultSpawnPolicy spawns a 2 with probability 0.9 and a 4 with probability 0.1.
func DefaultSpawnPolicy() SpawnPolicy {
	policy, _ := NewSpawnPolicy(DefaultSpawnWeights())
	return policy
}

func DefaultSpawnWeights() []SpawnWeight {
	return []SpawnWeight{{Exponent: 1, Weight: 0.9}, {Exponent: 2, Weight: 0.1}}
}

func NewSpawnPolicy(weights []SpawnWeight) (SpawnPolicy, error) {
	if len(weights) == 0 {
		return SpawnPolicy{}, fmt.Errorf("%w: spawn weights are empty", ErrInvalidConfig)
	}
	total := 0.0
	for _, w := range weights {
		if w.Exponent < 1 {
			return SpawnPolicy{}, fmt.Errorf("%w: spawn exponent %d must be at least 1", ErrInvalidConfig, w.Exponent)
		}
		if w.Weight <= 0 || math.IsNaN(w.Weight) || math.IsInf(w.Weight, 0) {
			return SpawnPolicy{}, fmt.Errorf("%w: spawn weight %v for exponent %d must be positive and finite", ErrInvalidConfig, w.Weight, w.Exponent)
		}
		total += w.Weight
	}
	copied := make([]SpawnWeight, len(weights))
	copy(copied, weights)
	return SpawnPolicy{weights: copied, total: total}, nil
}

// OrDefault returns the default policy in place of a zero SpawnPolicy.
func (p SpawnPolicy) OrDefault() SpawnPolicy {
	if len(p.weights) == 0 {
		return DefaultSpawnPolicy()
	}
	return p
}

// Outcomes lists the spawnable exponents with normalized probabilities.
func (p SpawnPolicy) Outcomes() []Outcome {
	p = p.OrDefault()
	outcomes := make([]Outcome, len(p.weights))
	for i, w := range p.weights {
		outcomes[i] = Outcome{Exponent: w.Exponent, Probability: w.Weight / p.total}
	}
	return outcomes
}

// Spawn places one tile on a random empty cell. It returns false, leaving the
// board untouched, when there is no empty cell.
func (p SpawnPolicy) Spawn(b Board, rng *rand.Rand) (Board, bool) {
	empty := b.EmptyCells()
	if len(empty) == 0 {
		return b, false
	}
	cell := empty[rng.IntN(len(empty))]
	return b.Place(cell, p.OrDefault().draw(rng)), true
}

func (p SpawnPolicy) draw(rng *rand.Rand) uint8 {
	sampled := rng.Float64() * p.total
	cumulative := 0.0
	for _, w := range p.weights {
		cumulative += w.Weight
		if sampled < cumulative {
			return w.Exponent
		}
	}
	return p.weights[len(p.weights)-1].Exponent // Fallback in case of rounding errors
}
