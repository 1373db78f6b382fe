package utils

import "golang.org/x/exp/constraints"

type Number interface {
	constraints.Integer | constraints.Float
}

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// ArgMax returns the index of the first item with the highest score, or -1 for
// an empty slice. Earlier items win ties.
func ArgMax[T any, S constraints.Ordered](items []T, score func(T) S) int {
	best := -1
	var bestScore S
	for i, item := range items {
		s := score(item)
		if best < 0 || s > bestScore {
			best, bestScore = i, s
		}
	}
	return best
}

// Sum adds values in slice order, so float sums are reproducible.
func Sum[N Number](values []N) N {
	var total N
	for _, v := range values {
		total += v
	}
	return total
}

func Mean[N Number](values []N) float64 {
	if len(values) == 0 {
		return 0
	}
	return float64(Sum(values)) / float64(len(values))
}
