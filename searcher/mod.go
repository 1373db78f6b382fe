package searcher

import (
	"errors"

	"ai2048/experiments/metrics"
	"ai2048/game"
	"ai2048/utils"
)

var (
	// ErrNoLegalMove is returned when a searcher is asked to move on a terminal board.
	ErrNoLegalMove   = errors.New("no legal move")
	ErrInvalidConfig = errors.New("invalid searcher config")
)

// Decision is the move a searcher picked plus diagnostics. Searchers only
// simulate on copies of the board; applying Move is left to the caller.
type Decision struct {
	Move   game.Move
	Score  float64               // Value of the chosen branch
	Scores map[game.Move]float64 // Value of every legal move that was searched
	Nodes  int
	Depth  int
	Metric metrics.SearchMetric
}

func newCollector(config Config) metrics.Collector {
	if config.Metrics {
		return metrics.NewCollector()
	}
	return metrics.NewDummyCollector()
}

// decide picks the best of the legal moves, which are in priority order, so the
// first maximum wins ties.
func decide(moves []game.Move, scores []float64) Decision {
	best := utils.ArgMax(indices(len(moves)), func(i int) float64 { return scores[i] })
	all := make(map[game.Move]float64, len(moves))
	for i, m := range moves {
		all[m] = scores[i]
	}
	return Decision{Move: moves[best], Score: scores[best], Scores: all}
}

func indices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
