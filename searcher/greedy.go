package searcher

import (
	"context"

	"ai2048/experiments/metrics"
	"ai2048/game"
)

// Greedy scores the board right after each legal move and keeps the best one.
type Greedy struct {
	evaluate game.Evaluate
	metrics  metrics.Collector
}

func NewGreedy(options ...Option) (*Greedy, error) {
	config, err := NewConfig(options...)
	if err != nil {
		return nil, err
	}
	heuristic, err := game.NewHeuristic(config.Weights)
	if err != nil {
		return nil, err
	}
	return &Greedy{evaluate: heuristic.Evaluate(), metrics: newCollector(config)}, nil
}

func (g *Greedy) FindMove(ctx context.Context, board game.Board, _ game.SpawnPolicy) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}
	moves := board.LegalMoves()
	if len(moves) == 0 {
		return Decision{}, ErrNoLegalMove
	}
	g.metrics.Start("greedy", 1)

	scores := make([]float64, len(moves))
	for i, m := range moves {
		after, _, _ := board.Apply(m)
		scores[i] = g.evaluate(after)
	}

	g.metrics.SetDepth(1)
	g.metrics.AddNodes(len(moves))
	d := decide(moves, scores)
	d.Nodes = len(moves)
	d.Depth = 1
	d.Metric = g.metrics.Complete()
	return d, nil
}
