package searcher

import (
	"context"
	"math/rand/v2"
	"sync"

	"ai2048/experiments/metrics"
	"ai2048/game"
)

// Random picks uniformly among the legal moves.
type Random struct {
	mu      sync.Mutex
	rng     *rand.Rand
	metrics metrics.Collector
}

func NewRandom(options ...Option) (*Random, error) {
	config, err := NewConfig(options...)
	if err != nil {
		return nil, err
	}
	return &Random{
		rng:     rand.New(rand.NewPCG(config.Seed, config.Seed)),
		metrics: newCollector(config),
	}, nil
}

func (r *Random) FindMove(ctx context.Context, board game.Board, _ game.SpawnPolicy) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}
	moves := board.LegalMoves()
	if len(moves) == 0 {
		return Decision{}, ErrNoLegalMove
	}
	r.metrics.Start("random", 1)

	r.mu.Lock()
	move := moves[r.rng.IntN(len(moves))]
	r.mu.Unlock()

	r.metrics.AddNodes(1)
	return Decision{Move: move, Nodes: 1, Metric: r.metrics.Complete()}, nil
}
