package searcher

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"ai2048/experiments/metrics"
	"ai2048/game"
	"ai2048/utils"
)

// MonteCarlo plays random games after each legal move and picks the move with
// the best average outcome.
type MonteCarlo struct {
	config   Config
	evaluate game.Evaluate
	metrics  metrics.Collector
	calls    atomic.Uint64
}

func NewMonteCarlo(options ...Option) (*MonteCarlo, error) {
	config, err := NewConfig(options...)
	if err != nil {
		return nil, err
	}
	heuristic, err := game.NewHeuristic(config.Weights)
	if err != nil {
		return nil, err
	}
	return &MonteCarlo{config: config, evaluate: heuristic.Evaluate(), metrics: newCollector(config)}, nil
}

func (mc *MonteCarlo) Config() Config {
	return mc.config
}

type playout struct {
	move    int
	rollout int
}

type result struct {
	value float64
	moves int
	done  bool
}

func (mc *MonteCarlo) FindMove(ctx context.Context, board game.Board, spawn game.SpawnPolicy) (Decision, error) {
	moves := board.LegalMoves()
	if len(moves) == 0 {
		return Decision{}, ErrNoLegalMove
	}
	spawn = spawn.OrDefault()
	call := mc.calls.Add(1)
	mc.metrics.Start("montecarlo", mc.config.Goroutines)

	searchCtx := ctx
	if mc.config.Duration > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, mc.config.Duration)
		defer cancel()
	}

	results := make([][]result, len(moves))
	for i := range results {
		results[i] = make([]result, mc.config.Rollouts)
	}
	// The first rollout of every move ignores the time budget, so each move
	// has an average to compare.
	mc.iterate(ctx, board, moves, spawn, call, results, 0, 1)
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}
	mc.iterate(searchCtx, board, moves, spawn, call, results, 1, mc.config.Rollouts)
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}

	var searched []game.Move
	var scores []float64
	nodes := 0
	for i, m := range moves {
		values := make([]float64, 0, len(results[i]))
		for _, r := range results[i] {
			if r.done {
				values = append(values, r.value)
				nodes += r.moves
			}
		}
		if len(values) == 0 {
			continue
		}
		searched = append(searched, m)
		scores = append(scores, utils.Mean(values))
	}

	d := decide(searched, scores)
	d.Nodes = nodes
	d.Metric = mc.metrics.Complete()
	return d, nil
}

// iterate runs rollouts [from, to) of every move on a fixed pool of goroutines.
// Playouts are handed out rollout by rollout across the moves, so a budget
// that runs out leaves every move with a similar number of samples. Each
// playout owns a generator derived from (seed, call, move, rollout), so the
// outcome does not depend on which goroutine runs it.
func (mc *MonteCarlo) iterate(ctx context.Context, board game.Board, moves []game.Move, spawn game.SpawnPolicy, call uint64, results [][]result, from, to int) {
	task := make(chan playout, mc.config.Goroutines)
	go func() {
		defer close(task)
		for j := from; j < to; j++ {
			for i := range moves {
				select {
				case task <- playout{move: i, rollout: j}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < mc.config.Goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for p := range task {
				if ctx.Err() != nil {
					continue // Drain without playing
				}
				move := moves[p.move]
				rng := rand.New(rand.NewPCG(mc.config.Seed^call, uint64(move)<<32|uint64(p.rollout)))
				results[p.move][p.rollout] = mc.rollout(board, move, spawn, rng)
				mc.metrics.AddRollout()
			}
		}()
	}

	wg.Wait()
}

// rollout plays the candidate move, then random legal moves with spawns until
// the horizon or a terminal board.
func (mc *MonteCarlo) rollout(board game.Board, move game.Move, spawn game.SpawnPolicy, rng *rand.Rand) result {
	board, score, _ := board.Apply(move)
	board, _ = spawn.Spawn(board, rng)
	depth := 1

	moves := board.LegalMoves()
	for len(moves) > 0 && depth < mc.config.Horizon {
		var gained int
		board, gained, _ = board.Apply(moves[rng.IntN(len(moves))]) // Random rollout policy
		board, _ = spawn.Spawn(board, rng)
		score += gained
		moves = board.LegalMoves()
		depth++
	}
	if len(moves) == 0 {
		mc.metrics.AddFullPlayout()
	}

	var value float64
	switch mc.config.Metric {
	case AvgMoves:
		value = float64(depth)
	case AvgHeuristic:
		value = mc.evaluate(board)
	default:
		value = float64(score)
	}
	return result{value: value, moves: depth, done: true}
}
