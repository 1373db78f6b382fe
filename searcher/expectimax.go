package searcher

import (
	"context"
	"fmt"

	"ai2048/experiments/metrics"
	"ai2048/game"

	"golang.org/x/sync/errgroup"
)

// Expectimax alternates decision layers, where the player takes the best move,
// with chance layers that average over every possible spawn.
type Expectimax struct {
	config   Config
	evaluate game.Evaluate
	metrics  metrics.Collector
}

func NewExpectimax(options ...Option) (*Expectimax, error) {
	config, err := NewConfig(options...)
	if err != nil {
		return nil, err
	}
	heuristic, err := game.NewHeuristic(config.Weights)
	if err != nil {
		return nil, err
	}
	return &Expectimax{config: config, evaluate: heuristic.Evaluate(), metrics: newCollector(config)}, nil
}

func (e *Expectimax) Config() Config {
	return e.config
}

// DepthFor returns the number of decision layers searched from board.
func (e *Expectimax) DepthFor(board game.Board) int {
	depth := e.config.Depth
	if e.config.AdaptiveDepth && depth > 1 && board.CountEmpty() > e.config.EmptyThreshold {
		depth--
	}
	return depth
}

func (e *Expectimax) FindMove(ctx context.Context, board game.Board, spawn game.SpawnPolicy) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}
	moves := board.LegalMoves()
	if len(moves) == 0 {
		return Decision{}, ErrNoLegalMove
	}
	outcomes := spawn.OrDefault().Outcomes()
	depth := e.DepthFor(board)
	e.metrics.Start("expectimax", e.config.Goroutines)

	var d Decision
	var err error
	if e.config.Duration > 0 || e.config.NodeBudget > 0 {
		d, err = e.deepen(ctx, board, moves, outcomes, depth)
	} else {
		d, err = e.search(ctx, board, moves, outcomes, depth)
	}
	if err != nil {
		return Decision{}, err
	}

	e.metrics.SetDepth(d.Depth)
	d.Metric = e.metrics.Complete()
	return d, nil
}

// deepen searches depth 1, 2, ... up to depth and keeps the deepest finished
// iteration. The first iteration always runs to completion unless ctx is done.
func (e *Expectimax) deepen(ctx context.Context, board game.Board, moves []game.Move, outcomes []game.Outcome, depth int) (Decision, error) {
	budgetCtx := ctx
	if e.config.Duration > 0 {
		var cancel context.CancelFunc
		budgetCtx, cancel = context.WithTimeout(ctx, e.config.Duration)
		defer cancel()
	}

	var best Decision
	nodes := 0
	for d := 1; d <= depth; d++ {
		searchCtx := budgetCtx
		if d == 1 {
			searchCtx = ctx
		}
		decision, err := e.search(searchCtx, board, moves, outcomes, d)
		if err != nil {
			if ctx.Err() != nil {
				return Decision{}, ctx.Err()
			}
			break // Out of time, keep the previous depth
		}
		nodes += decision.Nodes
		best = decision
		if e.config.NodeBudget > 0 && nodes >= e.config.NodeBudget {
			break
		}
	}
	best.Nodes = nodes
	return best, nil
}

// task is one child of a root chance node: the board after a move with one spawned tile.
type task struct {
	move   int
	board  game.Board
	weight float64
	value  float64
	nodes  int
}

// search evaluates every root move to the given depth. Chance children of the
// root are independent and are spread over the configured goroutines; results
// are reduced in a fixed order so any goroutine count yields the same decision.
func (e *Expectimax) search(ctx context.Context, board game.Board, moves []game.Move, outcomes []game.Outcome, depth int) (Decision, error) {
	scores := make([]float64, len(moves))
	nodes := 1 // Root
	var tasks []*task
	for i, m := range moves {
		after, _, _ := board.Apply(m)
		nodes++ // Chance node after the move
		empty := after.EmptyCells()
		if depth == 1 || len(empty) == 0 {
			scores[i] = e.evaluate(after)
			continue
		}
		for _, cell := range empty {
			for _, o := range outcomes {
				tasks = append(tasks, &task{
					move:   i,
					board:  after.Place(cell, o.Exponent),
					weight: o.Probability / float64(len(empty)),
				})
			}
		}
	}

	if err := e.run(ctx, tasks, outcomes, depth-1); err != nil {
		return Decision{}, err
	}

	for _, t := range tasks {
		scores[t.move] += t.weight * t.value
		nodes += t.nodes
	}
	e.metrics.AddNodes(nodes)

	d := decide(moves, scores)
	d.Nodes = nodes
	d.Depth = depth
	return d, nil
}

func (e *Expectimax) run(ctx context.Context, tasks []*task, outcomes []game.Outcome, depth int) error {
	if e.config.Goroutines <= 1 {
		for _, t := range tasks {
			if err := e.expand(ctx, t, outcomes, depth); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Goroutines)
	for _, t := range tasks {
		g.Go(func() error {
			return e.expand(gctx, t, outcomes, depth)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("expectimax search: %w", err)
	}
	return nil
}

func (e *Expectimax) expand(ctx context.Context, t *task, outcomes []game.Outcome, depth int) error {
	s := &search{ctx: ctx, evaluate: e.evaluate, outcomes: outcomes}
	value, err := s.decision(t.board, depth)
	if err != nil {
		return err
	}
	t.value = value
	t.nodes = s.nodes
	return nil
}

// search holds the state of one sequential expectimax expansion.
type search struct {
	ctx      context.Context
	evaluate game.Evaluate
	outcomes []game.Outcome
	nodes    int
}

// decision returns the best value over the legal moves of b with depth decision
// layers left, or the heuristic value when b has no legal move.
func (s *search) decision(b game.Board, depth int) (float64, error) {
	if err := s.ctx.Err(); err != nil {
		return 0, err
	}
	s.nodes++
	if depth == 0 {
		return s.evaluate(b), nil
	}

	found := false
	best := 0.0
	for _, m := range game.Moves {
		after, _, changed := b.Apply(m)
		if !changed {
			continue
		}
		value, err := s.chance(after, depth-1)
		if err != nil {
			return 0, err
		}
		if !found || value > best {
			best, found = value, true
		}
	}
	if !found {
		return s.evaluate(b), nil
	}
	return best, nil
}

// chance averages the decision values over every empty cell and spawn outcome.
func (s *search) chance(b game.Board, depth int) (float64, error) {
	s.nodes++
	empty := b.EmptyCells()
	if depth == 0 || len(empty) == 0 {
		return s.evaluate(b), nil
	}

	total := 0.0
	for _, cell := range empty {
		for _, o := range s.outcomes {
			value, err := s.decision(b.Place(cell, o.Exponent), depth)
			if err != nil {
				return 0, err
			}
			total += o.Probability / float64(len(empty)) * value
		}
	}
	return total, nil
}
