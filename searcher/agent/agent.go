package agent

import (
	"context"
	"fmt"
	"strings"

	"ai2048/game"
	"ai2048/searcher"
)

type Agent interface {
	// FindMove returns the chosen move with search diagnostics. It simulates on
	// copies of board and returns searcher.ErrNoLegalMove on a terminal board.
	FindMove(ctx context.Context, board game.Board, spawn game.SpawnPolicy) (searcher.Decision, error)
}

// Kind enumerates the available agents.
type Kind int

const (
	Random Kind = iota
	Greedy
	Expectimax
	MonteCarlo
)

var Kinds = []Kind{Random, Greedy, Expectimax, MonteCarlo}

func (k Kind) String() string {
	switch k {
	case Random:
		return "random"
	case Greedy:
		return "greedy"
	case Expectimax:
		return "expectimax"
	case MonteCarlo:
		return "montecarlo"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown agent %q", searcher.ErrInvalidConfig, s)
}

// New builds an agent of the given kind. Options are validated here, so a bad
// depth or weight set fails before any game is played.
func New(kind Kind, options ...searcher.Option) (Agent, error) {
	var (
		a   Agent
		err error
	)
	switch kind {
	case Random:
		a, err = searcher.NewRandom(options...)
	case Greedy:
		a, err = searcher.NewGreedy(options...)
	case Expectimax:
		a, err = searcher.NewExpectimax(options...)
	case MonteCarlo:
		a, err = searcher.NewMonteCarlo(options...)
	default:
		return nil, fmt.Errorf("%w: unknown agent kind %d", searcher.ErrInvalidConfig, int(kind))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s agent: %w", kind, err)
	}
	return a, nil
}

// ChooseMove builds a one-off agent and asks it for a move on the state's board.
func ChooseMove(ctx context.Context, kind Kind, state *game.GameState, options ...searcher.Option) (game.Move, error) {
	a, err := New(kind, options...)
	if err != nil {
		return 0, err
	}
	d, err := a.FindMove(ctx, state.Board, state.SpawnPolicy())
	if err != nil {
		return 0, err
	}
	return d.Move, nil
}
