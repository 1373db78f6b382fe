package game

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const DefaultWinExponent = 11 // 2048

type Config struct {
	Size        int           // Board side length, only 4 is supported
	WinExponent uint8         // Exponent that triggers Won
	Spawn       []SpawnWeight // Relative weights of spawned exponents
	Seed        *uint64       // Seeds the spawn generator, nil seeds from the clock
}

func DefaultConfig() Config {
	return Config{
		Size:        Size,
		WinExponent: DefaultWinExponent,
		Spawn:       DefaultSpawnWeights(),
	}
}

// WithSeed returns a copy of the config with a fixed spawn seed.
func (c Config) WithSeed(seed uint64) Config {
	c.Seed = &seed
	return c
}

func (c Config) Validate() error {
	if c.Size != Size {
		return fmt.Errorf("%w: board size %d is not supported, only %d", ErrInvalidConfig, c.Size, Size)
	}
	if c.WinExponent < 1 {
		return fmt.Errorf("%w: win exponent must be at least 1", ErrInvalidConfig)
	}
	if _, err := NewSpawnPolicy(c.Spawn); err != nil {
		return err
	}
	return nil
}

// GameState is the single live game. It is mutated only through Step, which
// applies a move and spawns a tile as one all-or-nothing operation.
type GameState struct {
	Board   Board
	Score   int
	Moves   int   // Successful steps taken
	Phase   Phase // Won is reported once, on the step that first reaches the win exponent
	Reached bool  // Whether the win exponent has been reached

	winExponent uint8
	spawn       SpawnPolicy
	seed        uint64
	src         *rand.PCG
	rng         *rand.Rand
}

// NewGame starts a game with two spawned tiles.
func NewGame(config Config) (*GameState, error) {
	g, err := newState(config)
	if err != nil {
		return nil, err
	}
	for i := 0; i < 2; i++ {
		g.Board, _ = g.spawn.Spawn(g.Board, g.rng)
	}
	g.Phase = g.nextPhase()
	return g, nil
}

// NewGameWithBoard starts a game from a given position without spawning.
func NewGameWithBoard(config Config, board Board) (*GameState, error) {
	g, err := newState(config)
	if err != nil {
		return nil, err
	}
	g.Board = board
	g.Phase = g.nextPhase()
	return g, nil
}

func newState(config Config) (*GameState, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	spawn, err := NewSpawnPolicy(config.Spawn)
	if err != nil {
		return nil, err
	}
	seed := uint64(time.Now().UnixNano())
	if config.Seed != nil {
		seed = *config.Seed
	}
	src := rand.NewPCG(seed, seed)
	return &GameState{
		winExponent: config.WinExponent,
		spawn:       spawn,
		seed:        seed,
		src:         src,
		rng:         rand.New(src),
	}, nil
}

// Step applies the move and spawns a tile. An illegal move leaves the state
// untouched and returns an error wrapping ErrIllegalMove.
func (g *GameState) Step(m Move) error {
	if g.Phase == Lost {
		return ErrGameOver
	}
	next, delta, changed := g.Board.Apply(m)
	if !changed {
		return fmt.Errorf("%w: %s does not change the board", ErrIllegalMove, m)
	}
	next, _ = g.spawn.Spawn(next, g.rng)

	g.Board = next
	g.Score += delta
	g.Moves++
	g.Phase = g.nextPhase()
	return nil
}

func (g *GameState) nextPhase() Phase {
	won := false
	if !g.Reached && g.Board.Reaches(g.winExponent) {
		g.Reached = true
		won = true
	}
	if !g.Board.CanMove() {
		return Lost
	}
	if won {
		return Won
	}
	return Playing
}

// Continue acknowledges a Won notification so the phase reads Playing again.
func (g *GameState) Continue() {
	if g.Phase == Won {
		g.Phase = Playing
	}
}

// ResetWin forgets that the win exponent was reached, so the next step that
// finds it on the board reports Won again.
func (g *GameState) ResetWin() {
	g.Reached = false
	g.Continue()
}

func (g *GameState) IsTerminal() bool {
	return g.Phase == Lost
}

func (g *GameState) LegalMoves() []Move {
	return g.Board.LegalMoves()
}

func (g *GameState) SpawnPolicy() SpawnPolicy {
	return g.spawn
}

func (g *GameState) WinExponent() uint8 {
	return g.winExponent
}

func (g *GameState) Seed() uint64 {
	return g.seed
}

// Copy returns an independent state whose generator continues the same spawn sequence.
func (g *GameState) Copy() *GameState {
	c := *g
	src := *g.src
	c.src = &src
	c.rng = rand.New(c.src)
	return &c
}

// LegalMoves returns the moves that change b, in priority order.
func LegalMoves(b Board) []Move {
	return b.LegalMoves()
}

// IsTerminal reports whether no move changes b.
func IsTerminal(b Board) bool {
	return !b.CanMove()
}
