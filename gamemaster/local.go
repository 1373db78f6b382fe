package gamemaster

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"ai2048/game"
	"ai2048/searcher"
	"ai2048/searcher/agent"
)

// ErrStaleDecision is returned when the game moved on while an agent was searching.
var ErrStaleDecision = errors.New("game changed during search")

// Session is the contract a front end drives a game through. Keyboard input
// arrives as Play, agents are stepped with Advance.
type Session interface {
	State() *game.GameState
	Play(move game.Move) error
	Advance(ctx context.Context, a agent.Agent) (searcher.Decision, error)
	Restart() error
	Continue()
	History() []Update
}

type Update struct {
	Move  game.Move
	Delta int
	Board game.Board
	Score int
	Phase game.Phase
}

type LocalSession struct {
	mu         sync.Mutex
	config     game.Config
	state      *game.GameState
	updates    []Update
	generation int
	restarts   uint64
}

func NewLocalSession(config game.Config) (*LocalSession, error) {
	state, err := game.NewGame(config)
	if err != nil {
		return nil, err
	}
	return &LocalSession{config: config, state: state}, nil
}

// NewLocalSessionWithBoard starts a session from a given position without spawning.
func NewLocalSessionWithBoard(config game.Config, board game.Board) (*LocalSession, error) {
	state, err := game.NewGameWithBoard(config, board)
	if err != nil {
		return nil, err
	}
	return &LocalSession{config: config, state: state}, nil
}

// State returns a copy of the live game.
func (s *LocalSession) State() *game.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Copy()
}

func (s *LocalSession) Play(move game.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.play(move)
}

func (s *LocalSession) play(move game.Move) error {
	before := s.state.Score
	if err := s.state.Step(move); err != nil {
		return err
	}
	s.generation++
	s.updates = append(s.updates, Update{
		Move:  move,
		Delta: s.state.Score - before,
		Board: s.state.Board,
		Score: s.state.Score,
		Phase: s.state.Phase,
	})
	return nil
}

// Advance asks the agent for a move on the current board and plays it. The
// search runs without holding the session, so a move played in the meantime
// makes the decision stale.
func (s *LocalSession) Advance(ctx context.Context, a agent.Agent) (searcher.Decision, error) {
	s.mu.Lock()
	if s.state.IsTerminal() {
		s.mu.Unlock()
		return searcher.Decision{}, game.ErrGameOver
	}
	board, spawn, generation := s.state.Board, s.state.SpawnPolicy(), s.generation
	s.mu.Unlock()

	d, err := a.FindMove(ctx, board, spawn)
	if err != nil {
		return d, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		return d, ErrStaleDecision
	}
	if err := s.play(d.Move); err != nil {
		return d, fmt.Errorf("agent chose %s: %w", d.Move, err)
	}
	return d, nil
}

// Restart begins a new game. A seeded session advances its seed so each
// restart deals a different but reproducible game.
func (s *LocalSession) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	config := s.config
	if config.Seed != nil {
		config = config.WithSeed(*config.Seed + s.restarts + 1)
	}
	state, err := game.NewGame(config)
	if err != nil {
		return err
	}
	s.restarts++
	s.generation++
	s.state = state
	s.updates = nil
	return nil
}

// Continue dismisses a win so play goes on.
func (s *LocalSession) Continue() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Continue()
}

func (s *LocalSession) History() []Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Update(nil), s.updates...)
}
