package game

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalMove is returned by Step when the move would not change the board.
	ErrIllegalMove = errors.New("illegal move")
	// ErrGameOver is returned by Step once the game is lost.
	ErrGameOver = errors.New("game is over")
	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = errors.New("invalid config")
)

type Move uint8

const (
	Up Move = iota
	Down
	Left
	Right
)

// Moves lists every move in tie-break priority order.
var Moves = [4]Move{Up, Left, Right, Down}

func (m Move) String() string {
	switch m {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return fmt.Sprintf("Move(%d)", uint8(m))
	}
}

// ParseMove accepts the move names as printed by String, case-sensitive, plus the
// single-letter forms u, d, l, r.
func ParseMove(s string) (Move, error) {
	switch s {
	case "Up", "up", "u":
		return Up, nil
	case "Down", "down", "d":
		return Down, nil
	case "Left", "left", "l":
		return Left, nil
	case "Right", "right", "r":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown move %q", s)
}

type Phase int

const (
	Playing Phase = iota
	Won
	Lost
)

func (p Phase) String() string {
	switch p {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Evaluate scores a board, higher is better. Implementations must be pure and
// defined for every board, including terminal ones.
type Evaluate func(Board) float64
