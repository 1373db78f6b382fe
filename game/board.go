package game

import (
	"fmt"
	"strings"
)

const (
	Size  = 4
	Cells = Size * Size
)

// Board is a row-major grid of tile exponents where 0 marks an empty cell and
// an exponent e is displayed as 2^e. Boards are plain values: copying one is
// the way to simulate a hypothetical future.
type Board [Cells]uint8

// NewBoard builds a board from exponent rows, top row first.
func NewBoard(rows [Size][Size]uint8) Board {
	var b Board
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			b[r*Size+c] = rows[r][c]
		}
	}
	return b
}

func (b Board) At(row, col int) uint8 {
	return b[row*Size+col]
}

// Place returns a copy of the board with exponent e at cell.
func (b Board) Place(cell int, e uint8) Board {
	b[cell] = e
	return b
}

// Apply slides the board in the direction of m. It reports the board after the
// move, the score gained from merges and whether any cell changed.
func (b Board) Apply(m Move) (Board, int, bool) {
	var next Board
	var score int
	switch m {
	case Left:
		next, score = b.compress()
	case Right:
		next, score = b.mirror().compress()
		next = next.mirror()
	case Up:
		next, score = b.transpose().compress()
		next = next.transpose()
	case Down:
		next, score = b.transpose().mirror().compress()
		next = next.mirror().transpose()
	default:
		panic(fmt.Sprintf("unexpected move %d", m))
	}
	return next, score, next != b
}

// compress applies compressLeft to every row.
func (b Board) compress() (Board, int) {
	var out Board
	total := 0
	for r := 0; r < Size; r++ {
		var row [Size]uint8
		copy(row[:], b[r*Size:(r+1)*Size])
		row, score := compressLeft(row)
		copy(out[r*Size:(r+1)*Size], row[:])
		total += score
	}
	return out, total
}

// compressLeft slides the non-empty cells of a row to the left, merging equal
// neighbours once. A tile produced by a merge cannot merge again in the same move.
func compressLeft(row [Size]uint8) ([Size]uint8, int) {
	var out [Size]uint8
	n, score := 0, 0
	merged := false
	for _, e := range row {
		if e == 0 {
			continue
		}
		if n > 0 && out[n-1] == e && !merged {
			out[n-1] = e + 1
			score += 1 << (e + 1)
			merged = true
			continue
		}
		out[n] = e
		n++
		merged = false
	}
	return out, score
}

func (b Board) transpose() Board {
	var out Board
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			out[c*Size+r] = b[r*Size+c]
		}
	}
	return out
}

// mirror reflects the board left to right.
func (b Board) mirror() Board {
	var out Board
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			out[r*Size+c] = b[r*Size+Size-1-c]
		}
	}
	return out
}

// LegalMoves returns the moves that change the board, in priority order.
func (b Board) LegalMoves() []Move {
	moves := make([]Move, 0, len(Moves))
	for _, m := range Moves {
		if _, _, changed := b.Apply(m); changed {
			moves = append(moves, m)
		}
	}
	return moves
}

// CanMove reports whether at least one move changes the board.
func (b Board) CanMove() bool {
	for i, e := range b {
		if e == 0 {
			return true
		}
		c := i % Size
		if c < Size-1 && b[i+1] == e {
			return true
		}
		if i+Size < Cells && b[i+Size] == e {
			return true
		}
	}
	return false
}

func (b Board) EmptyCells() []int {
	cells := make([]int, 0, Cells)
	for i, e := range b {
		if e == 0 {
			cells = append(cells, i)
		}
	}
	return cells
}

func (b Board) CountEmpty() int {
	n := 0
	for _, e := range b {
		if e == 0 {
			n++
		}
	}
	return n
}

// MaxTile returns the largest exponent on the board and its cell.
func (b Board) MaxTile() (exponent uint8, cell int) {
	for i, e := range b {
		if e > exponent {
			exponent, cell = e, i
		}
	}
	return exponent, cell
}

// Reaches reports whether any tile has at least the given exponent.
func (b Board) Reaches(exponent uint8) bool {
	for _, e := range b {
		if e >= exponent {
			return true
		}
	}
	return false
}

// Value converts an exponent to the displayed tile value, 0 for empty.
func Value(exponent uint8) int {
	if exponent == 0 {
		return 0
	}
	return 1 << exponent
}

func (b Board) String() string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			e := b.At(r, c)
			if e == 0 {
				sb.WriteString(fmt.Sprintf("%5s", "."))
			} else {
				sb.WriteString(fmt.Sprintf("%5d", Value(e)))
			}
		}
		if r < Size-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
