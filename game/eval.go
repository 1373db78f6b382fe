package game

import (
	"fmt"
	"math"
)

// Weights scale each heuristic component before they are summed.
type Weights struct {
	Empty        float64 `json:"empty"`
	Monotonicity float64 `json:"monotonicity"`
	Smoothness   float64 `json:"smoothness"`
	Corner       float64 `json:"corner"`
	MaxTile      float64 `json:"max_tile"`
}

func DefaultWeights() Weights {
	return Weights{
		Empty:        2.7,
		Monotonicity: 1.0,
		Smoothness:   0.1,
		Corner:       1.0,
		MaxTile:      1.0,
	}
}

func (w Weights) Validate() error {
	all := []float64{w.Empty, w.Monotonicity, w.Smoothness, w.Corner, w.MaxTile}
	zero := true
	for _, v := range all {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: heuristic weights must be finite, got %+v", ErrInvalidConfig, w)
		}
		if v != 0 {
			zero = false
		}
	}
	if zero {
		return fmt.Errorf("%w: heuristic weights are all zero", ErrInvalidConfig)
	}
	return nil
}

type Heuristic struct {
	weights Weights
}

func NewHeuristic(weights Weights) (Heuristic, error) {
	if err := weights.Validate(); err != nil {
		return Heuristic{}, err
	}
	return Heuristic{weights: weights}, nil
}

func (h Heuristic) Weights() Weights {
	return h.weights
}

// Score is the weighted sum of the component scores of b.
func (h Heuristic) Score(b Board) float64 {
	w := h.weights
	return w.Empty*EvaluateEmpty(b) +
		w.Monotonicity*EvaluateMonotonicity(b) +
		w.Smoothness*EvaluateSmoothness(b) +
		w.Corner*EvaluateCorner(b) +
		w.MaxTile*EvaluateMaxTile(b)
}

// Evaluate exposes Score as an Evaluate function.
func (h Heuristic) Evaluate() Evaluate {
	return h.Score
}

// EvaluateEmpty counts the empty cells.
func EvaluateEmpty(b Board) float64 {
	return float64(b.CountEmpty())
}

// EvaluateMonotonicity penalizes each row and column by its smaller directional
// disorder, so a line sorted in either direction scores 0 and anything else is negative.
func EvaluateMonotonicity(b Board) float64 {
	total := 0.0
	for i := 0; i < Size; i++ {
		var row, col [Size]uint8
		for j := 0; j < Size; j++ {
			row[j] = b.At(i, j)
			col[j] = b.At(j, i)
		}
		total -= lineDisorder(row)
		total -= lineDisorder(col)
	}
	return total
}

func lineDisorder(line [Size]uint8) float64 {
	increasing, decreasing := 0.0, 0.0
	for i := 1; i < Size; i++ {
		prev, cur := float64(line[i-1]), float64(line[i])
		if prev > cur {
			increasing += prev - cur
		} else {
			decreasing += cur - prev
		}
	}
	return math.Min(increasing, decreasing)
}

// EvaluateSmoothness penalizes exponent gaps between adjacent tiles; empty cells are skipped.
func EvaluateSmoothness(b Board) float64 {
	total := 0.0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			e := b.At(r, c)
			if e == 0 {
				continue
			}
			if c+1 < Size {
				if right := b.At(r, c+1); right != 0 {
					total -= math.Abs(float64(e) - float64(right))
				}
			}
			if r+1 < Size {
				if below := b.At(r+1, c); below != 0 {
					total -= math.Abs(float64(e) - float64(below))
				}
			}
		}
	}
	return total
}

// EvaluateCorner rewards keeping the largest tile in a corner, and half as much on an edge.
func EvaluateCorner(b Board) float64 {
	exponent, cell := b.MaxTile()
	if exponent == 0 {
		return 0
	}
	r, c := cell/Size, cell%Size
	rowEdge := r == 0 || r == Size-1
	colEdge := c == 0 || c == Size-1
	switch {
	case rowEdge && colEdge:
		return float64(exponent)
	case rowEdge || colEdge:
		return float64(exponent) / 2
	default:
		return 0
	}
}

func EvaluateMaxTile(b Board) float64 {
	exponent, _ := b.MaxTile()
	return float64(exponent)
}
