package agent

import (
	"fmt"
	"sort"

	"ai2048/game"
	"ai2048/searcher"
)

// Describe returns a short human readable summary of how the agent picks moves.
func Describe(kind Kind, config searcher.Config) string {
	switch kind {
	case Random:
		return "Performing random legal moves."
	case Greedy:
		return "Taking the move whose resulting board scores highest on the heuristic."
	case Expectimax:
		text := fmt.Sprintf("Expectimax to depth %d over every possible spawn.", config.Depth)
		if config.AdaptiveDepth && config.Depth > 1 {
			text += fmt.Sprintf(" One layer shallower with more than %d empty cells.", config.EmptyThreshold)
		}
		return text
	case MonteCarlo:
		return fmt.Sprintf("Taking the average of %d random playouts per move, up to %d moves each. Comparing by %s.",
			config.Rollouts, config.Horizon, config.Metric)
	default:
		return kind.String()
	}
}

// ScoreLines renders a decision's per-move scores, best first, marking the chosen move.
func ScoreLines(d searcher.Decision) []string {
	moves := make([]game.Move, 0, len(d.Scores))
	for m := range d.Scores {
		moves = append(moves, m)
	}
	sort.Slice(moves, func(i, j int) bool {
		if d.Scores[moves[i]] != d.Scores[moves[j]] {
			return d.Scores[moves[i]] > d.Scores[moves[j]]
		}
		return moves[i] < moves[j]
	})

	lines := make([]string, 0, len(moves))
	for _, m := range moves {
		marker := "  "
		if m == d.Move {
			marker = "> "
		}
		lines = append(lines, fmt.Sprintf("%s%-5s %10.2f", marker, m, d.Scores[m]))
	}
	return lines
}
