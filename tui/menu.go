package tui

import (
	"ai2048/searcher"
	"ai2048/searcher/agent"
)

type menuItem struct {
	label    string
	keyboard bool
	kind     agent.Kind
	options  []searcher.Option
}

var menu = []menuItem{
	{label: "Play (Keyboard)", keyboard: true},
	{label: "Solve (Random)", kind: agent.Random},
	{label: "Solve (Greedy)", kind: agent.Greedy},
	{label: "Solve (Tree Search, Max Score)", kind: agent.MonteCarlo, options: []searcher.Option{searcher.WithMetric(searcher.AvgScore)}},
	{label: "Solve (Tree Search, Max Moves)", kind: agent.MonteCarlo, options: []searcher.Option{searcher.WithMetric(searcher.AvgMoves)}},
	{label: "Solve (Expectimax)", kind: agent.Expectimax},
}

func labels() []string {
	out := make([]string, len(menu))
	for i, item := range menu {
		out[i] = item.label
	}
	return out
}
