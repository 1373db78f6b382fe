package tui

import (
	"strconv"
	"strings"

	"ai2048/game"

	"github.com/charmbracelet/lipgloss"
)

const tileWidth = 7

// Classic palette, indexed by exponent. Larger tiles reuse the last colour.
var tileColors = []string{
	"#cdc1b4", "#eee4da", "#ede0c8", "#f2b179", "#f59563", "#f67c5f", "#f65e3b",
	"#edcf72", "#edcc61", "#edc850", "#edc53f", "#edc22e", "#3c3a32",
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f67c5f"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#edc22e"))
	hintStyle     = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(46)
	boardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#bbada0"))
)

func tileStyle(e uint8) lipgloss.Style {
	color := tileColors[min(int(e), len(tileColors)-1)]
	fg := "#f9f6f2"
	if e <= 2 {
		fg = "#776e65"
	}
	return lipgloss.NewStyle().
		Width(tileWidth).
		Height(3).
		Align(lipgloss.Center, lipgloss.Center).
		Bold(true).
		Background(lipgloss.Color(color)).
		Foreground(lipgloss.Color(fg))
}

func renderBoard(b game.Board) string {
	rows := make([]string, game.Size)
	for r := 0; r < game.Size; r++ {
		cells := make([]string, game.Size)
		for c := 0; c < game.Size; c++ {
			e := b.At(r, c)
			text := ""
			if e > 0 {
				text = strconv.Itoa(game.Value(e))
			}
			cells[c] = tileStyle(e).Render(text)
		}
		rows[r] = lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	}
	return boardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderMenu(cursor int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("2048"))
	sb.WriteString("\n\n")
	for i, label := range labels() {
		if i == cursor {
			sb.WriteString(selectedStyle.Render("> " + label))
		} else {
			sb.WriteString("  " + label)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(hintStyle.Render("up/down to choose, enter to start, q to quit"))
	return sb.String()
}
