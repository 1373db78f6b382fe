package tui

import (
	"context"
	"testing"

	"ai2048/game"
	"ai2048/gamemaster"
	"ai2048/searcher"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m model, keys ...string) (model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(model)
	}
	return m, cmd
}

func testSettings() Settings {
	return Settings{
		Game:   game.DefaultConfig().WithSeed(1),
		Search: []searcher.Option{searcher.WithSeed(1), searcher.WithDepth(1), searcher.WithRollouts(2), searcher.WithHorizon(2)},
	}
}

func TestMenu(t *testing.T) {
	m := newModel(context.Background(), testSettings())

	t.Run("listing every mode", func(t *testing.T) {
		view := m.View()
		for _, label := range labels() {
			require.Contains(t, view, label)
		}
	})

	t.Run("wrapping the cursor", func(t *testing.T) {
		up, _ := press(t, m, "up")
		require.Equal(t, len(menu)-1, up.cursor)
		down, _ := press(t, up, "down", "down")
		require.Equal(t, 1, down.cursor)
	})

	t.Run("quitting", func(t *testing.T) {
		_, cmd := press(t, m, "q")
		require.NotNil(t, cmd)
		require.IsType(t, tea.QuitMsg{}, cmd())
	})
}

func TestKeyboardPlay(t *testing.T) {
	m, cmd := press(t, newModel(context.Background(), testSettings()), "enter")
	require.Nil(t, cmd)
	require.Equal(t, gameScreen, m.screen)
	require.True(t, m.item.keyboard)

	t.Run("sliding tiles with the keys", func(t *testing.T) {
		moved := false
		for _, k := range []string{"up", "left", "right", "down"} {
			m, _ = press(t, m, k)
			if m.session.State().Moves > 0 {
				moved = true
				break
			}
		}
		require.True(t, moved, "One of the four moves should be legal on a fresh board")
		require.NoError(t, m.err)
		require.Contains(t, m.View(), "Moves:    1")
	})

	t.Run("rejecting a move that slides nothing", func(t *testing.T) {
		session, err := gamemaster.NewLocalSessionWithBoard(game.DefaultConfig().WithSeed(2),
			game.NewBoard([game.Size][game.Size]uint8{{1}, {2}, {3}, {4}}))
		require.NoError(t, err)
		m.session = session

		m, _ = press(t, m, "left")

		require.Equal(t, "Left does not move any tile.", m.message)
		require.Zero(t, m.session.State().Moves)
		require.Contains(t, m.View(), "Left does not move any tile.")

		m, _ = press(t, m, "right")

		require.Equal(t, 1, m.session.State().Moves)
		require.Empty(t, m.message, "Feedback should clear after a legal move")
	})

	t.Run("restarting", func(t *testing.T) {
		m, _ = press(t, m, "r")
		require.Zero(t, m.session.State().Moves)
	})

	t.Run("back to the menu", func(t *testing.T) {
		m, _ = press(t, m, "esc")
		require.Equal(t, menuScreen, m.screen)
		require.Zero(t, m.cursor)
	})
}

func TestAutoplay(t *testing.T) {
	m, cmd := press(t, newModel(context.Background(), testSettings()), "down", "down", "enter")
	require.Equal(t, "Solve (Greedy)", m.item.label)
	require.True(t, m.running)
	require.NotNil(t, cmd)
	require.Contains(t, m.View(), "heuristic")

	t.Run("playing the agent's decision", func(t *testing.T) {
		msg := cmd()
		require.IsType(t, decisionMsg{}, msg)

		next, cmd := m.Update(msg)
		m = next.(model)

		require.NoError(t, m.err)
		require.Equal(t, 1, m.session.State().Moves)
		require.NotEmpty(t, m.lines)
		require.NotNil(t, cmd, "Next step should be scheduled")
		require.Contains(t, m.View(), "> ")
	})

	t.Run("ignoring keys while the agent plays", func(t *testing.T) {
		before := m.session.State().Moves
		m, _ = press(t, m, "left", "right")
		require.Equal(t, before, m.session.State().Moves)
	})

	t.Run("dropping steps after leaving the game", func(t *testing.T) {
		stale := stepMsg{run: m.run}
		m, _ = press(t, m, "esc")
		require.False(t, m.running)

		_, cmd := m.Update(stale)
		require.Nil(t, cmd)
	})
}

func TestAutoplayCancelled(t *testing.T) {
	m, cmd := press(t, newModel(context.Background(), testSettings()), "up", "enter")
	require.Equal(t, "Solve (Expectimax)", m.item.label)

	m, _ = press(t, m, "q")
	msg := cmd()

	require.ErrorIs(t, msg.(decisionMsg).err, context.Canceled)
	next, _ := m.Update(msg)
	require.Zero(t, next.(model).session.State().Moves)
}

func TestRenderBoard(t *testing.T) {
	b := game.NewBoard([game.Size][game.Size]uint8{{11, 1}, {0, 0, 17}})

	view := renderBoard(b)

	require.Contains(t, view, "2048")
	require.Contains(t, view, "131072")
}
