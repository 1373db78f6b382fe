package engine

import (
	"context"
	"testing"

	"ai2048/game"
	"ai2048/searcher"

	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T, config game.Config, options ...searcher.Option) *Local {
	t.Helper()
	a, err := searcher.NewGreedy(options...)
	require.NoError(t, err)
	e, err := LocalEngine(config, a, "greedy")
	require.NoError(t, err)
	return e
}

func TestLocalRun(t *testing.T) {
	ctx := context.Background()

	t.Run("playing until the board is stuck", func(t *testing.T) {
		e := newLocal(t, game.DefaultConfig().WithSeed(1), searcher.WithMetrics())

		gameMetric, moveMetrics, err := e.Run(ctx)

		require.NoError(t, err)
		require.True(t, e.Session.State().IsTerminal())
		require.Equal(t, uint64(1), gameMetric.Seed)
		require.Len(t, moveMetrics, gameMetric.Moves)
		require.Greater(t, gameMetric.MaxTile, 4)

		total := 0
		for i, mm := range moveMetrics {
			require.Equal(t, i+1, mm.Step)
			require.Equal(t, "greedy", mm.Agent)
			total += mm.ScoreDelta
		}
		require.Equal(t, gameMetric.Score, total)
		require.False(t, gameMetric.EndTime.Before(gameMetric.StartTime))
	})

	t.Run("stopping at the move cap", func(t *testing.T) {
		e := newLocal(t, game.DefaultConfig().WithSeed(2))
		e.MaxMoves = 10

		gameMetric, moveMetrics, err := e.Run(ctx)

		require.NoError(t, err)
		require.Equal(t, 10, gameMetric.Moves)
		require.Len(t, moveMetrics, 10)
	})

	t.Run("stopping on a win", func(t *testing.T) {
		config := game.DefaultConfig().WithSeed(3)
		config.WinExponent = 4 // 16
		e := newLocal(t, config)
		e.StopOnWin = true

		gameMetric, _, err := e.Run(ctx)

		require.NoError(t, err)
		require.True(t, gameMetric.Won)
		require.Equal(t, game.Won, e.Session.State().Phase)
	})

	t.Run("playing on after a win", func(t *testing.T) {
		config := game.DefaultConfig().WithSeed(4)
		config.WinExponent = 4
		e := newLocal(t, config)

		gameMetric, _, err := e.Run(ctx)

		require.NoError(t, err)
		require.True(t, gameMetric.Won)
		require.True(t, e.Session.State().IsTerminal())
	})

	t.Run("cancelled context stops the game", func(t *testing.T) {
		a, err := searcher.NewExpectimax(searcher.WithDepth(2))
		require.NoError(t, err)
		e, err := LocalEngine(game.DefaultConfig().WithSeed(5), a, "expectimax")
		require.NoError(t, err)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		gameMetric, moveMetrics, err := e.Run(cancelled)

		require.ErrorIs(t, err, context.Canceled)
		require.Zero(t, gameMetric.Moves)
		require.Empty(t, moveMetrics)
	})
}
