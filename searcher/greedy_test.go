package searcher

import (
	"context"
	"testing"

	"ai2048/game"

	"github.com/stretchr/testify/require"
)

func TestGreedyFindMove(t *testing.T) {
	ctx := context.Background()
	spawn := game.DefaultSpawnPolicy()
	greedy, err := NewGreedy()
	require.NoError(t, err)

	t.Run("ties go to the move with the highest priority", func(t *testing.T) {
		centre := game.NewBoard([game.Size][game.Size]uint8{{}, {0, 3, 0, 0}})

		d, err := greedy.FindMove(ctx, centre, spawn)

		require.NoError(t, err)
		require.Len(t, d.Scores, 4)
		for _, score := range d.Scores {
			require.Equal(t, d.Score, score, "Every move should score the same")
		}
		require.Equal(t, game.Up, d.Move)
	})

	t.Run("preferring the merge that frees a cell", func(t *testing.T) {
		b := game.NewBoard([game.Size][game.Size]uint8{
			{4, 3, 3, 0},
			{1, 2, 0, 0},
		})

		d, err := greedy.FindMove(ctx, b, spawn)

		require.NoError(t, err)
		require.Contains(t, []game.Move{game.Left, game.Right}, d.Move)
		require.Greater(t, d.Score, d.Scores[game.Down])
	})

	t.Run("terminal board has no move", func(t *testing.T) {
		_, err := greedy.FindMove(ctx, stuck, spawn)
		require.ErrorIs(t, err, ErrNoLegalMove)
	})
}

func TestRandomFindMove(t *testing.T) {
	ctx := context.Background()
	spawn := game.DefaultSpawnPolicy()

	t.Run("always picking a legal move", func(t *testing.T) {
		r, err := NewRandom(WithSeed(3))
		require.NoError(t, err)

		for _, b := range movableBoards(21, 100) {
			d, err := r.FindMove(ctx, b, spawn)
			require.NoError(t, err)
			require.Contains(t, b.LegalMoves(), d.Move)
		}
	})

	t.Run("same seed gives the same moves", func(t *testing.T) {
		a, err := NewRandom(WithSeed(8))
		require.NoError(t, err)
		b, err := NewRandom(WithSeed(8))
		require.NoError(t, err)

		for _, board := range movableBoards(22, 50) {
			da, err := a.FindMove(ctx, board, spawn)
			require.NoError(t, err)
			db, err := b.FindMove(ctx, board, spawn)
			require.NoError(t, err)
			require.Equal(t, da.Move, db.Move)
		}
	})

	t.Run("single legal move is taken", func(t *testing.T) {
		r, err := NewRandom()
		require.NoError(t, err)

		d, err := r.FindMove(ctx, onlyRight, spawn)

		require.NoError(t, err)
		require.Equal(t, game.Right, d.Move)
	})

	t.Run("terminal board has no move", func(t *testing.T) {
		r, err := NewRandom()
		require.NoError(t, err)

		_, err = r.FindMove(ctx, stuck, spawn)

		require.ErrorIs(t, err, ErrNoLegalMove)
	})
}
