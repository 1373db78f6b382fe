package searcher

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"ai2048/game"

	"github.com/stretchr/testify/require"
)

// randomBoard fills roughly half the cells so searches stay cheap.
func randomBoard(rng *rand.Rand) game.Board {
	var b game.Board
	for i := range b {
		if rng.IntN(2) == 0 {
			b[i] = uint8(rng.IntN(5) + 1)
		}
	}
	return b
}

// movableBoards returns n random boards that have at least one legal move.
func movableBoards(seed uint64, n int) []game.Board {
	rng := rand.New(rand.NewPCG(seed, seed))
	boards := make([]game.Board, 0, n)
	for len(boards) < n {
		if b := randomBoard(rng); b.CanMove() {
			boards = append(boards, b)
		}
	}
	return boards
}

// onlyRight is a board where Right is the single legal move.
var onlyRight = game.NewBoard([game.Size][game.Size]uint8{{1}, {2}, {3}, {4}})

var stuck = game.NewBoard([game.Size][game.Size]uint8{
	{1, 2, 1, 2},
	{2, 1, 2, 1},
	{1, 2, 1, 2},
	{2, 1, 2, 1},
})

func TestExpectimaxFindMove(t *testing.T) {
	ctx := context.Background()
	spawn := game.DefaultSpawnPolicy()

	t.Run("depth one matches greedy", func(t *testing.T) {
		expectimax, err := NewExpectimax(WithDepth(1))
		require.NoError(t, err)
		greedy, err := NewGreedy()
		require.NoError(t, err)

		for _, b := range movableBoards(1, 200) {
			want, err := greedy.FindMove(ctx, b, spawn)
			require.NoError(t, err)
			got, err := expectimax.FindMove(ctx, b, spawn)
			require.NoError(t, err)

			require.Equal(t, want.Move, got.Move, "Board:\n%s", b)
			require.Equal(t, want.Scores, got.Scores, "Board:\n%s", b)
		}
	})

	t.Run("parallel search matches sequential search", func(t *testing.T) {
		for _, depth := range []int{2, 3} {
			sequential, err := NewExpectimax(WithDepth(depth), WithAdaptiveDepth(false, 0))
			require.NoError(t, err)
			parallel, err := NewExpectimax(WithDepth(depth), WithAdaptiveDepth(false, 0), WithGoroutines(4))
			require.NoError(t, err)

			for _, b := range movableBoards(uint64(depth), 5) {
				want, err := sequential.FindMove(ctx, b, spawn)
				require.NoError(t, err)
				got, err := parallel.FindMove(ctx, b, spawn)
				require.NoError(t, err)

				require.Equal(t, want.Move, got.Move)
				require.Equal(t, want.Scores, got.Scores)
				require.Equal(t, want.Nodes, got.Nodes)
				require.Equal(t, depth, got.Depth)
			}
		}
	})

	t.Run("single legal move is taken", func(t *testing.T) {
		e, err := NewExpectimax(WithDepth(2))
		require.NoError(t, err)

		d, err := e.FindMove(ctx, onlyRight, spawn)

		require.NoError(t, err)
		require.Equal(t, game.Right, d.Move)
		require.Len(t, d.Scores, 1)
	})

	t.Run("terminal board has no move", func(t *testing.T) {
		e, err := NewExpectimax()
		require.NoError(t, err)

		_, err = e.FindMove(ctx, stuck, spawn)

		require.ErrorIs(t, err, ErrNoLegalMove)
	})

	t.Run("cancelled context aborts the search", func(t *testing.T) {
		for _, goroutines := range []int{1, 4} {
			e, err := NewExpectimax(WithDepth(3), WithGoroutines(goroutines))
			require.NoError(t, err)
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err = e.FindMove(cancelled, movableBoards(9, 1)[0], spawn)

			require.ErrorIs(t, err, context.Canceled)
		}
	})

	t.Run("node budget stops deepening", func(t *testing.T) {
		e, err := NewExpectimax(WithDepth(4), WithNodeBudget(1))
		require.NoError(t, err)
		greedy, err := NewGreedy()
		require.NoError(t, err)
		b := movableBoards(4, 1)[0]

		got, err := e.FindMove(ctx, b, spawn)
		require.NoError(t, err)
		want, err := greedy.FindMove(ctx, b, spawn)
		require.NoError(t, err)

		require.Equal(t, 1, got.Depth, "Budget is spent after the first iteration")
		require.Equal(t, want.Move, got.Move)
	})

	t.Run("iteration crossing the node budget completes", func(t *testing.T) {
		e, err := NewExpectimax(WithDepth(4), WithAdaptiveDepth(false, 0), WithNodeBudget(10))
		require.NoError(t, err)
		sequential, err := NewExpectimax(WithDepth(2), WithAdaptiveDepth(false, 0))
		require.NoError(t, err)
		b := movableBoards(4, 1)[0]

		got, err := e.FindMove(ctx, b, spawn)
		require.NoError(t, err)
		want, err := sequential.FindMove(ctx, b, spawn)
		require.NoError(t, err)

		require.Equal(t, 2, got.Depth, "Depth one stays under the budget, depth two crosses it")
		require.Equal(t, want.Scores, got.Scores)
		require.Greater(t, got.Nodes, 10)
	})

	t.Run("expired time budget still returns a decision", func(t *testing.T) {
		e, err := NewExpectimax(WithDepth(6), WithDuration(time.Nanosecond))
		require.NoError(t, err)

		d, err := e.FindMove(ctx, movableBoards(6, 1)[0], spawn)

		require.NoError(t, err)
		require.GreaterOrEqual(t, d.Depth, 1)
		require.NotEmpty(t, d.Scores)
	})

	t.Run("collecting search metrics", func(t *testing.T) {
		e, err := NewExpectimax(WithDepth(2), WithMetrics())
		require.NoError(t, err)

		d, err := e.FindMove(ctx, movableBoards(8, 1)[0], spawn)

		require.NoError(t, err)
		require.Equal(t, "expectimax", d.Metric.Agent)
		require.Equal(t, d.Nodes, d.Metric.Nodes)
		require.Equal(t, d.Depth, d.Metric.Depth)
	})
}

func TestExpectimaxDepthFor(t *testing.T) {
	var open game.Board
	crowded := stuck.Place(0, 0)

	t.Run("reducing depth on open boards", func(t *testing.T) {
		e, err := NewExpectimax(WithDepth(3), WithAdaptiveDepth(true, 6))
		require.NoError(t, err)

		require.Equal(t, 2, e.DepthFor(open))
		require.Equal(t, 3, e.DepthFor(crowded))
	})

	t.Run("never dropping below one layer", func(t *testing.T) {
		e, err := NewExpectimax(WithDepth(1))
		require.NoError(t, err)

		require.Equal(t, 1, e.DepthFor(open))
	})

	t.Run("disabled reduction", func(t *testing.T) {
		e, err := NewExpectimax(WithDepth(3), WithAdaptiveDepth(false, 0))
		require.NoError(t, err)

		require.Equal(t, 3, e.DepthFor(open))
	})
}

func TestNewExpectimax(t *testing.T) {
	t.Run("rejecting non-positive depth", func(t *testing.T) {
		_, err := NewExpectimax(WithDepth(0))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("rejecting zero weights", func(t *testing.T) {
		_, err := NewExpectimax(WithWeights(game.Weights{}))
		require.ErrorIs(t, err, ErrInvalidConfig)
		require.ErrorIs(t, err, game.ErrInvalidConfig)
	})

	t.Run("rejecting zero goroutines", func(t *testing.T) {
		_, err := NewExpectimax(WithGoroutines(0))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}
