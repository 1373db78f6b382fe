package engine

import (
	"context"

	"ai2048/experiments/metrics"
)

type Engine interface {
	// Run plays a game until it is lost, won with StopOnWin, a move cap is reached or ctx is done
	Run(ctx context.Context) (gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
