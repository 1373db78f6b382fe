package experiments

import (
	"context"
	"time"

	"ai2048/experiments/metrics"
)

// RunThroughputExperiment plays short games with a growing number of
// goroutines. The move records carry nodes searched per decision, so the
// speedup can be read off nodes over duration.
func RunThroughputExperiment(ctx context.Context, outDir string) error {
	const NumGames = 2 // Per config
	const MaxMoves = 100
	const Duration = 10 * time.Millisecond

	configs := []metrics.AgentConfig{}
	for i, goroutines := range []int{1, 2, 4, 8, 16, 32} {
		configs = append(configs,
			metrics.AgentConfig{ID: 2*i + 1, Agent: "expectimax", Goroutines: goroutines, Depth: 4, Duration: Duration},
			metrics.AgentConfig{ID: 2*i + 2, Agent: "montecarlo", Goroutines: goroutines, Rollouts: 10000, Horizon: 50, Metric: "score", Duration: Duration},
		)
	}

	return runExperiment(ctx, outDir, "throughput", configs, NumGames, MaxMoves)
}
