package experiments

import (
	"context"
	"fmt"
	"sort"
	"time"

	"ai2048/engine"
	"ai2048/experiments/metrics"
	"ai2048/game"
	"ai2048/searcher"
	"ai2048/searcher/agent"

	"github.com/rs/zerolog/log"
)

const (
	NumGames   = 10 // Per agent config
	TimeBudget = 20 * time.Millisecond
)

// Experiment runs a named batch of games and stores the results under outDir.
type Experiment func(ctx context.Context, outDir string) error

var experiments = map[string]Experiment{
	"agents":     RunAgentComparison,
	"depth":      RunDepthExperiment,
	"rollouts":   RunRolloutExperiment,
	"throughput": RunThroughputExperiment,
}

// Names lists the registered experiments.
func Names() []string {
	names := make([]string, 0, len(experiments))
	for name := range experiments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Run(ctx context.Context, name, outDir string) error {
	experiment, ok := experiments[name]
	if !ok {
		return fmt.Errorf("unknown experiment %q, expected one of %v", name, Names())
	}
	return experiment(ctx, outDir)
}

// RunAgentComparison plays every agent on the same seeds.
func RunAgentComparison(ctx context.Context, outDir string) error {
	configs := []metrics.AgentConfig{
		{ID: 1, Agent: "random", Goroutines: 1},
		{ID: 2, Agent: "greedy", Goroutines: 1},
		{ID: 3, Agent: "expectimax", Goroutines: 4, Depth: 2},
		{ID: 4, Agent: "expectimax", Goroutines: 4, Depth: 3},
		{ID: 5, Agent: "montecarlo", Goroutines: 4, Rollouts: 50, Horizon: 50, Metric: "score"},
	}
	return runExperiment(ctx, outDir, "agents", configs, NumGames, 0)
}

// RunDepthExperiment measures how expectimax strength grows with depth.
func RunDepthExperiment(ctx context.Context, outDir string) error {
	configs := []metrics.AgentConfig{}
	for depth := 1; depth <= 4; depth++ {
		configs = append(configs, metrics.AgentConfig{ID: depth, Agent: "expectimax", Goroutines: 8, Depth: depth})
	}
	return runExperiment(ctx, outDir, "depth", configs, NumGames, 0)
}

// RunRolloutExperiment compares the Monte-Carlo metrics under a fixed time budget.
func RunRolloutExperiment(ctx context.Context, outDir string) error {
	configs := []metrics.AgentConfig{
		{ID: 1, Agent: "montecarlo", Goroutines: 8, Rollouts: 1000, Horizon: 100, Metric: "score", Duration: TimeBudget},
		{ID: 2, Agent: "montecarlo", Goroutines: 8, Rollouts: 1000, Horizon: 100, Metric: "moves", Duration: TimeBudget},
		{ID: 3, Agent: "montecarlo", Goroutines: 8, Rollouts: 1000, Horizon: 20, Metric: "heuristic", Duration: TimeBudget},
	}
	return runExperiment(ctx, outDir, "rollouts", configs, NumGames, 0)
}

func runExperiment(ctx context.Context, outDir, name string, configs []metrics.AgentConfig, numGames, maxMoves int) error {
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for ci, config := range configs {
		log.Info().Msgf("starting config %d of %d: %+v", ci+1, len(configs), config)

		for i := 0; i < numGames; i++ {
			// Every config plays the same seeds
			seed := uint64(i + 1)
			gameMetric, moveMetrics, err := runGame(ctx, config, seed, maxMoves)
			if err != nil {
				return fmt.Errorf("config %d game %d: %w", config.ID, i+1, err)
			}
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent:      config.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed config %d game %d of %d with score %d and max tile %d", config.ID, i+1, numGames, gameMetric.Score, gameMetric.MaxTile)
		}
	}

	log.Info().Msgf("completed %s experiment", name)
	return store(outDir, name, configs, gameRecords, moveRecords)
}

func store(outDir, name string, configs []metrics.AgentConfig, gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord) error {
	writer, err := metrics.NewWriter(outDir, name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	if err := writer.WriteParquet(gameRecords, moveRecords); err != nil {
		return fmt.Errorf("failed to write parquet records: %w", err)
	}
	log.Info().Msgf("stored results in %s", writer.Dir())
	return nil
}

// runGame plays a single game with the configured agent
func runGame(ctx context.Context, config metrics.AgentConfig, seed uint64, maxMoves int) (metrics.GameMetric, []metrics.MoveMetric, error) {
	a, err := createAgent(config, seed)
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}
	e, err := engine.LocalEngine(game.DefaultConfig().WithSeed(seed), a, config.Agent)
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}
	e.MaxMoves = maxMoves
	return e.Run(ctx)
}

func createAgent(config metrics.AgentConfig, seed uint64) (agent.Agent, error) {
	kind, err := agent.ParseKind(config.Agent)
	if err != nil {
		return nil, err
	}

	options := []searcher.Option{searcher.WithSeed(seed), searcher.WithMetrics()}
	if config.Goroutines > 0 {
		options = append(options, searcher.WithGoroutines(config.Goroutines))
	}
	if config.Depth > 0 {
		options = append(options, searcher.WithDepth(config.Depth))
	}
	if config.Rollouts > 0 {
		options = append(options, searcher.WithRollouts(config.Rollouts))
	}
	if config.Horizon > 0 {
		options = append(options, searcher.WithHorizon(config.Horizon))
	}
	if config.Metric != "" {
		metric, err := searcher.ParseMetric(config.Metric)
		if err != nil {
			return nil, err
		}
		options = append(options, searcher.WithMetric(metric))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}

	return agent.New(kind, options...)
}
