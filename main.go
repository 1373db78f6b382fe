package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai2048/engine"
	"ai2048/experiments"
	"ai2048/game"
	"ai2048/meta"
	"ai2048/searcher"
	"ai2048/searcher/agent"
	"ai2048/tui"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: ai2048 <command> [flags]

commands:
  play                 interactive terminal game (default)
  run                  play one game headless with an agent
  experiment <name>    run a batch of games and store the results
`

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command, args := "play", os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		command, args = args[0], args[1:]
	}

	var err error
	switch command {
	case "play":
		err = play(ctx, args)
	case "run":
		err = run(ctx, args)
	case "experiment":
		err = experiment(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Msgf("%s failed", command)
		stop()
		os.Exit(1)
	}
}

type searchFlags struct {
	agent      *string
	goroutines *int
	depth      *int
	rollouts   *int
	horizon    *int
	metric     *string
	duration   *time.Duration
	nodes      *int
	seed       *uint64
}

func registerSearchFlags(fs *flag.FlagSet) searchFlags {
	return searchFlags{
		agent:      fs.String("agent", getEnv("AI2048_AGENT", meta.AGENT), "Agent: random, greedy, expectimax or montecarlo"),
		goroutines: fs.Int("goroutines", getEnvInt("AI2048_GOROUTINES", meta.GO_ROUTINES), "Goroutines used by a search"),
		depth:      fs.Int("depth", getEnvInt("AI2048_DEPTH", meta.DEPTH), "Expectimax MAX layers"),
		rollouts:   fs.Int("rollouts", getEnvInt("AI2048_ROLLOUTS", meta.ROLLOUTS), "Monte-Carlo playouts per move"),
		horizon:    fs.Int("horizon", meta.HORIZON, "Monte-Carlo moves per playout"),
		metric:     fs.String("metric", searcher.AvgScore.String(), "Monte-Carlo metric: score, moves or heuristic"),
		duration:   fs.Duration("duration", 0, "Time budget per move, 0 for none"),
		nodes:      fs.Int("nodes", 0, "Expectimax node budget per move, 0 for none"),
		seed:       fs.Uint64("seed", getEnvUint("AI2048_SEED", 0), "Seed for spawns and agents, 0 seeds from the clock"),
	}
}

func (f searchFlags) options() ([]searcher.Option, error) {
	metric, err := searcher.ParseMetric(*f.metric)
	if err != nil {
		return nil, err
	}
	options := []searcher.Option{
		searcher.WithGoroutines(*f.goroutines),
		searcher.WithDepth(*f.depth),
		searcher.WithRollouts(*f.rollouts),
		searcher.WithHorizon(*f.horizon),
		searcher.WithMetric(metric),
		searcher.WithDuration(*f.duration),
		searcher.WithNodeBudget(*f.nodes),
	}
	if *f.seed != 0 {
		options = append(options, searcher.WithSeed(*f.seed))
	}
	return options, nil
}

func (f searchFlags) gameConfig() game.Config {
	config := game.DefaultConfig()
	if *f.seed != 0 {
		config = config.WithSeed(*f.seed)
	}
	return config
}

func play(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	flags := registerSearchFlags(fs)
	delay := fs.Duration("delay", meta.AUTOPLAY_DELAY, "Pause between agent moves")
	logFile := fs.String("log-file", getEnv("AI2048_LOG_FILE", "ai2048.log"), "Log file, the terminal belongs to the game")
	_ = fs.Parse(args)

	f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()
	log.Logger = zerolog.New(f).With().Timestamp().Logger()

	options, err := flags.options()
	if err != nil {
		return err
	}
	return tui.Run(ctx, tui.Settings{Game: flags.gameConfig(), Search: options, Delay: *delay})
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	flags := registerSearchFlags(fs)
	maxMoves := fs.Int("max-moves", meta.MAX_MOVES, "Stop after this many moves, 0 plays until the board is stuck")
	stopOnWin := fs.Bool("stop-on-win", false, "Stop when 2048 is reached")
	_ = fs.Parse(args)

	kind, err := agent.ParseKind(*flags.agent)
	if err != nil {
		return err
	}
	options, err := flags.options()
	if err != nil {
		return err
	}
	a, err := agent.New(kind, append(options, searcher.WithMetrics())...)
	if err != nil {
		return err
	}
	e, err := engine.LocalEngine(flags.gameConfig(), a, kind.String())
	if err != nil {
		return err
	}
	e.MaxMoves = *maxMoves
	e.StopOnWin = *stopOnWin

	gameMetric, moveMetrics, err := e.Run(ctx)
	nodes := 0
	for _, mm := range moveMetrics {
		nodes += mm.Nodes
	}
	log.Info().
		Uint64("seed", gameMetric.Seed).
		Int("score", gameMetric.Score).
		Int("moves", gameMetric.Moves).
		Int("max_tile", gameMetric.MaxTile).
		Bool("won", gameMetric.Won).
		Int("nodes", nodes).
		Dur("duration", gameMetric.Duration).
		Msg("game finished")
	fmt.Println(e.Session.State().Board)
	return err
}

func experiment(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("experiment", flag.ExitOnError)
	outDir := fs.String("out-dir", getEnv("AI2048_OUT_DIR", meta.OUT_DIR), "Directory experiment results are written to")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("expected one experiment name, one of %v", experiments.Names())
	}
	return experiments.Run(ctx, fs.Arg(0), *outDir)
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			return i
		}
	}
	return def
}

func getEnvUint(k string, def uint64) uint64 {
	if v := os.Getenv(k); v != "" {
		var u uint64
		if _, err := fmt.Sscanf(v, "%d", &u); err == nil {
			return u
		}
	}
	return def
}
