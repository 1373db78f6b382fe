package searcher

import (
	"fmt"
	"time"

	"ai2048/game"
)

// Metric selects what a Monte-Carlo rollout reports.
type Metric int

const (
	AvgScore     Metric = iota // Score gained during the rollout
	AvgMoves                   // Moves survived during the rollout
	AvgHeuristic               // Heuristic value of the final board
)

func (m Metric) String() string {
	switch m {
	case AvgScore:
		return "score"
	case AvgMoves:
		return "moves"
	case AvgHeuristic:
		return "heuristic"
	default:
		return fmt.Sprintf("Metric(%d)", int(m))
	}
}

func ParseMetric(s string) (Metric, error) {
	switch s {
	case "score", "":
		return AvgScore, nil
	case "moves":
		return AvgMoves, nil
	case "heuristic":
		return AvgHeuristic, nil
	}
	return 0, fmt.Errorf("%w: unknown rollout metric %q", ErrInvalidConfig, s)
}

const (
	DefaultDepth          = 3
	DefaultEmptyThreshold = 6
	DefaultRollouts       = 200
	DefaultHorizon        = 200
)

type Config struct {
	Goroutines     int
	Depth          int  // Expectimax MAX layers
	AdaptiveDepth  bool // Drop one layer when the root has more than EmptyThreshold empty cells
	EmptyThreshold int
	Rollouts       int // Monte-Carlo playouts per legal move
	Horizon        int // Monte-Carlo moves per playout, including the candidate move
	Metric         Metric
	Weights        game.Weights
	Duration       time.Duration // Time budget per decision, 0 for none
	NodeBudget     int           // Node budget per decision, 0 for none
	Seed           uint64
	Metrics        bool
}

type Option func(c *Config)

func DefaultConfig() Config {
	return Config{
		Goroutines:     1,
		Depth:          DefaultDepth,
		AdaptiveDepth:  true,
		EmptyThreshold: DefaultEmptyThreshold,
		Rollouts:       DefaultRollouts,
		Horizon:        DefaultHorizon,
		Metric:         AvgScore,
		Weights:        game.DefaultWeights(),
		Seed:           uint64(time.Now().UnixNano()),
	}
}

// NewConfig applies the options over the defaults and validates the result.
func NewConfig(options ...Option) (Config, error) {
	c := DefaultConfig()
	for _, option := range options {
		option(&c)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	switch {
	case c.Goroutines <= 0:
		return fmt.Errorf("%w: goroutines must be positive, got %d", ErrInvalidConfig, c.Goroutines)
	case c.Depth <= 0:
		return fmt.Errorf("%w: depth must be positive, got %d", ErrInvalidConfig, c.Depth)
	case c.EmptyThreshold < 0:
		return fmt.Errorf("%w: empty threshold must not be negative, got %d", ErrInvalidConfig, c.EmptyThreshold)
	case c.Rollouts <= 0:
		return fmt.Errorf("%w: rollouts must be positive, got %d", ErrInvalidConfig, c.Rollouts)
	case c.Horizon <= 0:
		return fmt.Errorf("%w: horizon must be positive, got %d", ErrInvalidConfig, c.Horizon)
	case c.Metric < AvgScore || c.Metric > AvgHeuristic:
		return fmt.Errorf("%w: unknown rollout metric %d", ErrInvalidConfig, int(c.Metric))
	case c.Duration < 0:
		return fmt.Errorf("%w: duration must not be negative, got %s", ErrInvalidConfig, c.Duration)
	case c.NodeBudget < 0:
		return fmt.Errorf("%w: node budget must not be negative, got %d", ErrInvalidConfig, c.NodeBudget)
	}
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func WithGoroutines(goroutines int) Option {
	return func(c *Config) {
		c.Goroutines = goroutines
	}
}

func WithDepth(depth int) Option {
	return func(c *Config) {
		c.Depth = depth
	}
}

// WithAdaptiveDepth toggles depth reduction on open boards. The threshold is
// only changed when positive.
func WithAdaptiveDepth(enabled bool, threshold int) Option {
	return func(c *Config) {
		c.AdaptiveDepth = enabled
		if threshold > 0 {
			c.EmptyThreshold = threshold
		}
	}
}

func WithRollouts(rollouts int) Option {
	return func(c *Config) {
		c.Rollouts = rollouts
	}
}

func WithHorizon(horizon int) Option {
	return func(c *Config) {
		c.Horizon = horizon
	}
}

func WithMetric(metric Metric) Option {
	return func(c *Config) {
		c.Metric = metric
	}
}

func WithWeights(weights game.Weights) Option {
	return func(c *Config) {
		c.Weights = weights
	}
}

func WithDuration(duration time.Duration) Option {
	return func(c *Config) {
		c.Duration = duration
	}
}

// WithNodeBudget stops iterative deepening once the nodes searched so far reach
// the budget. The iteration that crosses it still runs to completion.
func WithNodeBudget(nodes int) Option {
	return func(c *Config) {
		c.NodeBudget = nodes
	}
}

func WithSeed(seed uint64) Option {
	return func(c *Config) {
		c.Seed = seed
	}
}

func WithMetrics() Option {
	return func(c *Config) {
		c.Metrics = true
	}
}
