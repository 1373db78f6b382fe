package engine

import (
	"context"
	"errors"
	"time"

	"ai2048/experiments/metrics"
	"ai2048/game"
	"ai2048/gamemaster"
	"ai2048/searcher/agent"

	"github.com/rs/zerolog/log"
)

// Local drives a session with a single agent in the current process.
type Local struct {
	Session   *gamemaster.LocalSession
	Agent     agent.Agent
	Name      string
	MaxMoves  int  // 0 for no cap
	StopOnWin bool // Otherwise a win is acknowledged and play continues
}

func LocalEngine(config game.Config, a agent.Agent, name string) (*Local, error) {
	session, err := gamemaster.NewLocalSession(config)
	if err != nil {
		return nil, err
	}
	return &Local{Session: session, Agent: a, Name: name}, nil
}

// Run executes the game loop. The metrics of the moves played so far are
// returned together with a context error.
func (e *Local) Run(ctx context.Context) (metrics.GameMetric, []metrics.MoveMetric, error) {
	state := e.Session.State()
	gameMetric := metrics.GameMetric{Seed: state.Seed(), StartTime: time.Now()}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("%s agent is starting game with seed %d", e.Name, state.Seed())

	var err error
	for {
		state = e.Session.State()
		if state.IsTerminal() {
			log.Info().Msgf("game over after %d moves with score %d", state.Moves, state.Score)
			break
		}
		if e.MaxMoves > 0 && state.Moves >= e.MaxMoves {
			log.Info().Msgf("stopped after %d moves (game not over yet)", state.Moves)
			break
		}
		if state.Phase == game.Won {
			if e.StopOnWin {
				log.Info().Msgf("won after %d moves with score %d", state.Moves, state.Score)
				break
			}
			e.Session.Continue()
		}

		d, searchErr := e.Session.Advance(ctx, e.Agent)
		if searchErr != nil {
			switch {
			case errors.Is(searchErr, context.Canceled), errors.Is(searchErr, context.DeadlineExceeded):
				log.Warn().Err(searchErr).Msgf("game interrupted after %d moves", state.Moves)
			case errors.Is(searchErr, game.ErrIllegalMove):
				log.Warn().Err(searchErr).Msgf("%s agent returned an illegal move", e.Name)
			}
			err = searchErr
			break
		}

		after := e.Session.State()
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         after.Moves,
			Move:         d.Move.String(),
			ScoreDelta:   after.Score - state.Score,
			Score:        d.Score,
			SearchMetric: d.Metric,
		})
		log.Debug().Msgf("move %d: %s for %d points", after.Moves, d.Move, after.Score-state.Score)
	}

	state = e.Session.State()
	maxTile, _ := state.Board.MaxTile()
	gameMetric.Score = state.Score
	gameMetric.Moves = state.Moves
	gameMetric.MaxTile = game.Value(maxTile)
	gameMetric.Won = state.Reached
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)

	return gameMetric, moveMetrics, err
}
