package meta

import "time"

// GO_ROUTINES defines the number of goroutines an agent searches with.
const GO_ROUTINES = 4

// DEPTH defines the number of expectimax MAX layers.
const DEPTH = 3

// ROLLOUTS defines the number of Monte-Carlo playouts per legal move.
const ROLLOUTS = 200

// HORIZON defines the maximum length of a Monte-Carlo playout.
const HORIZON = 200

// MAX_MOVES caps a headless game, 0 plays until the board is stuck.
const MAX_MOVES = 0

// AGENT names the agent used when none is given.
const AGENT = "expectimax"

// OUT_DIR is where experiment results are written.
const OUT_DIR = "results"

// AUTOPLAY_DELAY is the pause between agent moves in the terminal UI.
const AUTOPLAY_DELAY = 50 * time.Millisecond
