package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai2048/game"
	"ai2048/gamemaster"
	"ai2048/searcher"
	"ai2048/searcher/agent"
	"ai2048/utils"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
)

// Settings configures every game started from the menu.
type Settings struct {
	Game   game.Config
	Search []searcher.Option // Applied before the menu item's own options
	Delay  time.Duration     // Pause between agent moves
}

type screen int

const (
	menuScreen screen = iota
	gameScreen
)

// decisionMsg carries the outcome of one agent step.
type decisionMsg struct {
	run      int
	decision searcher.Decision
	err      error
}

// stepMsg asks for the next agent step once the delay has passed.
type stepMsg struct {
	run int
}

var keyMoves = map[string]game.Move{
	"up": game.Up, "w": game.Up, "k": game.Up,
	"down": game.Down, "s": game.Down, "j": game.Down,
	"left": game.Left, "a": game.Left, "h": game.Left,
	"right": game.Right, "d": game.Right, "l": game.Right,
}

type model struct {
	parent   context.Context
	settings Settings

	screen  screen
	cursor  int
	item    menuItem
	session *gamemaster.LocalSession

	agent    agent.Agent
	describe string
	lines    []string
	nodes    int
	depth    int
	run      int // Bumped whenever autoplay starts or stops, so stale messages are dropped
	runCtx   context.Context
	cancel   context.CancelFunc
	running  bool
	message  string
	err      error
}

func newModel(ctx context.Context, settings Settings) model {
	return model{parent: ctx, settings: settings}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m = m.stop()
			return m, tea.Quit
		}
		if m.screen == menuScreen {
			return m.updateMenu(msg)
		}
		return m.updateGame(msg)
	case stepMsg:
		if msg.run != m.run || !m.running {
			return m, nil
		}
		return m, m.advance()
	case decisionMsg:
		if msg.run != m.run {
			return m, nil
		}
		return m.handleDecision(msg)
	}
	return m, nil
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.cursor = (m.cursor + len(menu) - 1) % len(menu)
	case "down", "j":
		m.cursor = (m.cursor + 1) % len(menu)
	case "enter":
		return m.start(menu[m.cursor])
	}
	return m, nil
}

func (m model) updateGame(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "m":
		m = m.stop()
		m.screen = menuScreen
		m.cursor = utils.FindIndex(labels(), m.item.label)
		return m, nil
	case "r":
		m = m.stop()
		if err := m.session.Restart(); err != nil {
			m.err = err
			return m, nil
		}
		m.err, m.message, m.lines = nil, "", nil
		if !m.item.keyboard {
			return m.autoplay()
		}
		return m, nil
	case "c":
		m.session.Continue()
		m.message = ""
		return m, nil
	}

	move, ok := keyMoves[msg.String()]
	if !ok || !m.item.keyboard {
		return m, nil
	}
	err := m.session.Play(move)
	switch {
	case errors.Is(err, game.ErrIllegalMove):
		m.message = fmt.Sprintf("%s does not move any tile.", move)
	case err != nil:
		m.err = err
	default:
		m.message = phaseMessage(m.session.State())
	}
	return m, nil
}

// start opens a new game for the chosen menu item.
func (m model) start(item menuItem) (tea.Model, tea.Cmd) {
	session, err := gamemaster.NewLocalSession(m.settings.Game)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.item, m.session, m.screen = item, session, gameScreen
	m.err, m.message, m.lines, m.agent, m.describe = nil, "", nil, nil, ""
	if item.keyboard {
		m.describe = "Use the arrow keys, wasd or hjkl to slide the tiles."
		return m, nil
	}

	options := append(append([]searcher.Option{}, m.settings.Search...), item.options...)
	config, err := searcher.NewConfig(options...)
	if err != nil {
		m.err = err
		return m, nil
	}
	a, err := agent.New(item.kind, options...)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.agent = a
	m.describe = agent.Describe(item.kind, config)
	log.Info().Msgf("starting %s with seed %d", item.label, session.State().Seed())
	return m.autoplay()
}

func (m model) autoplay() (tea.Model, tea.Cmd) {
	m.runCtx, m.cancel = context.WithCancel(m.parent)
	m.running = true
	m.run++
	return m, m.advance()
}

// advance returns a command that runs one agent step off the UI loop.
func (m model) advance() tea.Cmd {
	ctx, session, a, run := m.runCtx, m.session, m.agent, m.run
	return func() tea.Msg {
		d, err := session.Advance(ctx, a)
		return decisionMsg{run: run, decision: d, err: err}
	}
}

func (m model) handleDecision(msg decisionMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m = m.stop()
		switch {
		case errors.Is(msg.err, context.Canceled):
		case errors.Is(msg.err, game.ErrGameOver):
			m.message = phaseMessage(m.session.State())
		default:
			log.Warn().Err(msg.err).Msg("agent step failed")
			m.err = msg.err
		}
		return m, nil
	}

	m.lines = agent.ScoreLines(msg.decision)
	m.nodes, m.depth = msg.decision.Nodes, msg.decision.Depth
	state := m.session.State()
	m.message = phaseMessage(state)
	if state.IsTerminal() {
		log.Info().Msgf("%s finished with score %d after %d moves", m.item.label, state.Score, state.Moves)
		m = m.stop()
		return m, nil
	}
	if state.Phase == game.Won {
		m.session.Continue()
	}

	run := m.run
	return m, tea.Tick(m.settings.Delay, func(time.Time) tea.Msg {
		return stepMsg{run: run}
	})
}

func (m model) stop() model {
	if m.cancel != nil {
		m.cancel()
	}
	m.cancel, m.runCtx = nil, nil
	m.running = false
	m.run++
	return m
}

func phaseMessage(state *game.GameState) string {
	switch {
	case state.IsTerminal():
		return fmt.Sprintf("Game over! Final score %d.", state.Score)
	case state.Phase == game.Won:
		return fmt.Sprintf("You reached %d! Keep going for a higher score.", game.Value(state.WinExponent()))
	default:
		return ""
	}
}

func (m model) View() string {
	if m.screen == menuScreen {
		view := renderMenu(m.cursor)
		if m.err != nil {
			view += "\n\n" + errorStyle.Render(m.err.Error())
		}
		return view
	}

	state := m.session.State()
	maxTile, _ := state.Board.MaxTile()

	var panel strings.Builder
	panel.WriteString(titleStyle.Render(m.item.label))
	panel.WriteString("\n\n")
	fmt.Fprintf(&panel, "Score:    %d\n", state.Score)
	fmt.Fprintf(&panel, "Moves:    %d\n", state.Moves)
	fmt.Fprintf(&panel, "Max tile: %d\n", game.Value(maxTile))
	if m.describe != "" {
		panel.WriteString("\n" + m.describe + "\n")
	}
	if len(m.lines) > 0 {
		fmt.Fprintf(&panel, "\nLast decision (nodes %d, depth %d):\n", m.nodes, m.depth)
		panel.WriteString(strings.Join(m.lines, "\n"))
		panel.WriteString("\n")
	}
	if m.message != "" {
		panel.WriteString("\n" + selectedStyle.Render(m.message) + "\n")
	}
	if m.err != nil {
		panel.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}
	panel.WriteString("\n" + hintStyle.Render("r restart, c continue, esc menu, q quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, renderBoard(state.Board), " ", panelStyle.Render(panel.String()))
}
