// Package tui is the terminal front end: a Bubble Tea model owning the
// screen state machine (welcome → input → running → results/error) and the
// data threaded between screens.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jask/shopctl/internal/agent"
	"github.com/jask/shopctl/internal/config"
	"github.com/jask/shopctl/internal/history"
)

type screen string

const (
	screenWelcome screen = "welcome"
	screenInput   screen = "input"
	screenRunning screen = "running"
	screenResults screen = "results"
	screenError   screen = "error"
)

// Runner launches one agent run. *agent.Supervisor is the production
// implementation; tests substitute their own.
type Runner interface {
	Run(ctx context.Context, req agent.Request, onProgress agent.ProgressFunc) (*agent.Output, error)
}

const recentRunLimit = 5

// App is the application state. Every screen renders from a subset of these
// fields; run-scoped fields are cleared on restart, process-wide ones
// (headless, config) survive it.
type App struct {
	ctx    context.Context
	cfg    config.Config
	runner Runner
	store  *history.Store // nil when history is unavailable

	screen   screen
	headless bool

	// input form
	inputs  []textinput.Model
	focus   int
	formErr string

	// run-scoped state
	req       agent.Request
	spin      spinner.Model
	events    chan tea.Msg
	stepIndex int
	detail    string
	logLines  []string
	output    *agent.Output
	runErr    string

	recent []history.Run
	status string
	width  int
	height int
}

// New builds the App. When initial carries requirements (supplied via CLI
// flags) the form is skipped and the run starts on Init.
func New(ctx context.Context, cfg config.Config, runner Runner, store *history.Store, initial agent.Request) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = stepCurrent

	a := &App{
		ctx:      ctx,
		cfg:      cfg,
		runner:   runner,
		store:    store,
		screen:   screenWelcome,
		headless: initial.Headless,
		inputs:   newFormInputs(initial),
		spin:     sp,
	}
	if initial.Requirements != "" {
		a.req = initial
		a.screen = screenRunning
	}
	return a
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.loadRecentCmd()}
	if a.screen == screenRunning {
		cmds = append(cmds, a.startRunCmd(), a.spin.Tick)
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
	case spinner.TickMsg:
		if a.screen == screenRunning {
			var cmd tea.Cmd
			a.spin, cmd = a.spin.Update(m)
			return a, cmd
		}
	case progressMsg:
		u := agent.ProgressUpdate(m)
		// Clamp to non-decreasing: the engine is a pure function of the log
		// and may dip if an earlier phase's vocabulary reappears.
		if u.Step > a.stepIndex {
			a.stepIndex = u.Step
		}
		if u.Detail != "" {
			a.detail = u.Detail
		}
		a.logLines = append(a.logLines, u.Line)
		return a, a.waitForEventCmd()
	case runDoneMsg:
		a.events = nil
		if m.err != nil {
			a.runErr = m.err.Error()
			a.screen = screenError
		} else {
			a.output = m.output
			a.stepIndex = len(agent.Steps) - 1
			a.screen = screenResults
		}
		return a, a.saveRunCmd(m.output)
	case recentMsg:
		a.recent = []history.Run(m)
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
	case tea.KeyMsg:
		return a.handleKey(m)
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(m, keys.ForceQuit) {
		return a, tea.Quit
	}
	switch a.screen {
	case screenWelcome:
		switch {
		case key.Matches(m, keys.Quit):
			return a, tea.Quit
		case key.Matches(m, keys.Start):
			a.screen = screenInput
			return a, a.setFocus(0)
		}
	case screenInput:
		return a.handleFormKey(m)
	case screenRunning:
		// Passive display state; the run settles it.
	case screenResults, screenError:
		switch {
		case key.Matches(m, keys.Quit):
			return a, tea.Quit
		case key.Matches(m, keys.Restart):
			return a, a.restart()
		}
	}
	return a, nil
}

// beginRun enters the running screen. The supervisor is invoked exactly once
// per entry; all further mutation happens through the event channel.
func (a *App) beginRun(req agent.Request) tea.Cmd {
	a.req = req
	a.screen = screenRunning
	a.stepIndex = 0
	a.detail = ""
	a.logLines = nil
	a.output = nil
	a.runErr = ""
	return tea.Batch(a.startRunCmd(), a.spin.Tick)
}

// startRunCmd returns the command that launches the supervisor and delivers
// its first event. Progress events and the final settlement flow through one
// buffered channel, so every model mutation still happens on the Bubble Tea
// loop and per-stream ordering is preserved.
func (a *App) startRunCmd() tea.Cmd {
	ch := make(chan tea.Msg, 64)
	a.events = ch
	ctx, runner, req := a.ctx, a.runner, a.req
	return func() tea.Msg {
		go func() {
			out, err := runner.Run(ctx, req, func(u agent.ProgressUpdate) {
				ch <- progressMsg(u)
			})
			ch <- runDoneMsg{output: out, err: err}
		}()
		return <-ch
	}
}

func (a *App) waitForEventCmd() tea.Cmd {
	ch := a.events
	if ch == nil {
		return nil
	}
	return func() tea.Msg { return <-ch }
}

func (a *App) loadRecentCmd() tea.Cmd {
	if a.store == nil {
		return nil
	}
	return func() tea.Msg {
		runs, err := a.store.Recent(a.ctx, recentRunLimit)
		if err != nil {
			return errMsg{err}
		}
		return recentMsg(runs)
	}
}

func (a *App) saveRunCmd(out *agent.Output) tea.Cmd {
	if a.store == nil {
		return nil
	}
	r := history.Run{
		ID:           uuid.NewString(),
		Requirements: a.req.Requirements,
		CreatedAt:    time.Now().UTC(),
	}
	if out != nil {
		r.Decision = out.Validation.Decision
		r.TotalCents = out.Cart.Totals.TotalCents
		r.Success = out.Success
	}
	return func() tea.Msg {
		if err := a.store.Insert(a.ctx, r); err != nil {
			return errMsg{err}
		}
		return statusMsg("run recorded")
	}
}

// restart returns to the welcome screen, discarding all run-scoped state.
// The headless flag and configuration are process-wide and survive.
func (a *App) restart() tea.Cmd {
	a.screen = screenWelcome
	a.req = agent.Request{}
	a.stepIndex = 0
	a.detail = ""
	a.logLines = nil
	a.output = nil
	a.runErr = ""
	a.formErr = ""
	a.status = ""
	a.inputs = newFormInputs(agent.Request{})
	a.focus = 0
	return a.loadRecentCmd()
}

func (a *App) View() string {
	var body string
	switch a.screen {
	case screenInput:
		body = a.renderForm()
	case screenRunning:
		body = a.renderRunning()
	case screenResults:
		body = a.renderResults()
	case screenError:
		body = a.renderError()
	default:
		body = a.renderWelcome()
	}
	if a.status != "" {
		body += "\n" + statusStyle.Render(a.status)
	}
	return body
}

// messages
type progressMsg agent.ProgressUpdate

type runDoneMsg struct {
	output *agent.Output
	err    error
}

type recentMsg []history.Run

type statusMsg string

type errMsg struct{ error }
