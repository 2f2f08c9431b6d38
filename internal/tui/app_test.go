package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/shopctl/internal/agent"
	"github.com/jask/shopctl/internal/config"
)

type fakeRunner struct {
	mu       sync.Mutex
	calls    int
	lastReq  agent.Request
	progress []agent.ProgressUpdate
	out      *agent.Output
	err      error
}

func (f *fakeRunner) Run(_ context.Context, req agent.Request, onProgress agent.ProgressFunc) (*agent.Output, error) {
	f.mu.Lock()
	f.calls++
	f.lastReq = req
	f.mu.Unlock()
	for _, u := range f.progress {
		onProgress(u)
	}
	return f.out, f.err
}

func (f *fakeRunner) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestApp(t *testing.T, r Runner, initial agent.Request) *App {
	t.Helper()
	return New(context.Background(), config.Config{}, r, nil, initial)
}

func press(a *App, m tea.KeyMsg) tea.Cmd {
	_, cmd := a.Update(m)
	return cmd
}

func pressEnter(a *App) tea.Cmd { return press(a, tea.KeyMsg{Type: tea.KeyEnter}) }

func typeString(a *App, s string) {
	for _, r := range s {
		press(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// submitForm walks the focus through every field and submits, returning the
// command produced by the final enter.
func submitForm(a *App) tea.Cmd {
	var cmd tea.Cmd
	for i := 0; i <= formFieldCount; i++ {
		cmd = pressEnter(a)
	}
	return cmd
}

// pump executes a command the way the runtime would, feeding every resulting
// message back into Update. Batches are executed in order.
func pump(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			pump(t, a, c)
		}
		return
	}
	_, _ = a.Update(msg)
}

// drainRun feeds the remaining supervisor events through Update until the
// run settles. A run that already settled on its first event is a no-op.
func drainRun(t *testing.T, a *App) {
	t.Helper()
	ch := a.events
	for a.screen == screenRunning {
		require.NotNil(t, ch, "run was not started")
		msg, ok := <-ch
		require.True(t, ok)
		_, _ = a.Update(msg)
	}
}

func acceptedOutput() *agent.Output {
	return &agent.Output{
		Success: true,
		Cart: agent.Cart{
			Items:  []agent.CartItem{{Title: "Wireless Mouse", PriceCents: 3299, Quantity: 1}},
			Totals: agent.CartTotals{SubtotalCents: 3299, TotalCents: 3299},
		},
		Validation: agent.Validation{Decision: agent.DecisionAccept},
	}
}

func TestWelcomeToInput(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, &fakeRunner{}, agent.Request{})
	require.Equal(t, screenWelcome, a.screen)

	pressEnter(a)
	require.Equal(t, screenInput, a.screen)
	require.Equal(t, fieldRequirements, a.focus)
}

func TestEmptyRequirementsStaysOnForm(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{}
	a := newTestApp(t, r, agent.Request{})
	pressEnter(a) // welcome -> input

	// Step through every field and submit with nothing entered.
	submitForm(a)
	require.Equal(t, screenInput, a.screen)
	require.Equal(t, "requirements must not be empty", a.formErr)
	require.Equal(t, fieldRequirements, a.focus)
	require.Zero(t, r.callCount())
}

func TestSubmitRunsToResults(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{
		progress: []agent.ProgressUpdate{
			{Step: 0, Line: "STEP 1: CREATE SHOPPING PLAN"},
			{Step: 1, Detail: "Navigating to https://shop.example", Line: "Navigating"},
		},
		out: acceptedOutput(),
	}
	a := newTestApp(t, r, agent.Request{})
	pressEnter(a) // welcome -> input
	typeString(a, "buy a mouse")
	cmd := submitForm(a)
	require.Equal(t, screenRunning, a.screen)

	pump(t, a, cmd)
	drainRun(t, a)

	require.Equal(t, screenResults, a.screen)
	require.Equal(t, 1, r.callCount())
	require.Equal(t, "buy a mouse", r.lastReq.Requirements)
	require.False(t, r.lastReq.Headless)
	require.NotNil(t, a.output)
	require.Equal(t, agent.DecisionAccept, a.output.Validation.Decision)
	require.Equal(t, len(agent.Steps)-1, a.stepIndex)
	require.Contains(t, a.View(), "Wireless Mouse")
}

func TestRunFailureShowsError(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{err: errors.New("agent exited with code 2")}
	a := newTestApp(t, r, agent.Request{})
	pressEnter(a)
	typeString(a, "buy a mouse")
	pump(t, a, submitForm(a))
	drainRun(t, a)

	require.Equal(t, screenError, a.screen)
	require.Contains(t, a.runErr, "exited with code 2")
	require.Contains(t, a.View(), "exited with code 2")
}

func TestDisplayedStepNeverDecreases(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{
		progress: []agent.ProgressUpdate{
			{Step: 3, Line: "Cart total: $32.99"},
			{Step: 1, Line: "Navigating to product page"},
		},
		out: acceptedOutput(),
	}
	a := newTestApp(t, r, agent.Request{})
	pressEnter(a)
	typeString(a, "buy a mouse")
	cmd := submitForm(a)

	// First event arrives through the start command, the rest over the
	// channel.
	pump(t, a, cmd)
	require.Equal(t, 3, a.stepIndex)
	_, _ = a.Update(<-a.events)
	require.Equal(t, 3, a.stepIndex, "earlier-phase marker must not move the display backwards")
}

func TestRestartClearsRunState(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{out: acceptedOutput()}
	a := newTestApp(t, r, agent.Request{Headless: true})
	require.True(t, a.headless)

	pressEnter(a)
	typeString(a, "buy a mouse")
	pump(t, a, submitForm(a))
	drainRun(t, a)
	require.Equal(t, screenResults, a.screen)

	press(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	require.Equal(t, screenWelcome, a.screen)
	require.Nil(t, a.output)
	require.Empty(t, a.logLines)
	require.Zero(t, a.stepIndex)
	require.Empty(t, a.runErr)
	require.Empty(t, a.inputs[fieldRequirements].Value())
	require.True(t, a.headless, "headless is process-wide and survives restart")
}

func TestAutostartSkipsForm(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{out: acceptedOutput()}
	a := newTestApp(t, r, agent.Request{Requirements: "buy a mouse", Budget: "50", Headless: true})
	require.Equal(t, screenRunning, a.screen)

	// Init launches the run for flag-supplied requests.
	pump(t, a, a.Init())
	drainRun(t, a)

	require.Equal(t, screenResults, a.screen)
	require.Equal(t, 1, r.callCount())
	require.Equal(t, "buy a mouse", r.lastReq.Requirements)
	require.Equal(t, "50", r.lastReq.Budget)
	require.True(t, r.lastReq.Headless)
}
