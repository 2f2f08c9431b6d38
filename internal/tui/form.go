package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/shopctl/internal/agent"
)

// Form field order. The headless toggle sits after the text fields as the
// last focusable row.
const (
	fieldRequirements = iota
	fieldBudget
	fieldDomain
	fieldInstructions
	formFieldCount
)

var formLabels = [formFieldCount]string{
	"Requirements (required)",
	"Budget ($)",
	"Merchant domain",
	"Instructions",
}

func newFormInputs(initial agent.Request) []textinput.Model {
	placeholders := [formFieldCount]string{
		"what to buy, in plain language",
		"e.g. 50",
		"https://merchant.example",
		"extra guidance for the agent",
	}
	values := [formFieldCount]string{
		initial.Requirements, initial.Budget, initial.Domain, initial.Instructions,
	}
	inputs := make([]textinput.Model, formFieldCount)
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.Prompt = "> "
		in.Width = 56
		in.SetValue(values[i])
		inputs[i] = in
	}
	inputs[fieldRequirements].Focus()
	return inputs
}

func (a *App) setFocus(i int) tea.Cmd {
	a.focus = i
	for j := range a.inputs {
		a.inputs[j].Blur()
	}
	if i < formFieldCount {
		a.inputs[i].Focus()
		return textinput.Blink
	}
	return nil
}

func (a *App) handleFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, keys.Back):
		a.formErr = ""
		a.screen = screenWelcome
		return a, nil
	case key.Matches(m, keys.Next):
		return a, a.setFocus((a.focus + 1) % (formFieldCount + 1))
	case key.Matches(m, keys.Prev):
		return a, a.setFocus((a.focus + formFieldCount) % (formFieldCount + 1))
	case key.Matches(m, keys.Confirm):
		if a.focus < formFieldCount {
			return a, a.setFocus(a.focus + 1)
		}
		return a.submitForm()
	case key.Matches(m, keys.Toggle) && a.focus == formFieldCount:
		a.headless = !a.headless
		return a, nil
	}
	if a.focus < formFieldCount {
		var cmd tea.Cmd
		a.inputs[a.focus], cmd = a.inputs[a.focus].Update(m)
		return a, cmd
	}
	return a, nil
}

// submitForm validates and, when valid, hands the Request to the supervisor.
// An empty requirements field re-prompts locally and never leaves the form.
func (a *App) submitForm() (tea.Model, tea.Cmd) {
	req := agent.Request{
		Requirements: strings.TrimSpace(a.inputs[fieldRequirements].Value()),
		Budget:       strings.TrimSpace(a.inputs[fieldBudget].Value()),
		Domain:       strings.TrimSpace(a.inputs[fieldDomain].Value()),
		Instructions: strings.TrimSpace(a.inputs[fieldInstructions].Value()),
		Headless:     a.headless,
	}
	if req.Requirements == "" {
		a.formErr = "requirements must not be empty"
		return a, a.setFocus(fieldRequirements)
	}
	a.formErr = ""
	return a, a.beginRun(req)
}

func (a *App) renderForm() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Shopping Request"))
	b.WriteString("\n\n")
	for i := range a.inputs {
		b.WriteString(labelStyle.Render(formLabels[i]))
		b.WriteString("\n")
		b.WriteString(a.inputs[i].View())
		b.WriteString("\n\n")
	}

	marker := "  "
	if a.focus == formFieldCount {
		marker = cursorStyle.Render("> ")
	}
	box := "[ ]"
	if a.headless {
		box = "[x]"
	}
	b.WriteString(marker + box + " headless browser (space to toggle)\n")

	if a.formErr != "" {
		b.WriteString("\n" + errorStyle.Render(a.formErr) + "\n")
	}
	b.WriteString("\n" + faintStyle.Render("[tab] next field  [enter] next/submit  [esc] back"))
	return b.String()
}
