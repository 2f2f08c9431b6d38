package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	faintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	stepDone     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	stepCurrent  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	stepPending  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func decisionStyle(decision string) lipgloss.Style {
	switch decision {
	case "ACCEPT":
		return successStyle
	case "REJECT":
		return errorStyle
	default:
		return warnStyle
	}
}
