package cliui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	KeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	ValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	DimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	NameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	HeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	IDStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("147"))
	WarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	ErrStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	urgentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	highStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	lowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// DisableColor forces the plain ASCII color profile. Honors --no-color
// and the NO_COLOR convention.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// ColorDisabledByEnv reports whether the environment asks for plain output.
func ColorDisabledByEnv() bool {
	return os.Getenv("NO_COLOR") != "" || termenv.EnvNoColor()
}

// Priority renders a Linear priority number (0 none, 1 urgent, 2 high,
// 3 normal, 4 low) for table display.
func Priority(priority int) string {
	switch priority {
	case 1:
		return urgentStyle.Render("Urgent")
	case 2:
		return highStyle.Render("High")
	case 3:
		return "Normal"
	case 4:
		return lowStyle.Render("Low")
	default:
		return "-"
	}
}
