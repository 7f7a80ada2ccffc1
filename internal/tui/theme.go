package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for the TUI
type Theme struct {
	ActiveBorder   lipgloss.Style
	InactiveBorder lipgloss.Style
	Title          lipgloss.Style
	Status         lipgloss.Style
	Error          lipgloss.Style
	Warning        lipgloss.Style
	Success        lipgloss.Style
	Normal         lipgloss.Style
	Subtle         lipgloss.Style
}

// DefaultTheme returns the default theme
func DefaultTheme() Theme {
	return Theme{
		ActiveBorder:   lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1),
		InactiveBorder: lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).Padding(0, 1),
		Title:          lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Status:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Error:          lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Warning:        lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		Success:        lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
		Normal:         lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Subtle:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
