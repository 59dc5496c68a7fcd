package ui

import "github.com/charmbracelet/lipgloss"

// ANSI base colors so themes stay readable on light and dark terminals.
var (
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)

	ReplyStyle = lipgloss.NewStyle().PaddingLeft(2)
)
