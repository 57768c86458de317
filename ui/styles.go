package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	dimColor       = lipgloss.Color("7")
	accentColor    = lipgloss.Color("12")
	successColor   = lipgloss.Color("10")
	warningColor   = lipgloss.Color("11")
	dangerColor    = lipgloss.Color("9")
	highlightColor = lipgloss.Color("13")

	// User command style
	UserStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	// Model response style
	AssistantStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	// Analysis responses after a tool run
	AnalysisStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(dangerColor)

	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	TitleStyle = lipgloss.NewStyle().
			Bold(true)

	PromptStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(dimColor)
)
