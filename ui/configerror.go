package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// configErrorView is a full-screen notice shown when the app cannot start,
// typically because no API key was found. Any key exits.
type configErrorView struct {
	message string
	width   int
	height  int
}

func (v configErrorView) Init() tea.Cmd {
	return nil
}

func (v configErrorView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil
	case tea.KeyMsg:
		return v, tea.Quit
	}
	return v, nil
}

func (v configErrorView) View() string {
	return ErrorStyle.Render("Configuration Error") + "\n\n" +
		v.message + "\n\n" +
		"Set an API key for your provider and restart:\n\n" +
		DimStyle.Render("  export GEMINI_API_KEY=\"YOUR_API_KEY_HERE\"") + "\n" +
		DimStyle.Render("  # or PSCOPILOT_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY") + "\n\n" +
		"Keys can also be stored in credentials.toml under the data directory.\n\n" +
		StatusStyle.Render("Press any key to exit.")
}

// RunConfigError shows the configuration error screen and blocks until the
// user dismisses it.
func RunConfigError(message string) error {
	p := tea.NewProgram(configErrorView{message: message}, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
