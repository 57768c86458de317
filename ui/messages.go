package ui

// transcriptChangedMsg fires whenever the orchestrator mutates the
// transcript, from any goroutine.
type transcriptChangedMsg struct{}

// submitDoneMsg fires when a submission has run to completion.
type submitDoneMsg struct{}

// revealTickMsg advances the line-by-line reveal of a tool output.
type revealTickMsg struct {
	turnID string
}

// attachResultMsg reports the outcome of an /attach command.
type attachResultMsg struct {
	path string
	err  error
}

// transcriptSavedMsg reports the outcome of saving the conversation.
type transcriptSavedMsg struct {
	id  string
	err error
}
