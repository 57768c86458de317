// Package chat implements the conversation core: the transcript of turns,
// the completion-client contract, and the orchestrator that drives the
// tool-calling loop.
package chat

import (
	"time"

	"pscopilot/tools"
)

// Kind discriminates the turn variants in a transcript.
type Kind string

const (
	// KindWelcome is the banner turn seeded on startup and reset. It is
	// rendered but never sent to the completion backend.
	KindWelcome Kind = "welcome"

	// KindUserText is user-authored input, optionally with an inline image.
	KindUserText Kind = "user"

	// KindModelText is text accumulated from the model for one turn.
	KindModelText Kind = "model"

	// KindFunctionCall is the model's request to invoke exactly one tool.
	// The tool's display output is written back onto this turn.
	KindFunctionCall Kind = "function_call"

	// KindFunctionResponse is the compact tool result echoed to the model.
	KindFunctionResponse Kind = "function_response"
)

// FunctionResponse is the machine-readable echo of a tool result. Content
// is always textual, never the rich display payload.
type FunctionResponse struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Turn is one atomic entry in the transcript.
type Turn struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`

	// Text holds user input on user turns and accumulated model output on
	// model turns.
	Text string `json:"text,omitempty"`

	// Image is an inline attachment as a data URL, user turns only.
	Image string `json:"image,omitempty"`

	Call     *tools.Call       `json:"call,omitempty"`
	Response *FunctionResponse `json:"response,omitempty"`

	// Output is the tool's flattened display, written onto the
	// function-call turn once the tool completes.
	Output string `json:"output,omitempty"`

	// Reveal carries the timed line-reveal form of Output for frontends
	// that animate simulated command output. Presentation only.
	Reveal *tools.Display `json:"-"`

	// Prompt asks the user to pick a continuation choice before the tool's
	// real effect runs.
	Prompt *tools.Continuation `json:"-"`

	// Analysis marks model text produced in response to a tool result.
	// Affects presentation only, not protocol.
	Analysis bool `json:"analysis,omitempty"`

	// Internal marks a function-call turn that was submitted by a
	// continuation choice rather than requested by the model.
	Internal bool `json:"internal,omitempty"`

	IsError bool `json:"is_error,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}
