// Package tools implements the copilot's tool registry and executors.
//
// A tool is a named function the model may request via a function call.
// Every tool declares its schema as an mcp.Tool value; the same schema shape
// is converted to each completion backend's wire format by the provider
// layer, so declarations stay backend-agnostic.
//
// Executors return a Result with two facets: Display is what the user sees,
// RawData is the compact summary fed back to the model for analysis. A tool
// that produces no RawData ends the turn after its display is shown.
package tools

import (
	"context"
	"strings"
	"time"
)

// Call is a model-issued request to invoke one named tool.
type Call struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// Result is the outcome of one tool invocation.
type Result struct {
	// Display is the rich, user-facing payload.
	Display Display

	// RawData is the compact machine-readable summary sent back to the
	// model. When empty, no analysis round trip happens.
	RawData string

	// Prompt, when set, pauses the tool and asks the user to pick among
	// enumerated next actions before the tool's real effect runs.
	Prompt *Continuation
}

// Display is a tool's user-facing output. When Lines is set the frontend
// reveals them one at a time on a fixed timer, simulating a long-running
// command; otherwise Text is shown at once.
type Display struct {
	Text     string
	Lines    []string
	Interval time.Duration
}

// String flattens the display for non-animated frontends.
func (d Display) String() string {
	if len(d.Lines) > 0 {
		return strings.Join(d.Lines, "\n")
	}
	return d.Text
}

// Continuation asks the user to choose how an interactive tool proceeds.
// Each choice is resubmitted through the ordinary conversation entry point:
// either as plain user text or as a pre-built internal function call.
type Continuation struct {
	Message string
	Choices []Choice
}

// Choice is one selectable continuation action. Exactly one of Text or
// Call is set.
type Choice struct {
	Label string
	Text  string
	Call  *Call
}

// Executor runs one validated tool invocation. Executors must not fail for
// expected input; backend failures are reported through the Result display
// rather than an error so they never crash the conversation loop.
type Executor func(ctx context.Context, args map[string]any) (*Result, error)
