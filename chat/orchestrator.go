package chat

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"pscopilot/config"
	"pscopilot/tools"
)

const (
	// fallbackOutput is written when the model names a tool the registry
	// does not know.
	fallbackOutput = "Command executed."

	errorPrefix = "An error occurred: "
)

// Submission is one unit of user input. Text carries typed input; Call is
// set instead when a continuation choice resubmits a tool call directly.
type Submission struct {
	Text string
	Call *tools.Call
}

// Orchestrator drives the conversation loop: it turns submissions into
// transcript turns, streams model output, executes the first tool call of a
// turn and feeds raw tool data back for one analysis round. At most one
// submission is in flight at a time; submissions arriving while busy are
// dropped. No error escapes Submit.
type Orchestrator struct {
	transcript *Transcript
	completer  Completer
	registry   *tools.Registry

	busy atomic.Bool

	mu         sync.Mutex
	attachment string
}

// NewOrchestrator wires a transcript, a completion backend and a tool
// registry into a conversation loop.
func NewOrchestrator(t *Transcript, c Completer, r *tools.Registry) *Orchestrator {
	return &Orchestrator{transcript: t, completer: c, registry: r}
}

// Transcript returns the transcript the orchestrator writes to.
func (o *Orchestrator) Transcript() *Transcript { return o.transcript }

// Busy reports whether a submission is in flight.
func (o *Orchestrator) Busy() bool { return o.busy.Load() }

// SetAttachment stages an image data URL to ride along with the next text
// submission. It replaces any previously staged attachment.
func (o *Orchestrator) SetAttachment(dataURL string) {
	o.mu.Lock()
	o.attachment = dataURL
	o.mu.Unlock()
}

// Attachment returns the currently staged image data URL, if any.
func (o *Orchestrator) Attachment() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.attachment
}

func (o *Orchestrator) takeAttachment() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	a := o.attachment
	o.attachment = ""
	return a
}

// Submit processes one submission to completion: model turn, tool
// execution, analysis round. It blocks until the whole exchange is done and
// silently drops the submission if another one is already in flight.
func (o *Orchestrator) Submit(ctx context.Context, sub Submission) {
	if !o.busy.CompareAndSwap(false, true) {
		return
	}
	defer o.busy.Store(false)

	if sub.Call != nil {
		id := o.transcript.Append(Turn{
			Kind:     KindFunctionCall,
			Text:     "Internal Call: " + sub.Call.Name,
			Call:     sub.Call,
			Internal: true,
		})
		o.runTool(ctx, id, *sub.Call)
		return
	}

	image := o.Attachment()
	if sub.Text == "" && image == "" {
		return
	}

	if strings.EqualFold(sub.Text, "clear") {
		o.takeAttachment()
		o.transcript.Reset()
		return
	}

	o.transcript.Append(Turn{
		Kind:  KindUserText,
		Text:  sub.Text,
		Image: o.takeAttachment(),
	})

	o.runModelTurn(ctx, false)
}

// runModelTurn streams one completion into a fresh model turn. For primary
// turns the first tool call of the stream, if any, is executed afterwards;
// analysis turns never chain into another tool.
func (o *Orchestrator) runModelTurn(ctx context.Context, analysis bool) {
	snapshot := o.transcript.Turns()

	modelID := o.transcript.Append(Turn{
		Kind:     KindModelText,
		Analysis: analysis,
	})

	var buf strings.Builder
	var firstCall *tools.Call

	err := o.completer.Complete(ctx, snapshot, func(chunk string, calls []tools.Call) error {
		if chunk != "" {
			buf.WriteString(chunk)
			text := buf.String()
			o.transcript.Update(modelID, func(t *Turn) {
				t.Text = text
			})
		}
		if firstCall == nil && len(calls) > 0 {
			c := calls[0]
			firstCall = &c
		}
		return nil
	})
	if err != nil {
		o.failTurn(modelID, buf.String(), err)
		return
	}

	if analysis || firstCall == nil {
		return
	}

	callID := o.transcript.Append(Turn{
		Kind: KindFunctionCall,
		Text: firstCall.Name,
		Call: firstCall,
	})
	o.runTool(ctx, callID, *firstCall)
}

// failTurn records a completion error. Partial streamed text is preserved
// and the error lands in a turn of its own; a turn that never produced text
// absorbs the error message directly.
func (o *Orchestrator) failTurn(modelID, partial string, err error) {
	config.Debugf("completion error: %v", err)
	msg := errorPrefix + err.Error()
	if partial == "" {
		o.transcript.Update(modelID, func(t *Turn) {
			t.Text = msg
			t.IsError = true
		})
		return
	}
	o.transcript.Append(Turn{
		Kind:    KindModelText,
		Text:    msg,
		IsError: true,
	})
}

// runTool executes a tool call, writes its display output onto the call
// turn and, when the tool produced raw data, feeds that back to the model
// for one analysis round.
func (o *Orchestrator) runTool(ctx context.Context, callID string, call tools.Call) {
	exec, ok := o.registry.Lookup(call.Name)
	if !ok {
		config.Debugf("unknown tool requested: %s", call.Name)
		o.transcript.Update(callID, func(t *Turn) {
			t.Output = fallbackOutput
		})
		return
	}

	if err := o.registry.Validate(call); err != nil {
		config.Debugf("tool %s rejected args: %v", call.Name, err)
		o.transcript.Update(callID, func(t *Turn) {
			t.Output = errorPrefix + err.Error()
			t.IsError = true
		})
		return
	}

	res, err := exec(ctx, call.Args)
	if err != nil {
		config.Debugf("tool %s failed: %v", call.Name, err)
		o.transcript.Update(callID, func(t *Turn) {
			t.Output = errorPrefix + err.Error()
			t.IsError = true
		})
		return
	}
	if res == nil {
		o.transcript.Update(callID, func(t *Turn) {
			t.Output = fallbackOutput
		})
		return
	}

	o.transcript.Update(callID, func(t *Turn) {
		t.Output = res.Display.String()
		if len(res.Display.Lines) > 0 {
			reveal := res.Display
			t.Reveal = &reveal
		}
		t.Prompt = res.Prompt
	})

	if res.RawData == "" {
		return
	}

	o.transcript.Append(Turn{
		Kind: KindFunctionResponse,
		Response: &FunctionResponse{
			Name:    call.Name,
			Content: res.RawData,
		},
	})

	o.runModelTurn(ctx, true)
}

// Resolve turns a continuation choice into the submission that continues
// the exchange.
func Resolve(c tools.Choice) Submission {
	if c.Call != nil {
		return Submission{Call: c.Call}
	}
	return Submission{Text: c.Text}
}
