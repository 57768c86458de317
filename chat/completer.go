package chat

import (
	"context"

	"pscopilot/tools"
)

// StreamCallback receives incremental model output. chunk holds new text
// since the previous call and may be empty when only tool calls arrived.
// Returning an error aborts the completion.
type StreamCallback func(chunk string, calls []tools.Call) error

// Completer produces a model completion for a conversation. Implementations
// translate turns into their backend's wire format; the welcome turn and
// turns with no content are skipped during translation.
type Completer interface {
	Complete(ctx context.Context, turns []Turn, cb StreamCallback) error
}
