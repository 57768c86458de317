package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Transcript is the ordered, append-only log of turns: the single source of
// truth both rendered by the frontend and resent to the completion backend.
// Turns are never reordered or deleted except by Reset. The orchestrator is
// the only writer; the lock exists so frontends can take snapshots while a
// turn is streaming.
type Transcript struct {
	mu       sync.RWMutex
	turns    []Turn
	welcome  string
	onChange []func()
}

// NewTranscript creates a transcript seeded with a welcome turn.
func NewTranscript(welcome string) *Transcript {
	t := &Transcript{welcome: welcome}
	t.turns = []Turn{t.welcomeTurn()}
	return t
}

func (t *Transcript) welcomeTurn() Turn {
	return Turn{
		ID:        uuid.New().String(),
		Kind:      KindWelcome,
		Text:      t.welcome,
		Timestamp: time.Now(),
	}
}

// OnChange registers a callback invoked after every mutation. Callbacks run
// on the mutating goroutine and must not call back into the transcript.
func (t *Transcript) OnChange(fn func()) {
	t.mu.Lock()
	t.onChange = append(t.onChange, fn)
	t.mu.Unlock()
}

func (t *Transcript) notify() {
	t.mu.RLock()
	subs := t.onChange
	t.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}

// Append adds a turn and returns its ID.
func (t *Transcript) Append(turn Turn) string {
	if turn.ID == "" {
		turn.ID = uuid.New().String()
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}

	t.mu.Lock()
	t.turns = append(t.turns, turn)
	t.mu.Unlock()

	t.notify()
	return turn.ID
}

// Update mutates the turn with the given ID in place. Used to grow a model
// turn as chunks stream in and to write tool output onto a call turn.
func (t *Transcript) Update(id string, fn func(*Turn)) {
	t.mu.Lock()
	for i := range t.turns {
		if t.turns[i].ID == id {
			fn(&t.turns[i])
			break
		}
	}
	t.mu.Unlock()

	t.notify()
}

// Reset drops every turn and reinserts the welcome turn.
func (t *Transcript) Reset() {
	t.mu.Lock()
	t.turns = []Turn{t.welcomeTurn()}
	t.mu.Unlock()

	t.notify()
}

// Turns returns a snapshot copy of all turns.
func (t *Transcript) Turns() []Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.turns)
}

// TrimOldest drops the oldest turns until at most max remain, bounding the
// payload resent to the backend.
func (t *Transcript) TrimOldest(max int) {
	t.mu.Lock()
	trimmed := false
	if max >= 0 && len(t.turns) > max {
		t.turns = append([]Turn(nil), t.turns[len(t.turns)-max:]...)
		trimmed = true
	}
	t.mu.Unlock()

	if trimmed {
		t.notify()
	}
}

// Restore replaces the transcript contents with previously saved turns.
// Used when resuming a session or rebuilding from request history.
func (t *Transcript) Restore(turns []Turn) {
	t.mu.Lock()
	t.turns = make([]Turn, len(turns))
	copy(t.turns, turns)
	for i := range t.turns {
		if t.turns[i].ID == "" {
			t.turns[i].ID = uuid.New().String()
		}
	}
	t.mu.Unlock()

	t.notify()
}
