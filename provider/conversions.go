package provider

import (
	"encoding/json"

	"pscopilot/chat"
	"pscopilot/tools"
)

// Message is the provider-neutral shape a conversation is lowered to before
// each backend translates it into its SDK's types.
type Message struct {
	Role      string
	Content   string
	ImageMIME string
	ImageData string
}

// FromTurns lowers transcript turns into neutral messages. The welcome
// banner and model turns that never produced text are dropped; function
// calls become short assistant notes and function responses ride as tool
// messages.
func FromTurns(turns []chat.Turn) []Message {
	out := make([]Message, 0, len(turns))
	for _, t := range turns {
		switch t.Kind {
		case chat.KindWelcome:
			// Never sent to the backend.
		case chat.KindUserText:
			m := Message{Role: "user", Content: t.Text}
			if t.Image != "" {
				m.ImageMIME, m.ImageData = chat.ParseDataURL(t.Image)
			}
			out = append(out, m)
		case chat.KindModelText:
			if t.Text == "" {
				continue
			}
			out = append(out, Message{Role: "assistant", Content: t.Text})
		case chat.KindFunctionCall:
			if t.Call == nil {
				continue
			}
			out = append(out, Message{Role: "assistant", Content: describeCall(t.Call)})
		case chat.KindFunctionResponse:
			if t.Response == nil {
				continue
			}
			out = append(out, Message{
				Role:    "tool",
				Content: "Output of " + t.Response.Name + ":\n" + t.Response.Content,
			})
		}
	}
	return out
}

func describeCall(c *tools.Call) string {
	if len(c.Args) == 0 {
		return "Calling tool " + c.Name
	}
	args, err := json.Marshal(c.Args)
	if err != nil {
		return "Calling tool " + c.Name
	}
	return "Calling tool " + c.Name + " with arguments " + string(args)
}

// ParseToolArguments parses a JSON arguments string into a map. A parse
// failure yields an empty map rather than an error.
func ParseToolArguments(argsJSON string) map[string]any {
	var args map[string]any
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return make(map[string]any)
	}
	return args
}
