package provider

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"pscopilot/chat"
	"pscopilot/tools"
)

// AnthropicCompleter streams completions from Anthropic's messages API.
type AnthropicCompleter struct {
	client *anthropic.Client
	model  anthropic.Model
	system string
	tools  []mcptypes.Tool
}

// NewAnthropicCompleter creates an Anthropic-backed completer. baseURL and
// model fall back to the hosted API and Claude Sonnet when empty.
func NewAnthropicCompleter(baseURL, apiKey, model, system string, schemas []mcptypes.Tool) (*AnthropicCompleter, error) {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	var anthropicModel anthropic.Model
	if model == "" {
		anthropicModel = anthropic.ModelClaudeSonnet4_5_20250929
	} else {
		anthropicModel = anthropic.Model(model)
	}

	client := anthropic.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &AnthropicCompleter{
		client: &client,
		model:  anthropicModel,
		system: system,
		tools:  schemas,
	}, nil
}

// Complete implements chat.Completer with streaming support. Text deltas
// fire as they arrive; tool calls surface once the message is complete.
func (p *AnthropicCompleter) Complete(ctx context.Context, turns []chat.Turn, cb chat.StreamCallback) error {
	params := anthropic.MessageNewParams{
		Model:     p.model,
		Messages:  p.convertTurns(turns),
		MaxTokens: 4096,
	}
	if p.system != "" {
		params.System = []anthropic.TextBlockParam{{Text: p.system}}
	}
	if len(p.tools) > 0 {
		params.Tools = AnthropicToolParams(p.tools)
	}

	stream := p.client.Messages.NewStreaming(ctx, params)

	msg := anthropic.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := msg.Accumulate(event); err != nil {
			return fmt.Errorf("error accumulating message: %w", err)
		}

		switch eventVariant := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch deltaVariant := eventVariant.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if err := cb(deltaVariant.Text, nil); err != nil {
					return err
				}
			}
		}
	}

	if err := stream.Err(); err != nil {
		return fmt.Errorf("Anthropic streaming error: %w", err)
	}

	if calls := extractToolCalls(msg.Content); len(calls) > 0 {
		if err := cb("", calls); err != nil {
			return err
		}
	}
	return nil
}

func (p *AnthropicCompleter) convertTurns(turns []chat.Turn) []anthropic.MessageParam {
	msgs := FromTurns(turns)
	out := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case "assistant":
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		case "user":
			if m.ImageData != "" {
				out = append(out, anthropic.NewUserMessage(
					anthropic.NewImageBlockBase64(m.ImageMIME, m.ImageData),
					anthropic.NewTextBlock(m.Content),
				))
			} else {
				out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
			}
		default:
			// Tool output rides as a user message.
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return out
}

// extractToolCalls pulls tool use blocks out of a completed message.
func extractToolCalls(content []anthropic.ContentBlockUnion) []tools.Call {
	var calls []tools.Call
	for _, block := range content {
		if toolUse, ok := block.AsAny().(anthropic.ToolUseBlock); ok {
			calls = append(calls, tools.Call{
				Name: toolUse.Name,
				Args: ParseToolArguments(string(toolUse.Input)),
			})
		}
	}
	return calls
}
