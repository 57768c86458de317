package provider

import (
	"context"
	"fmt"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"pscopilot/chat"
	"pscopilot/tools"
)

// OpenAICompleter streams completions from the OpenAI chat API.
type OpenAICompleter struct {
	client openai.Client
	model  string
	system string
	tools  []mcptypes.Tool
}

// NewOpenAICompleter creates an OpenAI-backed completer. baseURL and model
// fall back to the hosted API and gpt-4o-mini when empty.
func NewOpenAICompleter(baseURL, apiKey, model, system string, schemas []mcptypes.Tool) (*OpenAICompleter, error) {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAICompleter{
		client: client,
		model:  model,
		system: system,
		tools:  schemas,
	}, nil
}

// Complete implements chat.Completer with streaming support.
func (p *OpenAICompleter) Complete(ctx context.Context, turns []chat.Turn, cb chat.StreamCallback) error {
	msgs := FromTurns(turns)

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs)+1),
	}
	if p.system != "" {
		params.Messages = append(params.Messages, openai.SystemMessage(p.system))
	}
	for _, m := range msgs {
		switch m.Role {
		case "assistant":
			params.Messages = append(params.Messages, openai.AssistantMessage(m.Content))
		case "user":
			if m.ImageData != "" {
				dataURL := "data:" + m.ImageMIME + ";base64," + m.ImageData
				params.Messages = append(params.Messages, openai.UserMessage(
					[]openai.ChatCompletionContentPartUnionParam{
						openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
							URL: dataURL,
						}),
						openai.TextContentPart(m.Content),
					},
				))
			} else {
				params.Messages = append(params.Messages, openai.UserMessage(m.Content))
			}
		default:
			// Tool output rides as a user message.
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}
	if len(p.tools) > 0 {
		params.Tools = OpenAIToolParams(p.tools)
	}

	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	acc := openai.ChatCompletionAccumulator{}

	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)

		if tool, ok := acc.JustFinishedToolCall(); ok {
			call := tools.Call{
				Name: tool.Name,
				Args: ParseToolArguments(tool.Arguments),
			}
			if err := cb("", []tools.Call{call}); err != nil {
				return err
			}
		}

		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			if err := cb(chunk.Choices[0].Delta.Content, nil); err != nil {
				return err
			}
		}
	}

	if err := stream.Err(); err != nil {
		return fmt.Errorf("OpenAI streaming error: %w", err)
	}
	return nil
}
