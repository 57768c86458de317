package provider

import (
	"fmt"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"pscopilot/chat"
	"pscopilot/config"
)

// New creates a completion backend from configuration. The system prompt
// and tool schemas are fixed for the lifetime of the completer.
func New(cfg config.Config, apiKey, system string, schemas []mcptypes.Tool) (chat.Completer, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiCompleter(cfg.BaseURL, apiKey, cfg.Model, system, schemas)
	case "openai":
		return NewOpenAICompleter(cfg.BaseURL, apiKey, cfg.Model, system, schemas)
	case "anthropic":
		return NewAnthropicCompleter(cfg.BaseURL, apiKey, cfg.Model, system, schemas)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}
