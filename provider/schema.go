package provider

import (
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/openai/openai-go/v3"
)

// OpenAIToolParams converts neutral tool schemas to the OpenAI function
// tool format. Both sides are JSON Schema; the struct just needs flattening
// into a parameter map.
func OpenAIToolParams(schemas []mcptypes.Tool) []openai.ChatCompletionToolUnionParam {
	if len(schemas) == 0 {
		return nil
	}

	result := make([]openai.ChatCompletionToolUnionParam, len(schemas))
	for i, tool := range schemas {
		params := openai.FunctionParameters{
			"type":       tool.InputSchema.Type,
			"properties": tool.InputSchema.Properties,
		}
		if len(tool.InputSchema.Required) > 0 {
			params["required"] = tool.InputSchema.Required
		}

		result[i] = openai.ChatCompletionFunctionTool(
			openai.FunctionDefinitionParam{
				Name:        tool.Name,
				Description: openai.String(tool.Description),
				Parameters:  params,
			},
		)
	}
	return result
}

// AnthropicToolParams converts neutral tool schemas to Anthropic's tool
// format.
func AnthropicToolParams(schemas []mcptypes.Tool) []anthropic.ToolUnionParam {
	if len(schemas) == 0 {
		return nil
	}

	result := make([]anthropic.ToolUnionParam, len(schemas))
	for i, tool := range schemas {
		inputSchema := anthropic.ToolInputSchemaParam{
			Properties: tool.InputSchema.Properties,
		}
		if len(tool.InputSchema.Required) > 0 {
			inputSchema.Required = tool.InputSchema.Required
		}

		result[i] = anthropic.ToolUnionParamOfTool(inputSchema, tool.Name)
		if tool.Description != "" {
			result[i].OfTool.Description = anthropic.String(tool.Description)
		}
	}
	return result
}

// geminiFunctionDeclarations converts neutral tool schemas to the Gemini
// REST declaration format. Gemini spells JSON Schema type names in upper
// case.
func geminiFunctionDeclarations(schemas []mcptypes.Tool) []geminiFunctionDeclaration {
	decls := make([]geminiFunctionDeclaration, 0, len(schemas))
	for _, tool := range schemas {
		decl := geminiFunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters: geminiSchema{
				Type:       strings.ToUpper(tool.InputSchema.Type),
				Properties: map[string]geminiSchema{},
				Required:   tool.InputSchema.Required,
			},
		}
		for name, prop := range tool.InputSchema.Properties {
			decl.Parameters.Properties[name] = geminiProperty(prop)
		}
		decls = append(decls, decl)
	}
	return decls
}

func geminiProperty(prop any) geminiSchema {
	s := geminiSchema{Type: "STRING"}
	propMap, ok := prop.(map[string]any)
	if !ok {
		return s
	}
	if t, ok := propMap["type"].(string); ok {
		s.Type = strings.ToUpper(t)
	}
	if d, ok := propMap["description"].(string); ok {
		s.Description = d
	}
	return s
}
