package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"pscopilot/chat"
	"pscopilot/tools"
)

// GeminiCompleter calls the Gemini generateContent REST API. The API is
// batch rather than streaming, so the callback fires once with the full
// text and once with any tool call.
type GeminiCompleter struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	system     string
	tools      []mcptypes.Tool
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiFunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

type geminiFunctionResponse struct {
	Name     string            `json:"name"`
	Response map[string]string `json:"response"`
}

type geminiPart struct {
	Text             string                  `json:"text,omitempty"`
	InlineData       *geminiInlineData       `json:"inlineData,omitempty"`
	FunctionCall     *geminiFunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *geminiFunctionResponse `json:"functionResponse,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiSchema struct {
	Type        string                  `json:"type"`
	Description string                  `json:"description,omitempty"`
	Properties  map[string]geminiSchema `json:"properties,omitempty"`
	Required    []string                `json:"required,omitempty"`
}

type geminiFunctionDeclaration struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Parameters  geminiSchema `json:"parameters"`
}

type geminiRequest struct {
	Contents          []geminiContent  `json:"contents"`
	SystemInstruction *geminiContent   `json:"systemInstruction,omitempty"`
	Tools             []geminiToolList `json:"tools,omitempty"`
	GenerationConfig  geminiGenConfig  `json:"generationConfig"`
}

type geminiToolList struct {
	FunctionDeclarations []geminiFunctionDeclaration `json:"functionDeclarations"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewGeminiCompleter creates a Gemini-backed completer. baseURL and model
// fall back to the hosted API and gemini-2.5-flash-lite when empty.
func NewGeminiCompleter(baseURL, apiKey, model, system string, schemas []mcptypes.Tool) (*GeminiCompleter, error) {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash-lite"
	}

	return &GeminiCompleter{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		system:     system,
		tools:      schemas,
	}, nil
}

// Complete implements chat.Completer with a single generateContent call.
func (p *GeminiCompleter) Complete(ctx context.Context, turns []chat.Turn, cb chat.StreamCallback) error {
	req := geminiRequest{
		Contents: convertToGeminiContents(turns),
		GenerationConfig: geminiGenConfig{
			Temperature:     0.3,
			MaxOutputTokens: 1024,
		},
	}
	if p.system != "" {
		req.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: p.system}}}
	}
	if len(p.tools) > 0 {
		req.Tools = []geminiToolList{{FunctionDeclarations: geminiFunctionDeclarations(p.tools)}}
	}

	resp, err := p.generate(ctx, req)
	if err != nil {
		return err
	}
	if len(resp.Candidates) == 0 {
		return fmt.Errorf("Gemini returned no candidates")
	}

	var texts []string
	var calls []tools.Call
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
		if part.FunctionCall != nil {
			calls = append(calls, tools.Call{
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			})
		}
	}

	if len(texts) > 0 {
		if err := cb(strings.Join(texts, "\n"), nil); err != nil {
			return err
		}
	}
	if len(calls) > 0 {
		if err := cb("", calls); err != nil {
			return err
		}
	}
	return nil
}

func (p *GeminiCompleter) generate(ctx context.Context, req geminiRequest) (*geminiResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode Gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", p.baseURL, p.model, p.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build Gemini request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("Gemini request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Gemini response: %w", err)
	}

	var resp geminiResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode Gemini response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		if resp.Error != nil && resp.Error.Message != "" {
			return nil, fmt.Errorf("Gemini API error: %s", resp.Error.Message)
		}
		return nil, fmt.Errorf("Gemini API error: %s", httpResp.Status)
	}
	return &resp, nil
}

// convertToGeminiContents maps transcript turns onto Gemini's native
// content format. Function calls and responses keep their structured parts
// instead of being flattened to text.
func convertToGeminiContents(turns []chat.Turn) []geminiContent {
	out := make([]geminiContent, 0, len(turns))
	for _, t := range turns {
		switch t.Kind {
		case chat.KindWelcome:
		case chat.KindUserText:
			var parts []geminiPart
			if t.Image != "" {
				mime, data := chat.ParseDataURL(t.Image)
				parts = append(parts, geminiPart{InlineData: &geminiInlineData{
					MimeType: mime,
					Data:     data,
				}})
			}
			parts = append(parts, geminiPart{Text: t.Text})
			out = append(out, geminiContent{Role: "user", Parts: parts})
		case chat.KindModelText:
			if t.Text == "" {
				continue
			}
			out = append(out, geminiContent{Role: "model", Parts: []geminiPart{{Text: t.Text}}})
		case chat.KindFunctionCall:
			if t.Call == nil {
				continue
			}
			out = append(out, geminiContent{Role: "model", Parts: []geminiPart{{
				FunctionCall: &geminiFunctionCall{Name: t.Call.Name, Args: t.Call.Args},
			}}})
		case chat.KindFunctionResponse:
			if t.Response == nil {
				continue
			}
			out = append(out, geminiContent{Role: "user", Parts: []geminiPart{{
				FunctionResponse: &geminiFunctionResponse{
					Name:     t.Response.Name,
					Response: map[string]string{"content": t.Response.Content},
				},
			}}})
		}
	}
	return out
}
