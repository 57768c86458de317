package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"pscopilot/chat"
	"pscopilot/tools"
)

func geminiTestSchemas() []mcptypes.Tool {
	return []mcptypes.Tool{
		mcptypes.NewTool("probe_host",
			mcptypes.WithDescription("Probes a host."),
			mcptypes.WithString("host", mcptypes.Required(), mcptypes.Description("target host")),
			mcptypes.WithNumber("port", mcptypes.Description("target port")),
		),
	}
}

func TestGeminiCompleteRequestShape(t *testing.T) {
	var captured geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/gemini-2.5-flash-lite:generateContent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key in query: %s", r.URL.RawQuery)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(geminiResponse{
			Candidates: []struct {
				Content geminiContent `json:"content"`
			}{{Content: geminiContent{Role: "model", Parts: []geminiPart{{Text: "done"}}}}},
		})
	}))
	defer server.Close()

	p, err := NewGeminiCompleter(server.URL, "test-key", "", "You are a helper.", geminiTestSchemas())
	if err != nil {
		t.Fatalf("NewGeminiCompleter: %v", err)
	}

	turns := []chat.Turn{
		{Kind: chat.KindWelcome, Text: "banner"},
		{Kind: chat.KindUserText, Text: "hello"},
		{Kind: chat.KindModelText, Text: "hi there"},
		{Kind: chat.KindFunctionCall, Call: &tools.Call{Name: "probe_host", Args: map[string]any{"host": "a"}}},
		{Kind: chat.KindFunctionResponse, Response: &chat.FunctionResponse{Name: "probe_host", Content: "ok"}},
	}

	var gotText string
	err = p.Complete(context.Background(), turns, func(chunk string, calls []tools.Call) error {
		gotText += chunk
		return nil
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if gotText != "done" {
		t.Errorf("callback text = %q", gotText)
	}

	if captured.SystemInstruction == nil || captured.SystemInstruction.Parts[0].Text != "You are a helper." {
		t.Error("system instruction not sent")
	}

	if len(captured.Contents) != 4 {
		t.Fatalf("expected 4 contents (welcome dropped), got %d", len(captured.Contents))
	}
	roles := []string{"user", "model", "model", "user"}
	for i, want := range roles {
		if captured.Contents[i].Role != want {
			t.Errorf("contents[%d].Role = %q, want %q", i, captured.Contents[i].Role, want)
		}
	}
	if captured.Contents[2].Parts[0].FunctionCall == nil {
		t.Error("function call turn should use a functionCall part")
	}
	if fr := captured.Contents[3].Parts[0].FunctionResponse; fr == nil || fr.Response["content"] != "ok" {
		t.Errorf("function response part = %+v", fr)
	}

	if len(captured.Tools) != 1 || len(captured.Tools[0].FunctionDeclarations) != 1 {
		t.Fatalf("tool declarations missing: %+v", captured.Tools)
	}
	decl := captured.Tools[0].FunctionDeclarations[0]
	if decl.Name != "probe_host" {
		t.Errorf("declaration name = %q", decl.Name)
	}
	if decl.Parameters.Type != "OBJECT" {
		t.Errorf("parameters type = %q, want OBJECT", decl.Parameters.Type)
	}
	if decl.Parameters.Properties["host"].Type != "STRING" {
		t.Errorf("host type = %q, want STRING", decl.Parameters.Properties["host"].Type)
	}
	if decl.Parameters.Properties["port"].Type != "NUMBER" {
		t.Errorf("port type = %q, want NUMBER", decl.Parameters.Properties["port"].Type)
	}

	if captured.GenerationConfig.Temperature != 0.3 || captured.GenerationConfig.MaxOutputTokens != 1024 {
		t.Errorf("generation config = %+v", captured.GenerationConfig)
	}
}

func TestGeminiCompleteFunctionCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(geminiResponse{
			Candidates: []struct {
				Content geminiContent `json:"content"`
			}{{Content: geminiContent{Role: "model", Parts: []geminiPart{
				{Text: "Let me check that."},
				{FunctionCall: &geminiFunctionCall{
					Name: "probe_host",
					Args: map[string]any{"host": "example.com", "port": 443.0},
				}},
			}}}},
		})
	}))
	defer server.Close()

	p, err := NewGeminiCompleter(server.URL, "test-key", "", "", geminiTestSchemas())
	if err != nil {
		t.Fatalf("NewGeminiCompleter: %v", err)
	}

	var gotText string
	var gotCalls []tools.Call
	err = p.Complete(context.Background(), []chat.Turn{{Kind: chat.KindUserText, Text: "probe"}},
		func(chunk string, calls []tools.Call) error {
			gotText += chunk
			gotCalls = append(gotCalls, calls...)
			return nil
		})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if gotText != "Let me check that." {
		t.Errorf("text = %q", gotText)
	}
	if len(gotCalls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(gotCalls))
	}
	if gotCalls[0].Name != "probe_host" || gotCalls[0].Args["host"] != "example.com" {
		t.Errorf("call = %+v", gotCalls[0])
	}
}

func TestGeminiCompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "API key not valid"},
		})
	}))
	defer server.Close()

	p, err := NewGeminiCompleter(server.URL, "bad-key", "", "", nil)
	if err != nil {
		t.Fatalf("NewGeminiCompleter: %v", err)
	}

	err = p.Complete(context.Background(), []chat.Turn{{Kind: chat.KindUserText, Text: "hi"}},
		func(string, []tools.Call) error { return nil })
	if err == nil {
		t.Fatal("expected an error from the API")
	}
}

func TestGeminiRequiresAPIKey(t *testing.T) {
	if _, err := NewGeminiCompleter("", "", "", "", nil); err == nil {
		t.Error("missing API key should fail construction")
	}
}
