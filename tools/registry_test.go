package tools

import (
	"context"
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

func noopExec(_ context.Context, _ map[string]any) (*Result, error) {
	return &Result{Display: Display{Text: "ok"}}, nil
}

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	r.Register(mcptypes.NewTool("alpha", mcptypes.WithDescription("a")), noopExec)

	if _, ok := r.Lookup("alpha"); !ok {
		t.Error("registered tool should be found")
	}
	if _, ok := r.Lookup("missing"); ok {
		t.Error("unregistered tool should not be found")
	}
}

func TestSchemasKeepRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	names := []string{"zeta", "alpha", "mid"}
	for _, n := range names {
		r.Register(mcptypes.NewTool(n, mcptypes.WithDescription(n)), noopExec)
	}

	// Re-registering keeps the original position.
	r.Register(mcptypes.NewTool("alpha", mcptypes.WithDescription("replaced")), noopExec)

	schemas := r.Schemas()
	if len(schemas) != 3 {
		t.Fatalf("expected 3 schemas, got %d", len(schemas))
	}
	for i, n := range names {
		if schemas[i].Name != n {
			t.Errorf("schemas[%d] = %q, want %q", i, schemas[i].Name, n)
		}
	}
	if schemas[1].Description != "replaced" {
		t.Errorf("re-registration should replace the schema, got %q", schemas[1].Description)
	}
}

func TestValidate(t *testing.T) {
	r := NewRegistry()
	r.Register(mcptypes.NewTool("probe",
		mcptypes.WithDescription("validation probe"),
		mcptypes.WithString("host", mcptypes.Required(), mcptypes.Description("target host")),
		mcptypes.WithNumber("port", mcptypes.Description("target port")),
	), noopExec)

	tests := []struct {
		name    string
		call    Call
		wantErr bool
	}{
		{
			name: "valid full arguments",
			call: Call{Name: "probe", Args: map[string]any{"host": "example.com", "port": 443.0}},
		},
		{
			name: "valid required only",
			call: Call{Name: "probe", Args: map[string]any{"host": "example.com"}},
		},
		{
			name:    "missing required",
			call:    Call{Name: "probe", Args: map[string]any{"port": 80.0}},
			wantErr: true,
		},
		{
			name:    "wrong type",
			call:    Call{Name: "probe", Args: map[string]any{"host": 42}},
			wantErr: true,
		},
		{
			name:    "nil args with required property",
			call:    Call{Name: "probe"},
			wantErr: true,
		},
		{
			name:    "unknown tool",
			call:    Call{Name: "ghost"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Validate(tt.call)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNoArgsSchema(t *testing.T) {
	r := NewRegistry()
	r.Register(mcptypes.NewTool("bare", mcptypes.WithDescription("no arguments")), noopExec)

	if err := r.Validate(Call{Name: "bare"}); err != nil {
		t.Errorf("nil args against an empty schema should pass, got %v", err)
	}
}

func TestDisplayString(t *testing.T) {
	d := Display{Text: "plain"}
	if d.String() != "plain" {
		t.Errorf("Text display = %q", d.String())
	}

	d = Display{Text: "ignored", Lines: []string{"one", "two"}}
	if d.String() != "one\ntwo" {
		t.Errorf("Lines display = %q", d.String())
	}
}
