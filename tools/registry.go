package tools

import (
	"bytes"
	"encoding/json"
	"fmt"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Registry maps tool names to executors and their declared schemas.
// It is constructed once at startup and passed by reference to the
// orchestrator; it is not safe for concurrent mutation.
type Registry struct {
	order   []string
	entries map[string]*entry
}

type entry struct {
	schema   mcptypes.Tool
	exec     Executor
	compiled *jsonschema.Schema
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register binds a schema to an executor. Names are unique; registering an
// existing name overwrites the executor but keeps its position in the
// schema ordering.
func (r *Registry) Register(schema mcptypes.Tool, exec Executor) {
	if _, exists := r.entries[schema.Name]; !exists {
		r.order = append(r.order, schema.Name)
	}
	r.entries[schema.Name] = &entry{schema: schema, exec: exec}
}

// Lookup returns the executor for a tool name.
func (r *Registry) Lookup(name string) (Executor, bool) {
	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return e.exec, true
}

// Schemas returns all tool declarations in registration order, for the
// completion client.
func (r *Registry) Schemas() []mcptypes.Tool {
	schemas := make([]mcptypes.Tool, 0, len(r.order))
	for _, name := range r.order {
		schemas = append(schemas, r.entries[name].schema)
	}
	return schemas
}

// Validate checks a call's arguments against the tool's declared schema.
// The completion backend is expected to generate well-formed arguments, but
// a malformed call should become a recoverable turn instead of a runtime
// failure inside the tool.
func (r *Registry) Validate(call Call) error {
	e, ok := r.entries[call.Name]
	if !ok {
		return fmt.Errorf("unknown tool %q", call.Name)
	}

	if e.compiled == nil {
		compiled, err := compileInputSchema(e.schema)
		if err != nil {
			return fmt.Errorf("compile schema for %s: %w", call.Name, err)
		}
		e.compiled = compiled
	}

	args := call.Args
	if args == nil {
		args = map[string]any{}
	}

	// Round-trip through JSON so the instance uses the generic types the
	// validator expects.
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("marshal arguments for %s: %w", call.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decode arguments for %s: %w", call.Name, err)
	}

	if err := e.compiled.Validate(doc); err != nil {
		return fmt.Errorf("invalid arguments for %s: %w", call.Name, err)
	}
	return nil
}

func compileInputSchema(schema mcptypes.Tool) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(schema.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("marshal input schema: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode input schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return c.Compile("schema.json")
}
