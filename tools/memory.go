package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"pscopilot/storage"
)

// Memory and database tools backed by the SQLite memory store. Each
// registration is bound to one user so the model never addresses another
// user's memory.

// RegisterMemory registers the persistent-memory toolset for a user.
func RegisterMemory(r *Registry, store *storage.MemoryStore, userID string) {
	r.Register(mcptypes.NewTool("memory_store",
		mcptypes.WithDescription("Store information in persistent memory for later retrieval."),
		mcptypes.WithString("key", mcptypes.Required(), mcptypes.Description("Memory key/identifier")),
		mcptypes.WithString("value", mcptypes.Required(), mcptypes.Description("Information to store")),
	), func(ctx context.Context, args map[string]any) (*Result, error) {
		key := stringArg(args, "key")
		if err := store.Upsert(userID, key, stringArg(args, "value")); err != nil {
			return textResult(fmt.Sprintf("Failed to store memory: %v", err)), nil
		}
		return textResult(fmt.Sprintf("Stored in memory: %s", key)), nil
	})

	r.Register(mcptypes.NewTool("memory_retrieve",
		mcptypes.WithDescription("Retrieve previously stored information from memory."),
		mcptypes.WithString("key", mcptypes.Required(), mcptypes.Description("Memory key to retrieve")),
	), func(ctx context.Context, args map[string]any) (*Result, error) {
		key := stringArg(args, "key")
		entry, err := store.Get(userID, key)
		if err != nil {
			return textResult(fmt.Sprintf("Failed to retrieve memory: %v", err)), nil
		}
		if entry == nil {
			return &Result{
				Display: Display{Text: fmt.Sprintf("No memory found for key: %s", key)},
				RawData: "Not found",
			}, nil
		}
		return &Result{
			Display: Display{Text: fmt.Sprintf("Memory [%s] (stored %s):\n%s",
				key, entry.Timestamp.Format(time.RFC3339), entry.Value)},
			RawData: entry.Value,
		}, nil
	})

	r.Register(mcptypes.NewTool("memory_list",
		mcptypes.WithDescription("List all stored memory keys."),
	), func(ctx context.Context, args map[string]any) (*Result, error) {
		entries, err := store.List(userID)
		if err != nil {
			return textResult(fmt.Sprintf("Failed to list memory: %v", err)), nil
		}
		if len(entries) == 0 {
			return &Result{Display: Display{Text: "Memory is empty."}, RawData: "Empty"}, nil
		}
		var sb strings.Builder
		sb.WriteString("Stored memories:\n")
		for _, entry := range entries {
			fmt.Fprintf(&sb, "• %s (stored %s)\n", entry.Key, entry.Timestamp.Format(time.RFC3339))
		}
		return textResult(strings.TrimRight(sb.String(), "\n")), nil
	})

	r.Register(mcptypes.NewTool("memory_delete",
		mcptypes.WithDescription("Delete a memory entry."),
		mcptypes.WithString("key", mcptypes.Required(), mcptypes.Description("Memory key to delete")),
	), func(ctx context.Context, args map[string]any) (*Result, error) {
		key := stringArg(args, "key")
		if err := store.Delete(userID, key); err != nil {
			return textResult(fmt.Sprintf("Failed to delete memory: %v", err)), nil
		}
		return textResult(fmt.Sprintf("Deleted from memory: %s", key)), nil
	})

	r.Register(mcptypes.NewTool("execute_sql",
		mcptypes.WithDescription("Execute SQL queries on the copilot database."),
		mcptypes.WithString("query", mcptypes.Required(), mcptypes.Description("SQL query to execute")),
	), func(ctx context.Context, args map[string]any) (*Result, error) {
		output, err := store.ExecuteSQL(stringArg(args, "query"))
		if err != nil {
			return textResult(fmt.Sprintf("SQL execution failed: %v", err)), nil
		}
		return &Result{
			Display: Display{Text: "SQL Result:\n" + output},
			RawData: output,
		}, nil
	})

	r.Register(mcptypes.NewTool("list_tables",
		mcptypes.WithDescription("List available database tables and their schemas."),
	), func(ctx context.Context, args map[string]any) (*Result, error) {
		output, err := store.ListTables()
		if err != nil {
			return textResult(fmt.Sprintf("Failed to list tables: %v", err)), nil
		}
		return &Result{
			Display: Display{Text: "Available Tables:\n" + output},
			RawData: output,
		}, nil
	})
}
