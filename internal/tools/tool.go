// Package tools exposes the data-gathering capabilities specialists run
// before prompting, so the model reasons over real numbers instead of
// hallucinating them.
package tools

import (
	"context"

	"strategist/internal/metrics"
	"strategist/pkg/errors"
)

// Tool builds one named slice of market context for a ticker.
type Tool interface {
	// Name returns the unique tool identifier.
	Name() string
	// Description returns a short human-readable summary.
	Description() string
	// Execute gathers the tool's data for the given ticker.
	Execute(ctx context.Context, ticker string) (interface{}, error)
}

// HandlerFunc is the function signature for tool handlers.
type HandlerFunc func(ctx context.Context, ticker string) (interface{}, error)

// FunctionTool is a simple Tool implementation backed by a handler function.
type FunctionTool struct {
	name        string
	description string
	handler     HandlerFunc
}

// New creates a new function-backed Tool.
func New(name, description string, handler HandlerFunc) Tool {
	return &FunctionTool{
		name:        name,
		description: description,
		handler:     handler,
	}
}

// Name returns the tool identifier.
func (t *FunctionTool) Name() string { return t.name }

// Description returns a human description of the tool.
func (t *FunctionTool) Description() string { return t.description }

// Execute runs the underlying handler.
func (t *FunctionTool) Execute(ctx context.Context, ticker string) (interface{}, error) {
	if t.handler == nil {
		return nil, errors.New("tool handler is not defined")
	}

	return t.handler(ctx, ticker)
}

// Run executes every tool and collects results keyed by tool name.
// A tool failure becomes an error entry in the context rather than
// aborting the rest; the model is told what data is missing.
func Run(ctx context.Context, ticker string, toolset []Tool) map[string]interface{} {
	out := make(map[string]interface{}, len(toolset))
	for _, t := range toolset {
		result, err := t.Execute(ctx, ticker)
		metrics.RecordToolExecution(t.Name(), err)
		if err != nil {
			out[t.Name()] = map[string]string{"error": err.Error()}
			continue
		}
		out[t.Name()] = result
	}
	return out
}
