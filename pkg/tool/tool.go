// Package tool defines the synchronous tool interface the Agent Loop
// dispatches against (spec §6.1).
//
// Grounded on github.com/kadirpekel/hector's pkg/tool.Tool/CallableTool
// split, reduced to the CallableTool shape only — streaming,
// long-running, and human-approval tool kinds are concrete tool
// implementations, out of this module's scope.
package tool

import (
	"context"
	"time"
)

// Tool is the base interface every tool satisfies.
type Tool interface {
	// Name returns the unique name the planner and the LLM refer to
	// this tool by.
	Name() string

	// Description is surfaced to the LLM to decide when to use the tool.
	Description() string
}

// CallableTool is a tool invoked synchronously by the Agent Loop.
type CallableTool interface {
	Tool

	// Call executes the tool and blocks until it returns a Result or
	// ctx is done.
	Call(ctx context.Context, args map[string]any) (Result, error)

	// Schema returns the JSON schema for the tool's input, or nil if
	// the tool takes no parameters.
	Schema() map[string]any

	// Timeout is the tool-declared per-call timeout (spec §4.6
	// "Cancellation and timeouts"). Zero means no tool-specific bound
	// beyond the caller's context.
	Timeout() time.Duration
}

// Result is the outcome of one tool invocation.
type Result struct {
	Output   string
	Error    string
	Image    []byte
	Metadata map[string]any
}

// Failed reports whether the result represents a tool failure, per
// §6.1: a non-empty Error, or output prefixed with "Error:".
func (r Result) Failed() bool {
	if r.Error != "" {
		return true
	}
	return len(r.Output) >= len("Error:") && r.Output[:len("Error:")] == "Error:"
}
