package main

import (
	"context"
	"fmt"
	"time"

	"github.com/kadirpekel/agentcore/pkg/apiclient"
	"github.com/kadirpekel/agentcore/pkg/datasource"
	"github.com/kadirpekel/agentcore/pkg/tool"
)

// exampleTools returns the fixed demonstration catalog spec §6.4 calls
// for: one tool that always succeeds (so a plan can reach completion
// without any external dependency), one that always fails (exercising
// the replan path), and one that calls out through apiclient to
// whichever datasource the caller names, for every enabled registered
// datasource with at least one endpoint.
func exampleTools(reg *datasource.Registry) []tool.CallableTool {
	tools := []tool.CallableTool{
		completeTool{},
		failTool{},
	}
	for _, src := range reg.FindRelevant("", 1<<20) {
		if len(src.Endpoints) == 0 {
			continue
		}
		tools = append(tools, apiCallTool{source: src})
	}
	return tools
}

// completeTool is a no-op that always reports success, letting a plan
// advance without any real side effect — useful for smoke-testing a
// config end to end.
type completeTool struct{}

func (completeTool) Name() string        { return "mark_complete" }
func (completeTool) Description() string { return "Marks the current plan step as successfully completed." }
func (completeTool) Schema() map[string]any { return nil }
func (completeTool) Timeout() time.Duration { return 0 }

func (completeTool) Call(ctx context.Context, args map[string]any) (tool.Result, error) {
	return tool.Result{Output: "Successfully completed the step."}, nil
}

// failTool always reports a failure, exercising the agent loop's
// replan path (spec §4.6 step 6.4.f) without needing a flaky real tool.
type failTool struct{}

func (failTool) Name() string           { return "simulate_failure" }
func (failTool) Description() string    { return "Simulates a tool failure, for testing replan behavior." }
func (failTool) Schema() map[string]any { return nil }
func (failTool) Timeout() time.Duration { return 0 }

func (failTool) Call(ctx context.Context, args map[string]any) (tool.Result, error) {
	return tool.Result{Error: "simulated error: operation unavailable"}, nil
}

// apiCallTool wraps one registered Datasource's first endpoint behind
// the tool interface, dispatching through apiclient.New(source.ID) the
// same way datasource.SuggestAPICall's generated fragment would.
type apiCallTool struct {
	source datasource.Datasource
}

func (t apiCallTool) Name() string { return "call_" + t.source.ID }

func (t apiCallTool) Description() string {
	return fmt.Sprintf("Calls the %s API. %s", t.source.Name, t.source.Description)
}

func (t apiCallTool) Schema() map[string]any {
	if len(t.source.Endpoints) == 0 {
		return nil
	}
	props := make(map[string]any)
	for _, p := range t.source.Endpoints[0].Params {
		props[p.Name] = map[string]any{"type": "string", "description": p.Description}
	}
	return map[string]any{"type": "object", "properties": props}
}

func (t apiCallTool) Timeout() time.Duration { return 30 * time.Second }

func (t apiCallTool) Call(ctx context.Context, args map[string]any) (tool.Result, error) {
	if len(t.source.Endpoints) == 0 {
		return tool.Result{Error: "datasource has no callable endpoints"}, nil
	}
	handle, err := apiclient.New(t.source.ID)
	if err != nil {
		return tool.Result{Error: err.Error()}, nil
	}

	params := make(map[string]string, len(args))
	for k, v := range args {
		params[k] = fmt.Sprintf("%v", v)
	}

	ep := t.source.Endpoints[0]
	resp, err := handle.Get(ctx, ep.Path, params)
	if err != nil {
		return tool.Result{Error: err.Error()}, nil
	}
	return tool.Result{Output: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(resp.Body))}, nil
}
