package agentloop

import (
	"context"
	"errors"
	"fmt"

	"github.com/kadirpekel/agentcore/pkg/tool"
)

// dispatch looks up and invokes one tool call, translating the three
// ways a tool dispatch can fail (spec §7: ToolNotFound, ToolFailure,
// ToolTimeout) into a Result whose Error is suitable for the
// Observation event. It never returns a Go error itself: every dispatch
// failure is recovered locally, per §7's propagation policy.
func (l *Loop) dispatch(ctx context.Context, catalog tool.Catalog, name string, input map[string]any) tool.Result {
	t, ok := catalog.Get(name)
	if !ok {
		return tool.Result{Error: fmt.Sprintf("tool not found: %s", name)}
	}

	if schema := t.Schema(); schema != nil {
		if err := tool.ValidateArgs(schema, input); err != nil {
			return tool.Result{Error: err.Error()}
		}
	}

	callCtx := ctx
	var cancel context.CancelFunc
	if d := t.Timeout(); d > 0 {
		callCtx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	result, err := t.Call(callCtx, input)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return tool.Result{Error: "timeout: " + err.Error()}
		}
		return tool.Result{Error: err.Error()}
	}
	return result
}
