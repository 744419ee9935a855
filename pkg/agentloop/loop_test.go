package agentloop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/agentcore/pkg/assembler"
	"github.com/kadirpekel/agentcore/pkg/datasource"
	"github.com/kadirpekel/agentcore/pkg/event"
	"github.com/kadirpekel/agentcore/pkg/knowledge"
	"github.com/kadirpekel/agentcore/pkg/llm"
	"github.com/kadirpekel/agentcore/pkg/plan"
	"github.com/kadirpekel/agentcore/pkg/tool"
)

type fakeTool struct {
	name   string
	output string
	err    string
}

func (f fakeTool) Name() string            { return f.name }
func (f fakeTool) Description() string     { return "fake tool for tests" }
func (f fakeTool) Schema() map[string]any  { return nil }
func (f fakeTool) Timeout() time.Duration  { return time.Second }
func (f fakeTool) Call(ctx context.Context, args map[string]any) (tool.Result, error) {
	if f.err != "" {
		return tool.Result{Error: f.err}, nil
	}
	return tool.Result{Output: f.output}, nil
}

func newTestLoop(t *testing.T, stub *llm.Stub, tools []tool.CallableTool, cfg Config) (*Loop, *event.Log, *plan.Store) {
	t.Helper()
	log := event.New()
	planner := plan.NewPlanner(stub)
	store := plan.NewStore(planner, true)
	asm := assembler.New(0)
	asm.SetStablePrefix("You are an agent.")

	loop := New(Deps{
		Log:         log,
		Plans:       store,
		Knowledge:   knowledge.NewRegistry(),
		Datasources: datasource.NewRegistry(),
		Assembler:   asm,
		LLM:         stub,
		Tools:       FixedCatalog{Catalog: tool.NewCatalog(tools...)},
	}, cfg)
	return loop, log, store
}

func TestHappyPathThreeStepPlan_S1(t *testing.T) {
	stub := &llm.Stub{
		AskToolReplies: []llm.ToolReply{
			{ToolCalls: []llm.ToolCall{{ID: "1", Name: "list_files", Arguments: "{}"}}},
			{ToolCalls: []llm.ToolCall{{ID: "2", Name: "count", Arguments: "{}"}}},
			{ToolCalls: []llm.ToolCall{{ID: "3", Name: "terminate", Arguments: "{}"}}},
		},
	}
	tools := []tool.CallableTool{
		fakeTool{name: "list_files", output: "Successfully listed 2 files: a.txt, b.txt"},
		fakeTool{name: "count", output: "Count completed: 2"},
		fakeTool{name: "terminate", output: "All done"},
	}
	loop, _, store := newTestLoop(t, stub, tools, Config{MaxSteps: -1, TerminalTools: []string{"terminate"}})

	store.Create("List files", "List files in /tmp then print their count.", []string{"list files", "count them", "terminate"})

	summary, err := loop.Run(context.Background(), "List files in /tmp then print their count.")
	require.NoError(t, err)
	require.Equal(t, StateFinished, loop.State())
	require.False(t, summary.Truncated)
	require.True(t, summary.PlanComplete)
	require.Equal(t, float64(100), summary.PlanPct)
	require.Len(t, summary.StepResults, 3)
}

func TestToolFailureTriggersReplan_S2(t *testing.T) {
	stub := &llm.Stub{
		AskReplies: []string{
			"TITLE: Recovery\nOBJECTIVE: retry the fetch\n1. retry fetch\n2. terminate\n",
		},
		AskToolReplies: []llm.ToolReply{
			{ToolCalls: []llm.ToolCall{{ID: "1", Name: "fetch_data", Arguments: "{}"}}},
			{ToolCalls: []llm.ToolCall{{ID: "2", Name: "terminate", Arguments: "{}"}}},
		},
	}
	tools := []tool.CallableTool{
		fakeTool{name: "fetch_data", err: "network error: unreachable"},
		fakeTool{name: "terminate", output: "done"},
	}
	loop, log, store := newTestLoop(t, stub, tools, Config{MaxSteps: -1, TerminalTools: []string{"terminate"}})
	store.Create("Fetch", "Fetch remote data", []string{"fetch remote data", "terminate"})

	summary, err := loop.Run(context.Background(), "fetch remote data")
	require.NoError(t, err)
	require.Equal(t, StateFinished, loop.State())

	planEvents := log.ByKind(event.KindPlan)
	require.GreaterOrEqual(t, len(planEvents), 2, "the replanned plan and its later advance must both be logged")
	require.NotEmpty(t, summary.StepResults)
	require.Equal(t, "network error: unreachable", summary.StepResults[0].Error)
}

func TestBudgetExhaustion_S5(t *testing.T) {
	stub := &llm.Stub{
		AskToolReplies: []llm.ToolReply{
			{ToolCalls: []llm.ToolCall{{ID: "1", Name: "noop", Arguments: "{}"}}},
			{ToolCalls: []llm.ToolCall{{ID: "2", Name: "noop", Arguments: "{}"}}},
		},
	}
	tools := []tool.CallableTool{
		fakeTool{name: "noop", output: "nothing to report"},
	}
	loop, log, store := newTestLoop(t, stub, tools, Config{MaxSteps: 2})
	store.Create("Endless", "Keep going forever", []string{"step one", "step two", "step three"})

	summary, err := loop.Run(context.Background(), "keep going forever")
	require.NoError(t, err)
	require.Equal(t, StateFinished, loop.State())
	require.True(t, summary.Truncated)
	require.Len(t, summary.StepResults, 2)

	actions := log.ByKind(event.KindAction)
	observations := log.ByKind(event.KindObservation)
	require.Equal(t, len(actions), len(observations), "every Action must have a paired Observation (I3)")
}

func TestZeroMaxStepsExitsImmediately(t *testing.T) {
	stub := &llm.Stub{}
	loop, _, store := newTestLoop(t, stub, nil, Config{MaxSteps: 0})
	store.Create("T", "O", []string{"a"})

	summary, err := loop.Run(context.Background(), "anything")
	require.NoError(t, err)
	require.Equal(t, StateFinished, loop.State())
	require.True(t, summary.Truncated)
	require.Empty(t, summary.StepResults)
}

func TestReentryWhileRunningIsInvalidState(t *testing.T) {
	stub := &llm.Stub{}
	loop, _, store := newTestLoop(t, stub, nil, Config{MaxSteps: 0})
	store.Create("T", "O", nil)

	_, err := loop.Run(context.Background(), "first")
	require.NoError(t, err)

	loop.setState(StateRunning)
	_, err = loop.Run(context.Background(), "second")
	require.Error(t, err)
	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	require.Equal(t, ErrInvalidState, runErr.Kind)
}

func TestToolNotFoundSurfacesAsObservationNotFatal(t *testing.T) {
	stub := &llm.Stub{
		AskToolReplies: []llm.ToolReply{
			{ToolCalls: []llm.ToolCall{{ID: "1", Name: "missing_tool", Arguments: "{}"}}},
			{ToolCalls: []llm.ToolCall{{ID: "2", Name: "terminate", Arguments: "{}"}}},
		},
	}
	tools := []tool.CallableTool{
		fakeTool{name: "terminate", output: "done"},
	}
	loop, _, store := newTestLoop(t, stub, tools, Config{MaxSteps: -1, TerminalTools: []string{"terminate"}})
	store.Create("T", "O", []string{"a", "b"})

	summary, err := loop.Run(context.Background(), "do something with a missing tool")
	require.NoError(t, err)
	require.Contains(t, summary.StepResults[0].Error, "tool not found")
}

func TestLlmErrorPropagatesAndTransitionsToError(t *testing.T) {
	stub := &llm.Stub{} // no replies scripted: AskTool returns a plain error immediately
	loop, _, store := newTestLoop(t, stub, nil, Config{MaxSteps: -1})
	store.Create("T", "O", []string{"a"})

	_, err := loop.Run(context.Background(), "do something")
	require.Error(t, err)
	require.Equal(t, StateError, loop.State())

	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	require.Equal(t, ErrLlmTransient, runErr.Kind)
}
