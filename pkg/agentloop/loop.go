package agentloop

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/kadirpekel/agentcore/pkg/assembler"
	"github.com/kadirpekel/agentcore/pkg/datasource"
	"github.com/kadirpekel/agentcore/pkg/event"
	"github.com/kadirpekel/agentcore/pkg/knowledge"
	"github.com/kadirpekel/agentcore/pkg/llm"
	"github.com/kadirpekel/agentcore/pkg/metrics"
	"github.com/kadirpekel/agentcore/pkg/plan"
	"github.com/kadirpekel/agentcore/pkg/tool"
)

// ToolProvider supplies the tool catalog snapshot for one step (spec
// SPEC_FULL.md §4.6: "never the live registry"). A fixed Catalog
// trivially satisfies this via FixedCatalog below.
type ToolProvider interface {
	Snapshot() tool.Catalog
}

// FixedCatalog is a ToolProvider over a catalog that never changes —
// the common case for this module, since the remote-tool bridge that
// would mutate a catalog live is out of scope.
type FixedCatalog struct {
	Catalog tool.Catalog
}

func (f FixedCatalog) Snapshot() tool.Catalog { return f.Catalog }

// Deps bundles the Loop's owned and shared collaborators.
type Deps struct {
	Log         *event.Log
	Plans       *plan.Store
	Knowledge   *knowledge.Registry
	Datasources *datasource.Registry
	Assembler   *assembler.Assembler
	LLM         llm.Client
	Tools       ToolProvider
	Metrics     *metrics.Metrics
}

// Loop drives one or more sequential runs of the agent over its owned
// Event Log, Plan Store, and Assembler (spec §3 Ownership: "The Agent
// Loop exclusively owns the Event Log, Plan Store, and Assembler;
// external collaborators never mutate them").
type Loop struct {
	deps Deps
	cfg  Config

	mu    sync.Mutex
	state State
	now   func() time.Time
}

// New constructs a Loop in the Idle state.
func New(deps Deps, cfg Config) *Loop {
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	return &Loop{
		deps:  deps,
		cfg:   cfg.withDefaults(),
		state: StateIdle,
		now:   time.Now,
	}
}

// State reports the loop's current run state.
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Loop) transitionToRunning() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateIdle {
		return &RunError{Kind: ErrInvalidState, Err: errInvalidState(l.state)}
	}
	l.state = StateRunning
	return nil
}

func (l *Loop) setState(s State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = s
}

// errInvalidState is split out so transitionToRunning reads as one
// statement; it carries no behavior beyond a descriptive message.
func errInvalidState(current State) error {
	return &invalidStateErr{current: current}
}

type invalidStateErr struct{ current State }

func (e *invalidStateErr) Error() string {
	return "agent run invoked while not Idle (current state: " + string(e.current) + ")"
}

// Run executes the think/act loop per spec §4.6's algorithm. Re-entry
// while not Idle fails fatally with InvalidState and appends no event.
func (l *Loop) Run(ctx context.Context, request string) (*Summary, error) {
	if err := l.transitionToRunning(); err != nil {
		return nil, err
	}

	l.deps.Log.Append(event.KindMessage, l.now(), event.MessagePayload{
		Role: event.RoleUser, Content: request,
	})

	if l.deps.Plans.Current() == nil {
		p, err := l.deps.Plans.Plan(ctx, request, "")
		if err != nil {
			l.setState(StateError)
			kind := ErrPlanningFailure
			if llm.IsFatal(err) {
				kind = ErrLlmFatal
			}
			return l.summarize(nil, false, ""), &RunError{Kind: kind, Err: err}
		}
		l.deps.Log.Append(event.KindPlan, l.now(), p.ToPayload())
		remaining, completed := planItems(p)
		l.deps.Assembler.UpdateTodo(remaining, completed)
	}

	catalog := l.deps.Tools.Snapshot()
	activeTools := catalog.Names()

	lookupStart := time.Now()
	knowledgeItems := l.deps.Knowledge.Relevant(request, activeTools)
	knowledgeSeconds := time.Since(lookupStart).Seconds()
	for _, item := range knowledgeItems {
		l.deps.Log.Append(event.KindKnowledge, l.now(), event.KnowledgePayload{
			Scope: string(item.Scope), Category: string(item.Category),
			Content: item.Content, Conditions: item.Conditions, Priority: item.Priority,
		})
	}
	l.deps.Metrics.RegistryLookup("knowledge", knowledgeSeconds, len(knowledgeItems) > 0)

	lookupStart = time.Now()
	dsItems := l.deps.Datasources.FindRelevant(request, 0)
	datasourceSeconds := time.Since(lookupStart).Seconds()
	for _, d := range dsItems {
		endpoint := ""
		if len(d.Endpoints) > 0 {
			endpoint = d.Endpoints[0].Path
		}
		l.deps.Log.Append(event.KindDatasource, l.now(), event.DatasourcePayload{
			SourceID: d.ID, Name: d.Name, Endpoint: endpoint, Auth: string(d.AuthScheme),
			Documentation: datasource.Documentation(d), Priority: d.Priority,
		})
	}
	l.deps.Metrics.RegistryLookup("datasource", datasourceSeconds, len(dsItems) > 0)

	knowledgeBlock := renderKnowledgeBlock(knowledgeItems)
	datasourceBlock := renderDatasourceBlock(dsItems)

	var results []StepResult
	lastAssistant := ""

	for step := 0; step < l.cfg.MaxSteps; step++ {
		l.deps.Metrics.StepTaken()

		catalog = l.deps.Tools.Snapshot()
		planPseudocode := ""
		if cur := l.deps.Plans.Current(); cur != nil {
			planPseudocode = plan.RenderPseudocode(cur)
		}
		tail := l.deps.Log.ChronologicalTail()
		prompt := l.deps.Assembler.Assemble(knowledgeBlock, datasourceBlock, planPseudocode, tail)

		reply, err := l.deps.LLM.AskTool(ctx,
			[]llm.Message{{Role: "user", Content: prompt}}, nil,
			toolSpecs(catalog), l.cfg.ToolChoice, l.cfg.Temperature)
		if err != nil {
			l.setState(StateError)
			kind := ErrLlmTransient
			if llm.IsFatal(err) {
				kind = ErrLlmFatal
			}
			return l.summarize(results, false, lastAssistant), &RunError{Kind: kind, Err: err}
		}

		lastAssistant = reply.Content
		l.deps.Log.Append(event.KindMessage, l.now(), event.MessagePayload{
			Role: event.RoleAssistant, Content: reply.Content,
		})

		if len(reply.ToolCalls) == 0 {
			if cur := l.deps.Plans.Current(); cur == nil || cur.Complete {
				l.setState(StateFinished)
				return l.summarize(results, false, lastAssistant), nil
			}
			continue
		}

		terminalHit := false
		for _, call := range reply.ToolCalls {
			input := parseArguments(call.Arguments)
			l.deps.Log.Append(event.KindAction, l.now(), event.ActionPayload{
				ToolName: call.Name, ToolCallID: call.ID, Input: input,
			})

			result := l.dispatch(ctx, catalog, call.Name, input)
			output := truncate(result.Output, l.cfg.MaxObserve)

			l.deps.Log.Append(event.KindObservation, l.now(), event.ObservationPayload{
				ToolName: call.Name, ToolCallID: call.ID,
				Output: output, Error: result.Error, Image: result.Image,
			})
			results = append(results, StepResult{ToolName: call.Name, Output: output, Error: result.Error})
			l.deps.Metrics.ToolCalled(call.Name, result.Failed())

			if result.Failed() {
				l.deps.Assembler.RecordError(call.Name, result.Error)
				if l.deps.Plans.ShouldReplan(result.Error) {
					l.deps.Metrics.Replanned()
					if newPlan, err := l.deps.Plans.Replan(ctx, result.Error, "", request); err == nil {
						l.deps.Log.Append(event.KindPlan, l.now(), newPlan.ToPayload())
						remaining, completed := planItems(newPlan)
						l.deps.Assembler.UpdateTodo(remaining, completed)
					}
				}
			} else if containsSuccessLexeme(output) {
				if _, err := l.deps.Plans.Advance(); err == nil {
					if cur := l.deps.Plans.Current(); cur != nil {
						l.deps.Log.Append(event.KindPlan, l.now(), cur.ToPayload())
						remaining, completed := planItems(cur)
						l.deps.Assembler.UpdateTodo(remaining, completed)
					}
				}
			}

			if isTerminalTool(call.Name, l.cfg.TerminalTools) {
				terminalHit = true
			}
		}

		if terminalHit {
			l.setState(StateFinished)
			return l.summarize(results, false, lastAssistant), nil
		}
	}

	l.deps.Metrics.BudgetExhausted()
	l.setState(StateFinished)
	return l.summarize(results, true, lastAssistant), nil
}

func (l *Loop) summarize(results []StepResult, truncated bool, finalMessage string) *Summary {
	progress := l.deps.Plans.Progress()
	return &Summary{
		FinalMessage: finalMessage,
		StepResults:  results,
		PlanComplete: progress.Complete,
		PlanPct:      progress.Pct,
		Truncated:    truncated,
	}
}

func planItems(p *plan.Plan) (remaining, completed []string) {
	for _, s := range p.Steps {
		if s.Status == event.StepCompleted || s.Status == event.StepSkipped {
			completed = append(completed, s.Description)
		} else {
			remaining = append(remaining, s.Description)
		}
	}
	return remaining, completed
}

func toolSpecs(catalog tool.Catalog) []llm.ToolSpec {
	all := catalog.All()
	specs := make([]llm.ToolSpec, len(all))
	for i, t := range all {
		specs[i] = llm.ToolSpec{Name: t.Name(), Description: t.Description(), Parameters: t.Schema()}
	}
	return specs
}

func parseArguments(raw string) map[string]any {
	if raw == "" {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return map[string]any{"_raw": raw}
	}
	return out
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}
