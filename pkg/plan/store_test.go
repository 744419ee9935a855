package plan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/agentcore/pkg/event"
	"github.com/kadirpekel/agentcore/pkg/llm"
)

func newTestStore(t *testing.T, askReplies []string) (*Store, *llm.Stub) {
	t.Helper()
	stub := &llm.Stub{AskReplies: askReplies}
	planner := NewPlanner(stub)
	return NewStore(planner, true), stub
}

func TestCreateStartsFirstStepInProgress(t *testing.T) {
	s, _ := newTestStore(t, nil)
	p := s.Create("Title", "Objective", []string{"a", "b", "c"})
	require.Equal(t, event.StepInProgress, p.Steps[0].Status)
	require.Equal(t, event.StepPending, p.Steps[1].Status)
	require.Equal(t, 0, p.CurrentIndex)
	require.False(t, p.Complete)
}

func TestAdvanceSingleInProgress_I4(t *testing.T) {
	s, _ := newTestStore(t, nil)
	s.Create("T", "O", []string{"a", "b"})

	next, err := s.Advance()
	require.NoError(t, err)
	require.NotNil(t, next)
	require.Equal(t, event.StepCompleted, s.Current().Steps[0].Status)
	require.Equal(t, event.StepInProgress, s.Current().Steps[1].Status)

	inProgress := 0
	for _, st := range s.Current().Steps {
		if st.Status == event.StepInProgress {
			inProgress++
		}
	}
	require.Equal(t, 1, inProgress)
}

func TestAdvancePastLastStepCompletesPlan(t *testing.T) {
	s, _ := newTestStore(t, nil)
	s.Create("T", "O", []string{"only"})
	next, err := s.Advance()
	require.NoError(t, err)
	require.Nil(t, next)
	require.True(t, s.Current().Complete)
	require.Equal(t, 1, s.Current().CurrentIndex)
}

func TestAdvanceZeroStepPlanCompletesImmediately(t *testing.T) {
	s, _ := newTestStore(t, nil)
	s.Create("T", "O", nil)
	next, err := s.Advance()
	require.NoError(t, err)
	require.Nil(t, next)
	require.True(t, s.Current().Complete)
}

func TestSetStatusIllegalTransitionFails(t *testing.T) {
	s, _ := newTestStore(t, nil)
	s.Create("T", "O", []string{"a", "b"})
	// step 1 is Pending; cannot go straight to Completed.
	err := s.SetStatus(1, event.StepCompleted, "")
	require.Error(t, err)
}

func TestSetStatusBlockedThenReentryInProgress(t *testing.T) {
	s, _ := newTestStore(t, nil)
	s.Create("T", "O", []string{"a"})
	require.NoError(t, s.SetStatus(0, event.StepBlocked, "stuck"))
	require.NoError(t, s.SetStatus(0, event.StepInProgress, "retrying"))
	require.Equal(t, event.StepInProgress, s.Current().Steps[0].Status)
}

func TestSetStatusTerminalIsFinal(t *testing.T) {
	s, _ := newTestStore(t, nil)
	s.Create("T", "O", []string{"a"})
	require.NoError(t, s.SetStatus(0, event.StepCompleted, ""))
	require.Error(t, s.SetStatus(0, event.StepInProgress, ""))
}

func TestShouldReplanLexemeMatch(t *testing.T) {
	s, _ := newTestStore(t, nil)
	require.True(t, s.ShouldReplan("Network ERROR: unreachable"))
	require.True(t, s.ShouldReplan("the operation was Blocked by a firewall"))
	require.False(t, s.ShouldReplan("everything worked great"))
}

func TestShouldReplanDisabled(t *testing.T) {
	stub := &llm.Stub{}
	s := NewStore(NewPlanner(stub), false)
	require.False(t, s.ShouldReplan("error: failed"))
}

func TestReplanMonotone_I8(t *testing.T) {
	s, _ := newTestStore(t, []string{"TITLE: Recovery\nOBJECTIVE: fix it\n1. retry\n2. verify\n"})
	old := s.Create("T", "O", []string{"a", "b"})

	newPlan, err := s.Replan(context.Background(), "network unreachable", "", "do the thing")
	require.NoError(t, err)
	require.NotEqual(t, old.ID, newPlan.ID)
	require.Same(t, newPlan, s.Current())

	hist := s.History()
	require.Len(t, hist, 2)
	require.True(t, hist[0].Complete, "archived previous plan must be marked complete")
	require.Equal(t, old.ID, hist[0].ID)
}

func TestProgress(t *testing.T) {
	s, _ := newTestStore(t, nil)
	s.Create("T", "O", []string{"a", "b"})
	p := s.Progress()
	require.Equal(t, 0, p.Completed)
	require.Equal(t, 2, p.Total)
	require.Equal(t, "a", p.Current)

	s.Advance()
	p = s.Progress()
	require.Equal(t, 1, p.Completed)
	require.Equal(t, float64(50), p.Pct)
}

func TestPlanningFallbackOnUnparsableReply(t *testing.T) {
	s, stub := newTestStore(t, []string{"not a well-formed reply at all"})
	_ = stub
	p, err := s.Plan(context.Background(), "do something", "")
	require.NoError(t, err)
	require.Len(t, p.Steps, 3, "falls back to the default three-step plan")
}

func TestRenderAndParseRoundTrip_L1(t *testing.T) {
	s, _ := newTestStore(t, nil)
	original := s.Create("My Title", "My Objective", []string{"first step", "second step", "third step"})

	reply := RenderAsReply(original)
	title, objective, steps := parsePlanReply(reply)

	require.Equal(t, original.Title, title)
	require.Equal(t, original.Objective, objective)
	require.Len(t, steps, len(original.Steps))
	for i, s := range original.Steps {
		require.Equal(t, s.Description, steps[i])
	}
}

func TestRenderPseudocode(t *testing.T) {
	s, _ := newTestStore(t, nil)
	p := s.Create("T", "O", []string{"first", "second"})
	out := RenderPseudocode(p)
	require.Contains(t, out, "→ 1. [→] first")
	require.Contains(t, out, "2. [ ] second")
}
