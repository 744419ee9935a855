package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func ts(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func TestAppendIsDeterministic_I1(t *testing.T) {
	l1 := New()
	l2 := New()

	payload := ActionPayload{ToolName: "list_files", ToolCallID: "c1", Input: map[string]any{"path": "/tmp"}}
	id1 := l1.Append(KindAction, ts(100), payload)
	id2 := l2.Append(KindAction, ts(100), payload)

	require.Equal(t, id1, id2, "identical kind/timestamp/payload must yield identical ids")
	require.Len(t, id1, 16)
}

func TestAppendOnly_I2(t *testing.T) {
	l := New()
	require.Equal(t, 0, l.Len())
	l.Append(KindMessage, ts(1), MessagePayload{Role: RoleUser, Content: "hi"})
	require.Equal(t, 1, l.Len())
	l.Append(KindMessage, ts(2), MessagePayload{Role: RoleAssistant, Content: "hello"})
	require.Equal(t, 2, l.Len())
}

func TestSerializationDeterministic_I5(t *testing.T) {
	build := func() *Log {
		l := New()
		l.Append(KindMessage, ts(1), MessagePayload{Role: RoleUser, Content: "list files"})
		l.Append(KindAction, ts(2), ActionPayload{ToolName: "list_files", ToolCallID: "c1", Input: map[string]any{"b": 2, "a": 1}})
		l.Append(KindObservation, ts(3), ObservationPayload{ToolName: "list_files", ToolCallID: "c1", Output: "a.txt\nb.txt"})
		return l
	}
	l1, l2 := build(), build()
	require.Equal(t, l1.Serialize(), l2.Serialize())
}

func TestEvictionAtCap(t *testing.T) {
	l := NewWithCap(3)
	l.Append(KindPlan, ts(1), PlanPayload{PlanID: "p1", Title: "t"})
	l.Append(KindMessage, ts(2), MessagePayload{Role: RoleUser, Content: "1"})
	l.Append(KindMessage, ts(3), MessagePayload{Role: RoleUser, Content: "2"})
	require.Equal(t, 3, l.Len())

	// Next append evicts exactly one non-Plan, non-System event.
	l.Append(KindMessage, ts(4), MessagePayload{Role: RoleUser, Content: "3"})
	require.Equal(t, 3, l.Len())
	require.Equal(t, 1, l.EvictedCount())

	// The Plan event survives eviction.
	plans := l.ByKind(KindPlan)
	require.Len(t, plans, 1)
}

func TestRecentErrorsOnlyFailures(t *testing.T) {
	l := New()
	l.Append(KindObservation, ts(1), ObservationPayload{ToolName: "a", ToolCallID: "1", Output: "ok"})
	l.Append(KindObservation, ts(2), ObservationPayload{ToolName: "b", ToolCallID: "2", Error: "network unreachable"})
	l.Append(KindObservation, ts(3), ObservationPayload{ToolName: "c", ToolCallID: "3", Output: "Error: boom"})

	errs := l.RecentErrors(10)
	require.Len(t, errs, 2)
}

func TestKnowledgeSortedByPriorityDescending(t *testing.T) {
	l := New()
	l.Append(KindKnowledge, ts(1), KnowledgePayload{Content: "low", Priority: 2})
	l.Append(KindKnowledge, ts(2), KnowledgePayload{Content: "high", Priority: 9})
	l.Append(KindKnowledge, ts(3), KnowledgePayload{Content: "mid", Priority: 5})

	items := l.Knowledge()
	require.Len(t, items, 3)
	require.Equal(t, "high", items[0].Payload.(KnowledgePayload).Content)
	require.Equal(t, "mid", items[1].Payload.(KnowledgePayload).Content)
	require.Equal(t, "low", items[2].Payload.(KnowledgePayload).Content)
}

func TestToMessagesProjection(t *testing.T) {
	l := New()
	l.Append(KindMessage, ts(1), MessagePayload{Role: RoleUser, Content: "hi"})
	l.Append(KindAction, ts(2), ActionPayload{ToolName: "t", ToolCallID: "c1", Input: nil})
	l.Append(KindObservation, ts(3), ObservationPayload{ToolName: "t", ToolCallID: "c1", Output: "done"})
	l.Append(KindSystem, ts(4), SystemPayload{EventName: "bookkeeping"})

	msgs := l.ToMessages()
	require.Len(t, msgs, 2, "Action and System are omitted from the projection")
	require.Equal(t, "user", msgs[0].Role)
	require.Equal(t, "tool", msgs[1].Role)
	require.Equal(t, "c1", msgs[1].ToolCallID)
}
