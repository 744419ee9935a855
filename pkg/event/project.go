package event

import (
	"fmt"
	"strings"
)

// Message is the transport-facing projection of one event, per §6.3.
type Message struct {
	Role       string
	Content    string
	Image      []byte
	ToolCallID string
	Name       string
}

// ToMessages projects the log into LLM-transport messages:
//   - Message(user|assistant)            -> {role, content, [image]}
//   - Action                             -> omitted
//   - Observation                        -> {role=tool, content, tool_call_id, name}
//   - Plan, Knowledge, Datasource        -> {role=system, content=rendered block}
//   - System                             -> omitted
func (l *Log) ToMessages() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []Message
	for _, ev := range l.events {
		switch ev.Kind {
		case KindMessage:
			p := ev.Payload.(MessagePayload)
			out = append(out, Message{Role: string(p.Role), Content: p.Content, Image: p.Image})
		case KindAction:
			// Tool-call intent is carried by the transport's own reply
			// shape, not by a synthesized message (§6.3).
		case KindObservation:
			p := ev.Payload.(ObservationPayload)
			content := p.Output
			if p.Error != "" {
				content = "Error: " + p.Error
			}
			out = append(out, Message{
				Role:       "tool",
				Content:    content,
				Image:      p.Image,
				ToolCallID: p.ToolCallID,
				Name:       p.ToolName,
			})
		case KindPlan:
			out = append(out, Message{Role: "system", Content: renderPlanPayload(ev.Payload.(PlanPayload))})
		case KindKnowledge:
			out = append(out, Message{Role: "system", Content: renderKnowledgePayload(ev.Payload.(KnowledgePayload))})
		case KindDatasource:
			out = append(out, Message{Role: "system", Content: renderDatasourcePayload(ev.Payload.(DatasourcePayload))})
		case KindSystem:
			// Bookkeeping only; not shown to the LLM (§6.3).
		}
	}
	return out
}

// ChronologicalTail projects only Message and Observation events — the
// final item of the assembler's §4.5 assembly order. Plan, Knowledge,
// and Datasource events are rendered as their own dedicated blocks
// instead of appearing in this chronological subset.
func (l *Log) ChronologicalTail() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []Message
	for _, ev := range l.events {
		switch ev.Kind {
		case KindMessage:
			p := ev.Payload.(MessagePayload)
			out = append(out, Message{Role: string(p.Role), Content: p.Content, Image: p.Image})
		case KindObservation:
			p := ev.Payload.(ObservationPayload)
			content := p.Output
			if p.Error != "" {
				content = "Error: " + p.Error
			}
			out = append(out, Message{
				Role:       "tool",
				Content:    content,
				Image:      p.Image,
				ToolCallID: p.ToolCallID,
				Name:       p.ToolName,
			})
		}
	}
	return out
}

var stepStatusIcon = map[StepStatus]string{
	StepPending:    "[ ]",
	StepInProgress: "[→]",
	StepCompleted:  "[✓]",
	StepBlocked:    "[!]",
	StepSkipped:    "[-]",
}

// renderPlanPayload renders a Plan event snapshot using the same
// pseudocode format §4.2 specifies for the live Plan Store
// (`N. <status-icon> <description>`, current step prefixed with `→`).
func renderPlanPayload(p PlanPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan: %s\n", p.Title)
	for i, desc := range p.Steps {
		status := StepPending
		if i < len(p.StepStatuses) {
			status = p.StepStatuses[i]
		}
		icon := stepStatusIcon[status]
		prefix := "  "
		if i == p.CurrentIndex {
			prefix = "→ "
		}
		fmt.Fprintf(&b, "%s%d. %s %s\n", prefix, i+1, icon, desc)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderKnowledgePayload(k KnowledgePayload) string {
	return fmt.Sprintf("[KNOWLEDGE:%s/%s] %s", k.Scope, k.Category, k.Content)
}

func renderDatasourcePayload(d DatasourcePayload) string {
	return fmt.Sprintf("[DATASOURCE:%s] %s — %s", d.Name, d.Endpoint, d.Documentation)
}
