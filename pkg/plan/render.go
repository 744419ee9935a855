package plan

import (
	"fmt"
	"strings"

	"github.com/kadirpekel/agentcore/pkg/event"
)

var stepStatusIcon = map[event.StepStatus]string{
	event.StepPending:    "[ ]",
	event.StepInProgress: "[→]",
	event.StepCompleted:  "[✓]",
	event.StepBlocked:    "[!]",
	event.StepSkipped:    "[-]",
}

// RenderPseudocode implements §4.2's pseudocode rendering for context
// injection: `N. <status-icon> <description>` per step, current step
// prefixed with `→`.
func RenderPseudocode(p *Plan) string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	for i, s := range p.Steps {
		prefix := "  "
		if i == p.CurrentIndex && !p.Complete {
			prefix = "→ "
		}
		fmt.Fprintf(&b, "%s%d. %s %s\n", prefix, i+1, stepStatusIcon[s.Status], s.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderAsReply renders a plan in the same TITLE:/OBJECTIVE:/numbered-list
// shape the planning subroutine expects from the LLM, so that
// parsePlanReply(RenderAsReply(p)) reconstructs equivalent steps (L1).
func RenderAsReply(p *Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "TITLE: %s\n", p.Title)
	fmt.Fprintf(&b, "OBJECTIVE: %s\n", p.Objective)
	for i, s := range p.Steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s.Description)
	}
	return b.String()
}
