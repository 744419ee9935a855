package plan

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kadirpekel/agentcore/pkg/event"
	"github.com/kadirpekel/agentcore/pkg/llm"
)

// Planner is the LLM-backed plan-creation subroutine described in spec
// §4.2. It is injected into the Store at construction time (never
// lazily), per Design Notes §9.
type Planner struct {
	client llm.Client
	now    func() time.Time
}

// NewPlanner constructs a Planner bound to an LLM client.
func NewPlanner(client llm.Client) *Planner {
	return &Planner{client: client, now: time.Now}
}

const planningSystemPrompt = `You are the planning subsystem of an autonomous task executor.
Given a user request (and optional context), reply with exactly:
  TITLE: <short title>
  OBJECTIVE: <one-sentence objective>
followed by a numbered list of concrete steps, one per line, like:
  1. <first step>
  2. <second step>
Do not include any other commentary.`

var (
	titleRe = regexp.MustCompile(`(?i)^TITLE:\s*(.+)$`)
	objRe   = regexp.MustCompile(`(?i)^OBJECTIVE:\s*(.+)$`)
	stepRe  = regexp.MustCompile(`^\s*(\d+)\.\s*(.+)$`)
	markerRe = regexp.MustCompile(`^\s*\[[ →✓!\-]\]\s*`)
)

// Create runs the planning subroutine: sends a planning prompt, parses
// the reply, and falls back to a three-step default plan when no steps
// could be parsed (spec §4.2 step 3, and the PlanningFailure recovery in
// §7).
func (p *Planner) Create(ctx context.Context, request string, extraContext string) (*Plan, error) {
	prompt := "User request: " + request
	if extraContext != "" {
		prompt += "\n\nContext:\n" + extraContext
	}

	reply, err := p.client.Ask(ctx, []llm.Message{{Role: "user", Content: prompt}},
		[]llm.Message{{Role: "system", Content: planningSystemPrompt}}, 0)
	if err != nil {
		if llm.IsFatal(err) {
			return nil, err
		}
		// PlanningFailure: fall back rather than propagate (§7).
		return p.fallback(request), nil
	}

	title, objective, steps := parsePlanReply(reply)
	if len(steps) == 0 {
		return p.fallback(request), nil
	}

	return p.build(title, objective, steps), nil
}

func (p *Planner) fallback(request string) *Plan {
	title := "Default plan"
	if request != "" {
		title = "Plan for: " + request
	}
	return p.build(title, request, []string{"Analyze the request", "Execute the necessary actions", "Verify the outcome"})
}

func (p *Planner) build(title, objective string, steps []string) *Plan {
	now := p.now()
	pl := &Plan{
		ID:        uuid.NewString(),
		Title:     title,
		Objective: objective,
		Steps:     make([]Step, len(steps)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, desc := range steps {
		status := event.StepPending
		if i == 0 {
			status = event.StepInProgress
		}
		pl.Steps[i] = Step{Index: i, Description: desc, Status: status}
	}
	if len(steps) == 0 {
		pl.Complete = true
		pl.CurrentIndex = 0
	} else {
		started := now
		pl.Steps[0].StartedAt = &started
	}
	return pl
}

// parsePlanReply implements §4.2 steps 2 and 4: extract TITLE:/OBJECTIVE:
// lines, numbered steps, and strip leading status markers from step text.
func parsePlanReply(reply string) (title, objective string, steps []string) {
	for _, line := range strings.Split(reply, "\n") {
		if title == "" {
			if m := titleRe.FindStringSubmatch(line); m != nil {
				title = strings.TrimSpace(m[1])
				continue
			}
		}
		if objective == "" {
			if m := objRe.FindStringSubmatch(line); m != nil {
				objective = strings.TrimSpace(m[1])
				continue
			}
		}
		if m := stepRe.FindStringSubmatch(line); m != nil {
			if _, err := strconv.Atoi(m[1]); err == nil {
				desc := markerRe.ReplaceAllString(m[2], "")
				desc = strings.TrimSpace(desc)
				if desc != "" {
					steps = append(steps, desc)
				}
			}
		}
	}
	if title == "" {
		title = "Untitled plan"
	}
	return title, objective, steps
}
