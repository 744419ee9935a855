package assembler

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/kadirpekel/agentcore/pkg/event"
)

// digestLength matches the 16-hex-char convention used elsewhere in the
// module for content digests (event ids, stable-prefix digest).
const digestLength = 16

// Assembler holds the state of the five §4.5 techniques and builds the
// prompt the Agent Loop feeds to the LLM as one string, stable prefix
// first, dynamic parts after it. The Agent Loop
// is its sole owner; no other collaborator mutates it (spec
// "Ownership").
type Assembler struct {
	prefix       string
	prefixDigest string

	masks     *maskSet
	todo      *todoRecitation
	errors    *errorRing
	variation *variationBank

	stepCounter int
}

// New creates an Assembler with the given todo-recitation cadence (0
// selects DefaultUpdateFrequency).
func New(updateFrequency int) *Assembler {
	return &Assembler{
		masks:     newMaskSet(),
		todo:      newTodoRecitation(updateFrequency),
		errors:    newErrorRing(DefaultErrorRingCap, DefaultErrorThreshold),
		variation: newVariationBank(),
	}
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:digestLength]
}

// SetStablePrefix sets the prefix, as spec §4.5a requires, once at agent
// initialization. Calling it again intentionally replaces the prefix and
// its digest; callers that need I6 must not call it mid-run.
func (a *Assembler) SetStablePrefix(text string) {
	a.prefix = text
	a.prefixDigest = digest(text)
}

// CheckPrefixStability implements §4.5a: true iff new hashes to the
// digest already on file (I6).
func (a *Assembler) CheckPrefixStability(newPrefix string) bool {
	return digest(newPrefix) == a.prefixDigest
}

// Mask marks a tool unavailable without removing it from the catalog
// (spec §4.5b).
func (a *Assembler) Mask(tool, reason string, conditions ...string) {
	a.masks.mask(tool, reason, conditions...)
}

// Unmask reverses Mask.
func (a *Assembler) Unmask(tool string) {
	a.masks.unmask(tool)
}

// IsMasked reports whether tool is currently masked.
func (a *Assembler) IsMasked(tool string) bool {
	return a.masks.isMasked(tool)
}

// UpdateTodo records the plan's current remaining/completed item
// descriptions, called whenever the plan advances (spec §4.5c).
func (a *Assembler) UpdateTodo(remaining, completed []string) {
	a.todo.update(remaining, completed)
}

// RecordError appends a tool failure to the bounded error ring (spec
// §4.5d).
func (a *Assembler) RecordError(tool, errMsg string) {
	a.errors.record(tool, errMsg)
}

// RenderObservation renders one tool output through the serialization
// variation bank (spec §4.5e). Assemble does not call it: the
// chronological tail renders every message, tool output included, as
// `role: content`.
func (a *Assembler) RenderObservation(tool, output string) string {
	return a.variation.render(tool, output)
}

// StepCounter reports the number of Assemble calls made so far.
func (a *Assembler) StepCounter() int {
	return a.stepCounter
}

// Assemble builds the full prompt text in the exact order spec §4.5
// mandates: (1) stable prefix, (2) masked-tools block, (3) knowledge
// block, (4) datasource block, (5) plan pseudocode, (6) todo recitation,
// (7) error retention, (8) chronological Message/Action/Observation
// tail. It increments the step counter exactly once per call, which
// drives the recitation cadence (S4). An empty knowledge/datasource
// block is omitted entirely (the boundary behavior spec.md names).
func (a *Assembler) Assemble(knowledgeBlock, datasourceBlock, planPseudocode string, tail []event.Message) string {
	a.stepCounter++

	parts := []string{a.prefix}

	if block := a.masks.render(); block != "" {
		parts = append(parts, block)
	}
	if strings.TrimSpace(knowledgeBlock) != "" {
		parts = append(parts, knowledgeBlock)
	}
	if strings.TrimSpace(datasourceBlock) != "" {
		parts = append(parts, datasourceBlock)
	}
	if strings.TrimSpace(planPseudocode) != "" {
		parts = append(parts, planPseudocode)
	}
	if block, ok := a.todo.render(a.stepCounter); ok {
		parts = append(parts, block)
	}
	if block := a.errors.render(); block != "" {
		parts = append(parts, block)
	}
	if len(tail) > 0 {
		var lines []string
		for _, m := range tail {
			lines = append(lines, fmt.Sprintf("%s: %s", m.Role, m.Content))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}

	return strings.Join(parts, "\n\n")
}
