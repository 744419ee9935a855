package agentloop

import (
	"fmt"
	"strings"

	"github.com/kadirpekel/agentcore/pkg/datasource"
	"github.com/kadirpekel/agentcore/pkg/knowledge"
)

// renderKnowledgeBlock renders the relevant Knowledge items injected at
// run start into the assembler's knowledge block (spec §4.5 assembly
// order item 3).
func renderKnowledgeBlock(items []knowledge.Item) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("[KNOWLEDGE]\n")
	for _, item := range items {
		fmt.Fprintf(&b, "- (%s/%s) %s\n", item.Scope, item.Category, item.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderDatasourceBlock renders the relevant Datasources injected at run
// start into the assembler's datasource block (spec §4.5 assembly order
// item 4).
func renderDatasourceBlock(sources []datasource.Datasource) string {
	if len(sources) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("[DATASOURCES]\n")
	for _, d := range sources {
		fmt.Fprintf(&b, "- %s: %s\n", d.Name, datasource.Documentation(d))
	}
	return strings.TrimRight(b.String(), "\n")
}
