package main

import (
	"context"
	"fmt"

	"github.com/kadirpekel/agentcore/pkg/agentloop"
	"github.com/kadirpekel/agentcore/pkg/apiclient"
	"github.com/kadirpekel/agentcore/pkg/assembler"
	"github.com/kadirpekel/agentcore/pkg/config"
	"github.com/kadirpekel/agentcore/pkg/datasource"
	"github.com/kadirpekel/agentcore/pkg/event"
	"github.com/kadirpekel/agentcore/pkg/knowledge"
	"github.com/kadirpekel/agentcore/pkg/llm/gemini"
	"github.com/kadirpekel/agentcore/pkg/logger"
	"github.com/kadirpekel/agentcore/pkg/metrics"
	"github.com/kadirpekel/agentcore/pkg/plan"
	"github.com/kadirpekel/agentcore/pkg/tool"
)

const stablePrefix = `You are an autonomous task-executing agent. You work through a plan
step by step, calling tools to make progress, and report back once the
plan is complete or no further progress is possible.`

// buildLoop wires a full agentloop.Loop from a loaded Config: the
// Gemini-backed LLM client, the event log, plan store, knowledge and
// datasource registries (seeded from Config), the assembler, the
// example tool catalog, and Prometheus metrics. It also returns the
// Metrics instance itself so main can expose it over HTTP per
// cfg.Metrics.ListenAddr.
func buildLoop(ctx context.Context, cfg *config.Config, geminiAPIKey, geminiModel string) (*agentloop.Loop, *metrics.Metrics, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	logger.Init(level, nil)

	llmClient, err := gemini.New(ctx, gemini.Config{APIKey: geminiAPIKey, Model: geminiModel})
	if err != nil {
		return nil, nil, fmt.Errorf("constructing gemini client: %w", err)
	}

	knowledgeReg := knowledge.NewRegistry()
	for _, item := range cfg.KnowledgeItems() {
		if err := knowledgeReg.Register(item); err != nil {
			return nil, nil, fmt.Errorf("registering knowledge item %q: %w", item.ID, err)
		}
	}

	datasourceReg := datasource.NewRegistry()
	for _, d := range cfg.DatasourceItems() {
		if err := datasourceReg.Register(d); err != nil {
			return nil, nil, fmt.Errorf("registering datasource %q: %w", d.ID, err)
		}
	}
	apiclient.Configure(datasourceReg)

	asm := assembler.New(cfg.Assembler.TodoUpdateFrequency)
	asm.SetStablePrefix(stablePrefix)

	planner := plan.NewPlanner(llmClient)
	store := plan.NewStore(planner, true)

	catalog := tool.NewCatalog(exampleTools(datasourceReg)...)
	m := metrics.New()

	deps := agentloop.Deps{
		Log:         event.New(),
		Plans:       store,
		Knowledge:   knowledgeReg,
		Datasources: datasourceReg,
		Assembler:   asm,
		LLM:         llmClient,
		Tools:       agentloop.FixedCatalog{Catalog: catalog},
		Metrics:     m,
	}

	return agentloop.New(deps, cfg.Loop.ToAgentLoopConfig()), m, nil
}
