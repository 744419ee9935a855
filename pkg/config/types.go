// Package config loads the YAML-driven configuration for cmd/agentcore:
// the Agent Loop's step budget, the Assembler's recitation cadence, and
// the Knowledge/Datasource items to seed their registries with.
//
// Grounded on github.com/kadirpekel/hector's pkg/config (Config struct
// decoded via mapstructure/yaml with a SetDefaults() pass), reduced to
// this module's own fields — hector's LLM-provider, server, RAG, and
// auth sections describe subsystems this module's Non-goals exclude.
package config

import (
	"fmt"

	"github.com/kadirpekel/agentcore/pkg/agentloop"
	"github.com/kadirpekel/agentcore/pkg/datasource"
	"github.com/kadirpekel/agentcore/pkg/knowledge"
)

// LoopConfig mirrors agentloop.Config's tunables in their YAML shape.
type LoopConfig struct {
	MaxSteps      int      `yaml:"max_steps"`
	MaxObserve    int      `yaml:"max_observe"`
	TerminalTools []string `yaml:"terminal_tools"`
	ToolChoice    string   `yaml:"tool_choice"`
	Temperature   float64  `yaml:"temperature"`
}

// ToAgentLoopConfig converts to the runtime Config type consumed by
// agentloop.New.
func (l LoopConfig) ToAgentLoopConfig() agentloop.Config {
	return agentloop.Config{
		MaxSteps:      l.MaxSteps,
		MaxObserve:    l.MaxObserve,
		TerminalTools: l.TerminalTools,
		ToolChoice:    l.ToolChoice,
		Temperature:   l.Temperature,
	}
}

// SetDefaults applies the negative-sentinel MaxSteps convention
// (agentloop.Config.withDefaults defaults only a negative MaxSteps and
// keeps 0 as an immediate-exit budget; a config file with no max_steps
// key decodes to 0, which this treats as "unset" and maps to the
// sentinel the loop defaults from).
func (l *LoopConfig) SetDefaults() {
	if l.MaxSteps == 0 {
		l.MaxSteps = -1
	}
}

// AssemblerConfig mirrors the Assembler's one tunable cadence.
type AssemblerConfig struct {
	TodoUpdateFrequency int `yaml:"todo_update_frequency"`
}

func (a *AssemblerConfig) SetDefaults() {
	if a.TodoUpdateFrequency <= 0 {
		a.TodoUpdateFrequency = 3
	}
}

// KnowledgeItemConfig is the declarative form of a knowledge.Item.
type KnowledgeItemConfig struct {
	ID         string   `yaml:"id"`
	Scope      string   `yaml:"scope"`
	Category   string   `yaml:"category"`
	Content    string   `yaml:"content"`
	Triggers   []string `yaml:"triggers"`
	Conditions []string `yaml:"conditions"`
	Priority   int      `yaml:"priority"`
	Enabled    bool     `yaml:"enabled"`
}

func (k KnowledgeItemConfig) toItem() knowledge.Item {
	return knowledge.Item{
		ID:         k.ID,
		Scope:      knowledge.Scope(k.Scope),
		Category:   knowledge.Category(k.Category),
		Content:    k.Content,
		Triggers:   k.Triggers,
		Conditions: k.Conditions,
		Priority:   k.Priority,
		Enabled:    k.Enabled,
	}
}

// EndpointConfig is the declarative form of a datasource.Endpoint.
type EndpointConfig struct {
	Path        string `yaml:"path"`
	Method      string `yaml:"method"`
	Description string `yaml:"description"`
	Example     string `yaml:"example"`
	RateLimit   string `yaml:"rate_limit"`
}

// DatasourceConfig is the declarative form of a datasource.Datasource.
type DatasourceConfig struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	BaseURL     string            `yaml:"base_url"`
	AuthScheme  string            `yaml:"auth_scheme"`
	AuthConfig  map[string]string `yaml:"auth_config"`
	Endpoints   []EndpointConfig  `yaml:"endpoints"`
	Tags        []string          `yaml:"tags"`
	Priority    int               `yaml:"priority"`
	Enabled     bool              `yaml:"enabled"`
}

func (d DatasourceConfig) toDatasource() datasource.Datasource {
	endpoints := make([]datasource.Endpoint, len(d.Endpoints))
	for i, ep := range d.Endpoints {
		endpoints[i] = datasource.Endpoint{
			Path: ep.Path, Method: ep.Method, Description: ep.Description,
			Example: ep.Example, RateLimit: ep.RateLimit,
		}
	}
	return datasource.Datasource{
		ID: d.ID, Name: d.Name, Description: d.Description, BaseURL: d.BaseURL,
		AuthScheme: datasource.AuthScheme(d.AuthScheme), AuthConfig: d.AuthConfig,
		Endpoints: endpoints, Tags: d.Tags, Priority: d.Priority, Enabled: d.Enabled,
	}
}

// MetricsConfig configures the optional Prometheus HTTP exposition,
// wired by cmd/agentcore rather than the core (spec §6.4).
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Config is the root of the YAML configuration file.
type Config struct {
	LogLevel    string                `yaml:"log_level"`
	Loop        LoopConfig            `yaml:"loop"`
	Assembler   AssemblerConfig       `yaml:"assembler"`
	Knowledge   []KnowledgeItemConfig `yaml:"knowledge"`
	Datasources []DatasourceConfig    `yaml:"datasources"`
	Metrics     MetricsConfig         `yaml:"metrics"`
}

// SetDefaults applies defaults to Config and every nested section that
// declares its own SetDefaults, matching the teacher's per-struct
// SetDefaults convention (pkg/config/*.go in the teacher).
func (c *Config) SetDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.Loop.SetDefaults()
	c.Assembler.SetDefaults()
}

// Validate rejects a config that cannot produce a runnable agent.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Datasources))
	for _, d := range c.Datasources {
		if d.ID == "" {
			return fmt.Errorf("config: datasource entry missing id")
		}
		if seen[d.ID] {
			return fmt.Errorf("config: duplicate datasource id %q", d.ID)
		}
		seen[d.ID] = true
	}
	seenK := make(map[string]bool, len(c.Knowledge))
	for _, k := range c.Knowledge {
		if k.ID == "" {
			return fmt.Errorf("config: knowledge entry missing id")
		}
		if seenK[k.ID] {
			return fmt.Errorf("config: duplicate knowledge id %q", k.ID)
		}
		seenK[k.ID] = true
	}
	return nil
}

// KnowledgeItems converts the declarative knowledge section into
// knowledge.Item values ready for Registry.Register.
func (c *Config) KnowledgeItems() []knowledge.Item {
	out := make([]knowledge.Item, len(c.Knowledge))
	for i, k := range c.Knowledge {
		out[i] = k.toItem()
	}
	return out
}

// DatasourceItems converts the declarative datasources section into
// datasource.Datasource values ready for Registry.Register.
func (c *Config) DatasourceItems() []datasource.Datasource {
	out := make([]datasource.Datasource, len(c.Datasources))
	for i, d := range c.Datasources {
		out[i] = d.toDatasource()
	}
	return out
}
