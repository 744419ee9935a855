// Command agentcore is the thin CLI surface spec §6.4 describes: a
// single run command that wires a config file, an LLM client, a fixed
// example tool catalog, and prints the resulting Summary. It carries no
// business logic of its own — that all lives in pkg/agentloop and its
// collaborators.
//
// Grounded on github.com/kadirpekel/hector's cmd/hector (kong.Parse, a
// CLI struct of subcommands, logger initialized before config loading),
// reduced to the one command this module's scope needs.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/kadirpekel/agentcore/pkg/config"
)

// Exit codes per spec §6.4.
const (
	exitSuccess = 0
	exitConfig  = 1
	exitRuntime = 2
)

const shutdownTimeout = 5 * time.Second

// CLI defines the command-line interface.
type CLI struct {
	Run RunCmd `cmd:"" help:"Run the agent against a single request."`
}

// RunCmd loads configuration, wires the agent loop's dependencies, and
// executes one request to completion.
type RunCmd struct {
	Config      string `short:"c" help:"Path to the YAML config file." type:"path" required:""`
	Request     string `arg:"" help:"The task or question to give the agent."`
	GeminiKey   string `name:"gemini-api-key" help:"Gemini API key (defaults to GEMINI_API_KEY env var)."`
	GeminiModel string `name:"gemini-model" help:"Gemini model name." default:"gemini-2.0-flash"`
}

func (c *RunCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return &configError{fmt.Errorf("loading config: %w", err)}
	}

	apiKey := c.GeminiKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return &configError{errors.New("gemini api key not set: pass --gemini-api-key or set GEMINI_API_KEY")}
	}

	ctx := context.Background()
	loop, m, err := buildLoop(ctx, cfg, apiKey, c.GeminiModel)
	if err != nil {
		return &configError{err}
	}

	if cfg.Metrics.ListenAddr != "" {
		shutdown := serveMetrics(cfg.Metrics.ListenAddr, m)
		defer shutdown()
	}

	summary, err := loop.Run(ctx, c.Request)
	if err != nil {
		return &runtimeError{err}
	}

	fmt.Println(summary.FinalMessage)
	fmt.Printf("plan: %.0f%% complete (truncated=%v)\n", summary.PlanPct, summary.Truncated)
	for _, step := range summary.StepResults {
		if step.Error != "" {
			fmt.Printf("  tool %s: error: %s\n", step.ToolName, step.Error)
		} else {
			fmt.Printf("  tool %s: %s\n", step.ToolName, step.Output)
		}
	}
	return nil
}

// configError marks a configuration or input failure (exit code 1 per
// spec §6.4).
type configError struct{ err error }

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// runtimeError marks a failure inside the core (exit code 2 per spec
// §6.4).
type runtimeError struct{ err error }

func (e *runtimeError) Error() string { return e.err.Error() }
func (e *runtimeError) Unwrap() error { return e.err }

func main() {
	_ = config.LoadDotEnv()

	cli := CLI{}
	kctx := kong.Parse(&cli,
		kong.Name("agentcore"),
		kong.Description("agentcore - a Go agent runtime core"),
		kong.UsageOnError(),
	)

	err := kctx.Run()
	if err == nil {
		os.Exit(exitSuccess)
	}

	fmt.Fprintln(os.Stderr, err)

	var cfgErr *configError
	if errors.As(err, &cfgErr) {
		os.Exit(exitConfig)
	}
	os.Exit(exitRuntime)
}
