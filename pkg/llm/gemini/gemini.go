// Package gemini implements llm.Client against Google's Gemini API via
// the official google.golang.org/genai SDK.
//
// Grounded on github.com/kadirpekel/hector's pkg/model/gemini, reduced
// from that package's full streaming/thinking-block/multi-part a2a.Message
// conversion down to the two-call, plain-string/tool-call shape spec
// §6.2 defines — this module has no streaming or multimodal surface.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/kadirpekel/agentcore/pkg/llm"
)

// Config configures a Gemini-backed Client.
type Config struct {
	APIKey string
	Model  string
}

// Client implements llm.Client against the Gemini API. Neither Ask nor
// AskTool retries: a failed call is returned at once, classified as an
// llm.TransientError or an llm.FatalError.
type Client struct {
	genai *genai.Client
	model string
}

var _ llm.Client = (*Client)(nil)

// New constructs a Gemini-backed Client. The API key is never logged;
// callers typically source it from an environment variable loaded by
// pkg/config.LoadDotEnv.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}
	return &Client{genai: c, model: model}, nil
}

// Ask requests a plain-text completion with no tool catalog attached.
func (c *Client) Ask(ctx context.Context, messages []llm.Message, systemMessages []llm.Message, temperature float64) (string, error) {
	contents := toContents(messages)
	config := c.baseConfig(systemMessages, temperature)

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", classifyError(err)
	}
	text, _, err := parseResponse(resp)
	return text, err
}

// AskTool requests the next action(s) given a tool catalog.
func (c *Client) AskTool(ctx context.Context, messages []llm.Message, systemMessages []llm.Message, tools []llm.ToolSpec, toolChoice string, temperature float64) (llm.ToolReply, error) {
	contents := toContents(messages)
	config := c.baseConfig(systemMessages, temperature)
	if len(tools) > 0 {
		config.Tools = toGenaiTools(tools)
	}
	// toolChoice forcing (e.g. "required"/"none"/a specific tool name) has
	// no grounded equivalent in the teacher's gemini client, which always
	// lets the model decide among the declared tools; this implementation
	// does the same and leaves toolChoice advisory only.
	_ = toolChoice

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return llm.ToolReply{}, classifyError(err)
	}
	text, calls, err := parseResponse(resp)
	if err != nil {
		return llm.ToolReply{}, err
	}
	return llm.ToolReply{Content: text, ToolCalls: calls}, nil
}

func (c *Client) baseConfig(systemMessages []llm.Message, temperature float64) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(temperature)),
	}
	if len(systemMessages) > 0 {
		var text string
		for _, m := range systemMessages {
			text += m.Content + "\n"
		}
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: text}},
		}
	}
	return config
}

func toContents(messages []llm.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == "assistant" || m.Role == "model" {
			role = "model"
		}
		parts := []*genai.Part{{Text: m.Content}}
		if len(m.Image) > 0 {
			parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: "image/png", Data: m.Image}})
		}
		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}
	return contents
}

func toGenaiTools(tools []llm.ToolSpec) []*genai.Tool {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  toGenaiSchema(t.Parameters),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

func toGenaiSchema(schema map[string]any) *genai.Schema {
	if schema == nil {
		return nil
	}
	s := &genai.Schema{}
	if t, ok := schema["type"].(string); ok {
		s.Type = genai.Type(t)
	}
	if desc, ok := schema["description"].(string); ok {
		s.Description = desc
	}
	if props, ok := schema["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, prop := range props {
			if propMap, ok := prop.(map[string]any); ok {
				s.Properties[name] = toGenaiSchema(propMap)
			}
		}
	}
	if required, ok := schema["required"].([]any); ok {
		for _, r := range required {
			if rs, ok := r.(string); ok {
				s.Required = append(s.Required, rs)
			}
		}
	}
	if items, ok := schema["items"].(map[string]any); ok {
		s.Items = toGenaiSchema(items)
	}
	return s
}

func parseResponse(resp *genai.GenerateContentResponse) (string, []llm.ToolCall, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil, nil
	}
	var text string
	var calls []llm.ToolCall
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
		if part.FunctionCall != nil {
			argBytes, err := json.Marshal(part.FunctionCall.Args)
			if err != nil {
				return "", nil, fmt.Errorf("gemini: failed to encode function call args: %w", err)
			}
			args := string(argBytes)
			calls = append(calls, llm.ToolCall{
				ID:        part.FunctionCall.ID,
				Name:      part.FunctionCall.Name,
				Arguments: args,
			})
		}
	}
	return text, calls, nil
}

// classifyError maps a genai transport error onto the FatalError/
// TransientError distinction spec §6.2 requires: auth and bad-request
// failures never self-correct on retry, everything else (5xx, rate
// limits, network blips) might. The genai SDK surfaces HTTP status
// through its error text rather than a typed field callers can switch
// on, so the classification matches on the status substrings it emits.
func classifyError(err error) error {
	msg := err.Error()
	for _, fatal := range []string{"400", "401", "403", "API key not valid", "PERMISSION_DENIED", "UNAUTHENTICATED"} {
		if strings.Contains(msg, fatal) {
			return &llm.FatalError{Err: err}
		}
	}
	return &llm.TransientError{Err: err}
}
