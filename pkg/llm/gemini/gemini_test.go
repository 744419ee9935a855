package gemini

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/agentcore/pkg/llm"
)

func TestToGenaiSchemaConvertsNestedProperties(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"city": map[string]any{"type": "string", "description": "city name"},
		},
		"required": []any{"city"},
	}
	s := toGenaiSchema(schema)
	require.NotNil(t, s)
	require.Equal(t, []string{"city"}, s.Required)
	require.Contains(t, s.Properties, "city")
	require.Equal(t, "city name", s.Properties["city"].Description)
}

func TestToGenaiSchemaNil(t *testing.T) {
	require.Nil(t, toGenaiSchema(nil))
}

func TestToContentsMapsAssistantRoleToModel(t *testing.T) {
	contents := toContents([]llm.Message{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	})
	require.Len(t, contents, 2)
	require.Equal(t, "user", contents[0].Role)
	require.Equal(t, "model", contents[1].Role)
}

func TestClassifyErrorFatalOnAuthFailure(t *testing.T) {
	err := classifyError(errors.New("401: API key not valid"))
	require.True(t, llm.IsFatal(err))
}

func TestClassifyErrorTransientOnServerFailure(t *testing.T) {
	err := classifyError(errors.New("503 Service Unavailable"))
	require.True(t, llm.IsTransient(err))
}

func TestToGenaiToolsBuildsFunctionDeclarations(t *testing.T) {
	tools := toGenaiTools([]llm.ToolSpec{
		{Name: "search", Description: "searches", Parameters: map[string]any{"type": "object"}},
	})
	require.Len(t, tools, 1)
	require.Len(t, tools[0].FunctionDeclarations, 1)
	require.Equal(t, "search", tools[0].FunctionDeclarations[0].Name)
}
