package tool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type listFilesArgs struct {
	Path string `json:"path" jsonschema:"required,description=directory to list"`
}

func TestGenerateSchemaMarksRequiredField(t *testing.T) {
	schema, err := GenerateSchema[listFilesArgs]()
	require.NoError(t, err)
	require.Equal(t, "object", schema["type"])
	required, ok := schema["required"].([]any)
	require.True(t, ok)
	require.Contains(t, required, "path")
}

func TestValidateArgsAcceptsWellFormed(t *testing.T) {
	schema, err := GenerateSchema[listFilesArgs]()
	require.NoError(t, err)
	require.NoError(t, ValidateArgs(schema, map[string]any{"path": "/tmp"}))
}

func TestValidateArgsRejectsMissingRequired(t *testing.T) {
	schema, err := GenerateSchema[listFilesArgs]()
	require.NoError(t, err)
	require.Error(t, ValidateArgs(schema, map[string]any{}))
}

func TestValidateArgsNilSchemaAlwaysPasses(t *testing.T) {
	require.NoError(t, ValidateArgs(nil, map[string]any{"anything": 1}))
}

func TestDecodeArgsIntoStruct(t *testing.T) {
	var args listFilesArgs
	require.NoError(t, DecodeArgs(map[string]any{"path": "/tmp"}, &args))
	require.Equal(t, "/tmp", args.Path)
}
