package tool

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	jsonschemav6 "github.com/santhosh-tekuri/jsonschema/v6"
)

// GenerateSchema derives a JSON-Schema parameter spec from a typed Go
// struct, for tools that declare their parameters as a struct rather
// than hand-writing the schema map (spec §6.1's "JSON-Schema-style
// parameter spec"). Required fields are those tagged
// `jsonschema:"required"`.
func GenerateSchema[T any]() (map[string]any, error) {
	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}
	schema := reflector.Reflect(new(T))

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("tool: marshal generated schema: %w", err)
	}
	var result map[string]any
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("tool: decode generated schema: %w", err)
	}
	delete(result, "$schema")
	delete(result, "$id")
	return result, nil
}

// ValidateArgs checks args against a tool's declared JSON schema before
// dispatch. A nil schema always validates (tools that take no
// parameters declare one).
func ValidateArgs(schema map[string]any, args map[string]any) error {
	if schema == nil {
		return nil
	}

	schemaDoc, err := toJSONDoc(schema)
	if err != nil {
		return fmt.Errorf("tool: marshal schema: %w", err)
	}

	compiler := jsonschemav6.NewCompiler()
	if err := compiler.AddResource("schema.json", schemaDoc); err != nil {
		return fmt.Errorf("tool: add schema resource: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("tool: compile schema: %w", err)
	}

	argsDoc, err := toJSONDoc(args)
	if err != nil {
		return fmt.Errorf("tool: marshal arguments: %w", err)
	}
	if err := compiled.Validate(argsDoc); err != nil {
		return fmt.Errorf("tool: invalid arguments: %w", err)
	}
	return nil
}

func toJSONDoc(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
