package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/wesleyorama2/taskbench/internal/bench"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// benchConfigSchema is the JSON Schema the parsed document must satisfy
// before semantic validation runs.
const benchConfigSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "name": {"type": "string"},
    "description": {"type": "string"},
    "delay": {"type": "string"},
    "warmup": {"type": "integer", "minimum": 0},
    "awaitCeiling": {"type": "string"},
    "onTimeout": {"enum": ["abort", "skip"]},
    "scenarios": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "tasks": {"type": "integer", "minimum": 1},
          "poolWidth": {"type": "integer", "minimum": 1}
        },
        "required": ["tasks", "poolWidth"],
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

// ValidateSchema validates a raw configuration document against the embedded
// JSON Schema, before it is bound to the config struct. Validating the raw
// document catches unknown fields and type mismatches the struct binding
// would silently drop. The document round-trips through JSON so the schema
// sees JSON-typed values.
func ValidateSchema(doc interface{}) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("bench-config.schema.json", strings.NewReader(benchConfigSchema)); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	schema, err := compiler.Compile("bench-config.schema.json")
	if err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	var jsonDoc interface{}
	if err := json.Unmarshal(raw, &jsonDoc); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}

	if err := schema.Validate(jsonDoc); err != nil {
		return fmt.Errorf("config does not match schema: %w", err)
	}

	return nil
}

// Validate performs semantic validation beyond what the schema expresses.
// Call after ApplyDefaults.
func Validate(cfg *BenchConfig) error {
	var errors []ValidationError

	if cfg.Delay <= 0 {
		errors = append(errors, ValidationError{
			Path:    "delay",
			Message: "delay must be > 0",
		})
	}

	if cfg.AwaitCeiling <= 0 {
		errors = append(errors, ValidationError{
			Path:    "awaitCeiling",
			Message: "awaitCeiling must be > 0",
		})
	}

	if !bench.TimeoutPolicy(cfg.OnTimeout).Valid() {
		errors = append(errors, ValidationError{
			Path:    "onTimeout",
			Message: fmt.Sprintf("must be %q or %q", bench.PolicyAbort, bench.PolicySkip),
		})
	}

	if len(cfg.Scenarios) == 0 {
		errors = append(errors, ValidationError{
			Path:    "scenarios",
			Message: "at least one scenario is required",
		})
	}

	seen := make(map[string]bool)
	for i, sc := range cfg.Scenarios {
		path := fmt.Sprintf("scenarios[%d]", i)

		if sc.Tasks <= 0 {
			errors = append(errors, ValidationError{
				Path:    path + ".tasks",
				Message: "tasks must be > 0",
			})
		}
		if sc.PoolWidth <= 0 {
			errors = append(errors, ValidationError{
				Path:    path + ".poolWidth",
				Message: "poolWidth must be > 0",
			})
		}
		if sc.Name != "" && seen[sc.Name] {
			errors = append(errors, ValidationError{
				Path:    path + ".name",
				Message: fmt.Sprintf("duplicate scenario name %q", sc.Name),
			})
		}
		seen[sc.Name] = true
	}

	if len(errors) == 0 {
		return nil
	}

	messages := make([]string, len(errors))
	for i, e := range errors {
		messages[i] = e.Error()
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}
