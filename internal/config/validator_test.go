package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSchema_RejectsUnknownField(t *testing.T) {
	_, err := ParseConfig([]byte(`
name: bad
parallelism: 4
`))
	assert.ErrorContains(t, err, "schema")
}

func TestValidateSchema_RejectsBadPolicy(t *testing.T) {
	_, err := ParseConfig([]byte(`onTimeout: retry`))
	assert.Error(t, err)
}

func TestValidateSchema_RejectsNonPositiveTasks(t *testing.T) {
	_, err := ParseConfig([]byte(`
scenarios:
  - name: zero
    tasks: 0
    poolWidth: 10
`))
	assert.Error(t, err)
}

func TestValidateSchema_RequiresPoolWidth(t *testing.T) {
	_, err := ParseConfig([]byte(`
scenarios:
  - name: incomplete
    tasks: 10
`))
	assert.Error(t, err)
}

func TestValidate_DuplicateScenarioNames(t *testing.T) {
	cfg := &BenchConfig{
		Scenarios: []ScenarioConfig{
			{Name: "dup", Tasks: 1, PoolWidth: 1},
			{Name: "dup", Tasks: 2, PoolWidth: 2},
		},
	}
	ApplyDefaults(cfg)

	err := Validate(cfg)
	assert.ErrorContains(t, err, "duplicate scenario name")
}

func TestValidate_OK(t *testing.T) {
	cfg := &BenchConfig{}
	ApplyDefaults(cfg)
	assert.NoError(t, Validate(cfg))
}

func TestValidationError_Message(t *testing.T) {
	err := ValidationError{Path: "scenarios[0].tasks", Message: "tasks must be > 0"}
	assert.Equal(t, "scenarios[0].tasks: tasks must be > 0", err.Error())
}
