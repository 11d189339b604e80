package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario_Valid(t *testing.T) {
	data := []byte(`
name: valid
description: "A valid scenario"
preferences:
  float_mode: scientific
bindings:
  x: "1/2"
steps:
  - input: "x+1"
    expect:
      exact: "3/2"
      undefined: false
assertions:
  - type: trace_count
    kind: Symbol
    count: 1
`)
	s, err := ParseScenario(data)
	require.NoError(t, err)

	assert.Equal(t, "valid", s.Name)
	assert.Equal(t, "scientific", s.Preferences["float_mode"])
	assert.Equal(t, map[string]string{"x": "1/2"}, s.Bindings)
	require.Len(t, s.Steps, 1)
	require.NotNil(t, s.Steps[0].Expect)
	assert.Equal(t, "3/2", s.Steps[0].Expect.Exact)
	require.NotNil(t, s.Steps[0].Expect.Undefined)
	assert.False(t, *s.Steps[0].Expect.Undefined)
	assert.Equal(t, AssertTraceCount, s.Assertions[0].Type)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "description: d\nsteps: [{input: \"1\"}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\nsteps: [{input: \"1\"}]\n",
			wantErr: "description is required",
		},
		{
			name:    "no steps",
			yaml:    "name: n\ndescription: d\n",
			wantErr: "steps list is required",
		},
		{
			name:    "empty input",
			yaml:    "name: n\ndescription: d\nsteps: [{input: \"\"}]\n",
			wantErr: "steps[0]: input is required",
		},
		{
			name:    "unknown field",
			yaml:    "name: n\ndescription: d\nstep: [{input: \"1\"}]\n",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "error with results",
			yaml:    "name: n\ndescription: d\nsteps: [{input: \"1\", expect: {error: E202, exact: \"1\"}}]\n",
			wantErr: "error cannot be combined",
		},
		{
			name:    "unknown assertion",
			yaml:    "name: n\ndescription: d\nsteps: [{input: \"1\"}]\nassertions: [{type: final_trace}]\n",
			wantErr: "unknown assertion type",
		},
		{
			name:    "unknown kind",
			yaml:    "name: n\ndescription: d\nsteps: [{input: \"1\"}]\nassertions: [{type: trace_contains, kind: Logarithm}]\n",
			wantErr: "unknown kind",
		},
		{
			name:    "order without kinds",
			yaml:    "name: n\ndescription: d\nsteps: [{input: \"1\"}]\nassertions: [{type: trace_order}]\n",
			wantErr: "kinds list is required",
		},
		{
			name:    "final state without expect",
			yaml:    "name: n\ndescription: d\nsteps: [{input: \"1\"}]\nassertions: [{type: final_state, table: calculations}]\n",
			wantErr: "expect is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestScenarioFiles_Sorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	files, err := ScenarioFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yml"), filepath.Join(dir, "b.yaml")}, files)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
