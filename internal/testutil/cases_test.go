package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCaseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "basic.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- name: first
  input: "{{ a }}"
  data: {a: 1}
  want: "1"
- name: second
  op: value
  input: "{{ a }}"
  builtins: false
  want: [1, 2.5]
`), 0o600))

	cases, err := LoadCases(dir)
	require.NoError(t, err)
	require.Len(t, cases, 2)

	assert.Equal(t, "replace", cases[0].Op)
	assert.Equal(t, "basic/first", cases[0].ID())
	assert.Equal(t, map[string]any{"a": 1}, cases[0].Data)
	assert.True(t, cases[0].UsesBuiltins())

	assert.Equal(t, "value", cases[1].Op)
	assert.False(t, cases[1].UsesBuiltins())
	assert.Equal(t, []any{1, 2.5}, cases[1].Want)
}

func TestLoadCaseFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"missing name", "- input: x\n", "has no name"},
		{"duplicate", "- name: a\n- name: a\n", `duplicate case "a"`},
		{"not a list", "name: a\n", "cannot unmarshal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o600))
			_, err := LoadCaseFile(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadSkipList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skip.txt")
	require.NoError(t, os.WriteFile(path, []byte("# comment\n\nreplace/one\n  value/two  \n"), 0o600))

	skip, err := LoadSkipList(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"replace/one": true, "value/two": true}, skip)

	skip, err = LoadSkipList(filepath.Join(t.TempDir(), "missing.txt"))
	require.NoError(t, err)
	assert.Empty(t, skip)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"whole float", 20.0, 20},
		{"fraction", 2.5, 2.5},
		{"string slice", []string{"a", "b"}, []any{"a", "b"}},
		{"nested", map[string]int{"a": 1}, map[string]any{"a": 1}},
		{"nil", nil, nil},
		{"bool", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
