package interpolate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProps(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "mixed expressions with filters",
			input: "Hello {{world}}! My name is {{user.name | bar}} and I am {{ (age / 2) + 7 | bar}}.",
			want:  []string{"world", "user", "age"},
		},
		{
			name:  "no placeholders",
			input: "Hello world",
			want:  []string{},
		},
		{
			name:  "duplicates keep first use",
			input: "{{ b }} {{ a + b }} {{ a }}",
			want:  []string{"b", "a"},
		},
		{
			name:  "filter arguments are not props",
			input: `{{ name | default:fallback | append:" x" }}`,
			want:  []string{"name"},
		},
		{
			name:  "builtin calls are not props",
			input: "{{ len(items) }} {{ upper(name) }}",
			want:  []string{"items", "name"},
		},
		{
			name:  "literals only",
			input: `{{ 1 + 2 }} {{ "x" }}`,
			want:  []string{},
		},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Props(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPropsCustomExtractor(t *testing.T) {
	e := New()
	var seen []string
	e.SetIdentifierExtractor(extractorFunc(func(expr string) ([]string, error) {
		seen = append(seen, expr)
		return []string{expr}, nil
	}))

	got, err := e.Props("{{ a | x }} {{ b }} {{ a }}")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, []string{"a", "b", "a"}, seen, "expressions are trimmed before extraction")

	sentinel := errors.New("nope")
	e.SetIdentifierExtractor(extractorFunc(func(string) ([]string, error) {
		return nil, sentinel
	}))
	_, err = e.Props("{{ a }}")
	assert.Same(t, sentinel, err)
}

type extractorFunc func(expr string) ([]string, error)

func (f extractorFunc) Identifiers(expr string) ([]string, error) {
	return f(expr)
}
