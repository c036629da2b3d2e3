package interpolate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinFilters(t *testing.T) {
	tests := []struct {
		name  string
		input string
		data  map[string]any
		want  any
	}{
		{"upper", "{{ s | upper }}", map[string]any{"s": "abc"}, "ABC"},
		{"caps alias", "{{ s | caps }}", map[string]any{"s": "abc"}, "ABC"},
		{"lower", "{{ s | lower }}", map[string]any{"s": "ABC"}, "abc"},
		{"upper ignores numbers", "{{ n | upper }}", map[string]any{"n": 3}, 3},
		{"capitalize", "{{ s | capitalize }}", map[string]any{"s": "hELLO world"}, "Hello world"},
		{"title", "{{ s | title }}", map[string]any{"s": "hello big-world"}, "Hello Big-World"},
		{"trim", "{{ s | trim }}", map[string]any{"s": "  x  "}, "x"},
		{"trim cutset", "{{ s | trim:'-' }}", map[string]any{"s": "--x--"}, "x"},
		{"append", `{{ s | append:" world!" }}`, map[string]any{"s": "Hello"}, "Hello world!"},
		{"append many", `{{ s | append:a,b }}`, map[string]any{"s": "x"}, "xab"},
		{"prepend", `{{ s | prepend:"> " }}`, map[string]any{"s": "quote"}, "> quote"},
		{"replace", `{{ s | replace:o,0 }}`, map[string]any{"s": "foo"}, "f00"},
		{"replace count", `{{ s | replace:o,0,1 }}`, map[string]any{"s": "foo"}, "f0o"},
		{"truncate", `{{ s | truncate:5 }}`, map[string]any{"s": "Hello world"}, "He..."},
		{"truncate short", `{{ s | truncate:20 }}`, map[string]any{"s": "Hello"}, "Hello"},
		{"truncate suffix", `{{ s | truncate:6,"~" }}`, map[string]any{"s": "Hello world"}, "Hello~"},
		{"truncate clips long suffix", `{{ s | truncate:2 }}`, map[string]any{"s": "abcdef"}, ".."},
		{"truncate to zero", `{{ s | truncate:0 }}`, map[string]any{"s": "abcdef"}, ""},
		{"default nil", `{{ missing | default:anon }}`, map[string]any{}, "anon"},
		{"default keeps empty", `{{ s | default:anon }}`, map[string]any{"s": ""}, ""},
		{"default boolean mode", `{{ s | d:anon,true }}`, map[string]any{"s": ""}, "anon"},
		{"default keeps value", `{{ s | default:anon }}`, map[string]any{"s": "bob"}, "bob"},
		{"join", `{{ items | join:", " }}`, map[string]any{"items": []any{1, "a", true}}, "1, a, true"},
		{"join typed slice", `{{ items | join:"-" }}`, map[string]any{"items": []string{"a", "b"}}, "a-b"},
		{"length string", `{{ s | length }}`, map[string]any{"s": "héllo"}, 5},
		{"count list", `{{ items | count }}`, map[string]any{"items": []any{1, 2}}, 2},
		{"first", `{{ items | first }}`, map[string]any{"items": []any{"a", "b"}}, "a"},
		{"first string", `{{ s | first }}`, map[string]any{"s": "éa"}, "é"},
		{"first empty", `{{ items | first }}`, map[string]any{"items": []any{}}, nil},
		{"last", `{{ items | last }}`, map[string]any{"items": []any{"a", "b"}}, "b"},
		{"last string", `{{ s | last }}`, map[string]any{"s": "ab"}, "b"},
		{"reverse string", `{{ s | reverse }}`, map[string]any{"s": "abc"}, "cba"},
		{"reverse list", `{{ items | reverse }}`, map[string]any{"items": []any{1, 2, 3}}, []any{3, 2, 1}},
		{"round", `{{ n | round }}`, map[string]any{"n": 2.6}, 3.0},
		{"round precision", `{{ n | round:1 }}`, map[string]any{"n": 2.66}, 2.7},
		{"json", `{{ m | json }}`, map[string]any{"m": map[string]any{"a": 1}}, `{"a":1}`},
		{"json indent", `{{ m | json:2 }}`, map[string]any{"m": []any{1}}, "[\n  1\n]"},
		{"urlencode string", `{{ s | urlencode }}`, map[string]any{"s": "a b&c"}, "a+b%26c"},
		{"urlencode map", `{{ m | urlencode }}`, map[string]any{"m": map[string]any{"b": 2, "a": "x y", "z": nil}}, "a=x+y&b=2"},
	}

	e := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Value(tt.input, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuiltinFilterErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		data  map[string]any
	}{
		{"replace without arguments", `{{ s | replace:o }}`, map[string]any{"s": "foo"}},
		{"replace bad count", `{{ s | replace:o,0,x }}`, map[string]any{"s": "foo"}},
		{"truncate without length", `{{ s | truncate }}`, map[string]any{"s": "foo"}},
		{"truncate negative", `{{ s | truncate:-1 }}`, map[string]any{"s": "foo"}},
		{"length of number", `{{ n | length }}`, map[string]any{"n": 1}},
		{"round string", `{{ s | round }}`, map[string]any{"s": "abc"}},
		{"round bad precision", `{{ n | round:x }}`, map[string]any{"n": 1}},
		{"json bad indent", `{{ n | json:x }}`, map[string]any{"n": 1}},
		{"json negative indent", `{{ m | json:-2 }}`, map[string]any{"m": map[string]any{"a": 1}}},
	}

	e := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Replace(tt.input, tt.data)
			require.Error(t, err)
			assert.True(t, IsKind(err, ErrFilterFailed), err.Error())
		})
	}
}

func TestBuiltinsRegistersEveryFilter(t *testing.T) {
	assert.Equal(t, []string{
		"append", "capitalize", "caps", "count", "d", "default", "first",
		"join", "json", "last", "length", "lower", "prepend", "replace",
		"reverse", "round", "title", "trim", "truncate", "upper", "urlencode",
	}, Default().Filters())
	assert.Empty(t, New().Filters())
}
