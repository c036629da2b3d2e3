package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmplkit/interpolate/internal/version"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRootCmdHasSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"render", "value", "values", "props", "check", "filters", "serve", "version"} {
		_, _, err := root.Find([]string{name})
		assert.NoError(t, err, name)
	}
}

func TestVersionCmdOutput(t *testing.T) {
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, version.Get(), strings.TrimSpace(out))
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "data.yaml", "world: Pluto\nuser:\n  name: Bob\n")
	tmpl := writeFile(t, dir, "greeting.tmpl", "Hello {{ world | upper }}, {{ user.name }}!\n")

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name: "argument",
			args: []string{"render", "Hello {{ world }}!", "--set", "world=Pluto"},
			want: "Hello Pluto!\n",
		},
		{
			name: "data file and file template",
			args: []string{"render", "-f", tmpl, "-d", data},
			want: "Hello PLUTO, Bob!\n",
		},
		{
			name: "set overrides data file",
			args: []string{"render", "-f", tmpl, "-d", data, "--set", "user.name=Alice"},
			want: "Hello PLUTO, Alice!\n",
		},
		{
			name:  "stdin",
			stdin: "{{ age + 1 }}",
			args:  []string{"render", "--set", "age=26"},
			want:  "27\n",
		},
		{
			name: "this",
			args: []string{"render", "{{ this.world }}", "--this", "{world: pluto}"},
			want: "pluto\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing filter", []string{"render", "{{ x | nope }}"}, `missing filter named "nope"`},
		{"bad set", []string{"render", "{{ x }}", "--set", "novalue"}, "expected key=value"},
		{"set through scalar", []string{"render", "{{ x }}", "--set", "a=1", "--set", "a.b=2"}, "a is not a map"},
		{"argument and file", []string{"render", "{{ x }}", "-f", "t.tmpl"}, "not both"},
		{"watch without file", []string{"render", "{{ x }}", "--watch"}, "--watch needs"},
		{"bad log level", []string{"render", "x", "--log-level", "loud"}, "invalid log level"},
		{"missing config", []string{"render", "x", "--config", "/nonexistent/interpolate.yaml"}, "load config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRenderWithConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "interpolate.yaml", `
delimiters:
  open: "<%"
  close: "%>"
filters:
  shout: "upper | append:!"
`)
	out, _, err := run(t, "", "render", "<% greeting | shout %> {{ untouched }}", "--set", "greeting=hi", "-c", cfg)
	require.NoError(t, err)
	assert.Equal(t, "HI! {{ untouched }}\n", out)
}

func TestDebugLogging(t *testing.T) {
	_, errOut, err := run(t, "", "render", "{{ x | upper }}", "--set", "x=a", "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, errOut, "filter applied")
}

func TestValue(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "typed list",
			args: []string{"value", "{{ items }}", "--set", "items=[1, 2]"},
			want: "[\n  1,\n  2\n]\n",
		},
		{
			name: "number",
			args: []string{"value", "{{ (age / 2) + 7 }}", "--set", "age=26"},
			want: "20\n",
		},
		{
			name: "string",
			args: []string{"value", "a {{ b }}", "--set", "b=c"},
			want: "\"a c\"\n",
		},
		{
			name: "yaml",
			args: []string{"value", "{{ user }}", "--set", "user.name=Bob", "-o", "yaml"},
			want: "name: Bob\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, "", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}

	_, _, err := run(t, "", "value", "{{ a }}", "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestValues(t *testing.T) {
	out, _, err := run(t, "", "values", "{{ a }} {{ b }}", "--set", "a=1", "--set", "b=true", "-o", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "- 1\n- true\n", out)
}

func TestProps(t *testing.T) {
	out, _, err := run(t, "", "props", "Hello {{world}}! My name is {{user.name | bar}} and I am {{ (age / 2) + 7 | bar}}.")
	require.NoError(t, err)
	assert.Equal(t, "world\nuser\nage\n", out)
}

func TestCheck(t *testing.T) {
	out, _, err := run(t, "", "check", "Hello {{ world | upper }} and {{ x }}")
	require.NoError(t, err)
	assert.Equal(t, "ok 2 placeholder(s)\n", out)

	_, _, err = run(t, "", "check", "Hello world")
	assert.ErrorIs(t, err, errNoPlaceholders)

	out, _, err = run(t, "", "check", `{{ a | nope }} {{ (1 + }} {{ b | append:"x }} {{ c }}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 problem(s) found")
	assert.Contains(t, out, `missing filter named "nope"`)
	assert.Contains(t, out, "{{ (1 + }}")
	assert.Contains(t, out, "unterminated quote")
}

func TestFilters(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "interpolate.yaml", "builtins: false\nfilters:\n  loud: \"shout\"\n  shout: \"loud2\"\n  loud2: \"x\"\n")
	out, _, err := run(t, "", "filters", "-c", cfg)
	require.NoError(t, err)
	assert.Equal(t, "loud = shout\nloud2 = x\nshout = loud2\n", out)

	out, _, err = run(t, "", "filters")
	require.NoError(t, err)
	assert.Contains(t, out, "upper\n")
	assert.Contains(t, out, "urlencode\n")
}

func TestParseScalar(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"26", 26},
		{"2.5", 2.5},
		{"true", true},
		{"Bob", "Bob"},
		{"", ""},
		{"[1, 2]", []any{1, 2}},
		{"{a: 1}", map[string]any{"a": 1}},
		{"a: b: c", "a: b: c"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseScalar(tt.in))
		})
	}
}
