package testutil

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Normalize converts a result into the shape YAML decoding produces, so that
// engine output can be compared with a case's `want`: integers become int,
// other numbers float64, and typed slices and maps become []any and
// map[string]any.
func Normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(strings.NewReader(string(b)))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return fromJSON(out), nil
}

func fromJSON(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		f, _ := t.Float64()
		return f
	case []any:
		for i := range t {
			t[i] = fromJSON(t[i])
		}
		return t
	case map[string]any:
		for k := range t {
			t[k] = fromJSON(t[k])
		}
		return t
	}
	return v
}

// Diff renders a short expected/actual report.
func Diff(want, got any) string {
	var sb strings.Builder
	sb.WriteString("=== Expected ===\n")
	fmt.Fprintf(&sb, "%#v\n", want)
	sb.WriteString("=== Actual ===\n")
	fmt.Fprintf(&sb, "%#v\n", got)
	sb.WriteString("=== End ===\n")
	return sb.String()
}
