package interpolate

import "strings"

// Props returns the data identifiers read by the expressions in input, in
// first-use order without duplicates. Filter names and arguments are not
// included.
func (e *Engine) Props(input string) ([]string, error) {
	st := e.state()
	var all []string
	for _, m := range st.pattern.All(input) {
		expr, _ := splitExpression(m.Inner)
		ids, err := st.idents.Identifiers(strings.TrimSpace(expr))
		if err != nil {
			return nil, err
		}
		all = append(all, ids...)
	}
	return uniq(all), nil
}

// uniq drops repeated strings, keeping the first occurrence of each.
func uniq(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, s := range items {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
