package interpolate

// splitExpression splits the inner content of a placeholder on its first
// top-level `|`. Pipes inside quotes or brackets and the `||` operator are
// skipped. Both halves are returned untrimmed; chain is empty when there is
// no top-level pipe.
func splitExpression(inner string) (expr, chain string) {
	depth := 0
	var quote byte
	for i := 0; i < len(inner); i++ {
		ch := inner[i]
		if quote != 0 {
			switch ch {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'', '`':
			quote = ch
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case '|':
			if i+1 < len(inner) && inner[i+1] == '|' {
				i++
				continue
			}
			if depth == 0 {
				return inner[:i], inner[i+1:]
			}
		}
	}
	return inner, ""
}
