// Package filterspec tokenizes filter chains such as
//
//	upper | append:" world!" | truncate:10,...
//
// into an ordered list of filter names with their string arguments.
//
// Filters are separated by `|`. A name may be followed by `:` and a comma
// separated argument list. Arguments are trimmed. An argument wrapped in
// double quotes is unquoted with Go string literal rules, one wrapped in single
// quotes is taken literally; quoting is the only way to carry `|`, `,` or
// surrounding spaces in an argument. There is no escaping outside quotes.
package filterspec

import (
	"fmt"
	"strconv"
	"strings"
)

// Spec is one filter invocation in a chain.
type Spec struct {
	Name string
	Args []string
}

// String renders the spec back into chain syntax.
func (s Spec) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		if a == "" || a != strings.TrimSpace(a) || strings.ContainsAny(a, `|,:"'`) {
			args[i] = strconv.Quote(a)
			continue
		}
		args[i] = a
	}
	return s.Name + ":" + strings.Join(args, ",")
}

// SyntaxError reports a malformed filter chain.
type SyntaxError struct {
	Chain string
	Pos   int
	Msg   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("filter syntax error at offset %d in %q: %s", e.Pos, e.Chain, e.Msg)
}

// Tokenizer is the default chain tokenizer.
type Tokenizer struct{}

// Tokenize implements the engine's tokenizer contract.
func (Tokenizer) Tokenize(chain string) ([]Spec, error) {
	return Parse(chain)
}

// Parse splits chain into filter specs. A blank chain yields no specs.
func Parse(chain string) ([]Spec, error) {
	if strings.TrimSpace(chain) == "" {
		return nil, nil
	}
	segments, err := splitTopLevel(chain, 0, len(chain), '|')
	if err != nil {
		return nil, err
	}
	specs := make([]Spec, 0, len(segments))
	for _, seg := range segments {
		spec, err := parseSegment(chain, seg)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// span is a half-open byte range of the chain.
type span struct {
	start, end int
}

func parseSegment(chain string, seg span) (Spec, error) {
	text := chain[seg.start:seg.end]
	colon := indexTopLevel(text, ':')

	nameText := text
	if colon >= 0 {
		nameText = text[:colon]
	}
	name := strings.TrimSpace(nameText)
	if name == "" {
		return Spec{}, &SyntaxError{Chain: chain, Pos: seg.start, Msg: "empty filter name"}
	}
	if strings.ContainsAny(name, `"'`) {
		return Spec{}, &SyntaxError{Chain: chain, Pos: seg.start, Msg: fmt.Sprintf("quote in filter name %q", name)}
	}

	spec := Spec{Name: name}
	if colon < 0 {
		return spec, nil
	}
	argsStart := seg.start + colon + 1
	if strings.TrimSpace(chain[argsStart:seg.end]) == "" {
		return spec, nil
	}
	parts, err := splitTopLevel(chain, argsStart, seg.end, ',')
	if err != nil {
		return Spec{}, err
	}
	spec.Args = make([]string, 0, len(parts))
	for _, p := range parts {
		arg, err := parseArg(chain, p)
		if err != nil {
			return Spec{}, err
		}
		spec.Args = append(spec.Args, arg)
	}
	return spec, nil
}

func parseArg(chain string, p span) (string, error) {
	raw := chain[p.start:p.end]
	arg := strings.TrimSpace(raw)
	if arg == "" {
		return "", nil
	}
	pos := p.start + strings.Index(raw, arg)
	switch arg[0] {
	case '"':
		s, err := strconv.Unquote(arg)
		if err != nil {
			return "", &SyntaxError{Chain: chain, Pos: pos, Msg: fmt.Sprintf("bad quoted argument %s", arg)}
		}
		return s, nil
	case '\'':
		if len(arg) < 2 || arg[len(arg)-1] != '\'' || strings.Count(arg, "'") != 2 {
			return "", &SyntaxError{Chain: chain, Pos: pos, Msg: fmt.Sprintf("bad quoted argument %s", arg)}
		}
		return arg[1 : len(arg)-1], nil
	}
	return arg, nil
}

// splitTopLevel splits chain[start:end] on sep, ignoring separators inside
// quotes. It fails on an unterminated quote.
func splitTopLevel(chain string, start, end int, sep byte) ([]span, error) {
	var out []span
	segStart := start
	var quote byte
	quoteAt := 0
	for i := start; i < end; i++ {
		ch := chain[i]
		if quote != 0 {
			if ch == '\\' && quote == '"' && i+1 < end {
				i++
				continue
			}
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
			quoteAt = i
		case sep:
			out = append(out, span{start: segStart, end: i})
			segStart = i + 1
		}
	}
	if quote != 0 {
		return nil, &SyntaxError{Chain: chain, Pos: quoteAt, Msg: "unterminated quote"}
	}
	return append(out, span{start: segStart, end: end}), nil
}

// indexTopLevel returns the index of the first sep in s outside quotes, or -1.
func indexTopLevel(s string, sep byte) int {
	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if quote != 0 {
			if ch == '\\' && quote == '"' && i+1 < len(s) {
				i++
				continue
			}
			if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '"', '\'':
			quote = ch
		case sep:
			return i
		}
	}
	return -1
}
