// Package scan locates delimiter-bounded placeholders in a string.
//
// A Pattern is a regular expression with exactly one capture group. The
// group selects the inner content of a placeholder, the whole match is the
// placeholder including its markers:
//
//	p := scan.Default()
//	for _, m := range p.All("Hello {{ name }}!") {
//	    fmt.Println(m.Text, m.Inner) // "{{ name }}" " name "
//	}
//
// Patterns are immutable and hold no cursor. Every call scans from offset
// zero, so repeated and interleaved calls never influence each other.
package scan

import (
	"fmt"
	"regexp"
)

// Default markers.
const (
	DefaultOpen  = "{{"
	DefaultClose = "}}"
)

// Pattern is a compiled placeholder pattern.
type Pattern struct {
	re    *regexp.Regexp
	open  string
	close string
}

// Match is a single placeholder occurrence.
type Match struct {
	Text  string // whole placeholder, markers included
	Start int    // byte offset of Text in the input
	End   int    // byte offset just past Text
	Inner string // content of the capture group
}

// PatternError reports a pattern that cannot be used for scanning.
type PatternError struct {
	Pattern string
	Reason  string
	Err     error
}

func (e *PatternError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid delimiter pattern %q: %s: %v", e.Pattern, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid delimiter pattern %q: %s", e.Pattern, e.Reason)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

var defaultPattern = MustDelimiters(DefaultOpen, DefaultClose)

// Default returns the double-brace pattern, `{{ ... }}`.
func Default() *Pattern {
	return defaultPattern
}

// Compile compiles expr and checks that it has exactly one capture group.
func Compile(expr string) (*Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &PatternError{Pattern: expr, Reason: "does not compile", Err: err}
	}
	if n := re.NumSubexp(); n != 1 {
		return nil, &PatternError{
			Pattern: expr,
			Reason:  fmt.Sprintf("expected exactly one capture group, found %d", n),
		}
	}
	return &Pattern{re: re}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(expr string) *Pattern {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Delimiters builds a pattern from an open/close marker pair. The inner
// content is matched non-greedily up to the first close marker and may span
// lines.
func Delimiters(open, close string) (*Pattern, error) {
	if open == "" || close == "" {
		return nil, &PatternError{
			Pattern: open + "..." + close,
			Reason:  "open and close markers must not be empty",
		}
	}
	p, err := Compile(`(?s)` + regexp.QuoteMeta(open) + `(.*?)` + regexp.QuoteMeta(close))
	if err != nil {
		return nil, err
	}
	p.open = open
	p.close = close
	return p, nil
}

// MustDelimiters is like Delimiters but panics on error.
func MustDelimiters(open, close string) *Pattern {
	p, err := Delimiters(open, close)
	if err != nil {
		panic(err)
	}
	return p
}

// IsZero reports whether p is nil or was not built by Compile or
// Delimiters.
func (p *Pattern) IsZero() bool {
	return p == nil || p.re == nil
}

// String returns the source of the regular expression.
func (p *Pattern) String() string {
	return p.re.String()
}

// Open returns the open marker, or "" when the pattern was compiled from a
// raw expression.
func (p *Pattern) Open() string {
	return p.open
}

// Close returns the close marker, or "" when the pattern was compiled from a
// raw expression.
func (p *Pattern) Close() string {
	return p.close
}

// Has reports whether input contains at least one placeholder.
func (p *Pattern) Has(input string) bool {
	return p.re.MatchString(input)
}

// First returns the leftmost placeholder in input.
func (p *Pattern) First(input string) (Match, bool) {
	loc := p.re.FindStringSubmatchIndex(input)
	if loc == nil {
		return Match{}, false
	}
	return matchAt(input, loc), true
}

// All returns every non-overlapping placeholder in input, ordered by offset.
// The result is empty, not nil, when nothing matches.
func (p *Pattern) All(input string) []Match {
	locs := p.re.FindAllStringSubmatchIndex(input, -1)
	out := make([]Match, 0, len(locs))
	for _, loc := range locs {
		out = append(out, matchAt(input, loc))
	}
	return out
}

func matchAt(input string, loc []int) Match {
	m := Match{
		Text:  input[loc[0]:loc[1]],
		Start: loc[0],
		End:   loc[1],
	}
	// An optional group that did not participate reports -1.
	if loc[2] >= 0 {
		m.Inner = input[loc[2]:loc[3]]
	}
	return m
}
