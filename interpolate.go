// Package interpolate substitutes expression placeholders in strings.
//
// An Engine scans a string for placeholders (by default `{{ ... }}`),
// evaluates the expression inside each one against a data context and pipes
// the result through an optional chain of named filters.
//
// # Quick Start
//
//	e := interpolate.New().Use(interpolate.Builtins)
//	out, _ := e.Replace("Hello {{ world | upper }}!", map[string]any{"world": "Pluto"})
//	fmt.Println(out) // Output: Hello PLUTO!
//
// # Placeholder Syntax
//
// The content of a placeholder is split on its first top-level `|`. The
// left side is the expression, the right side a filter chain:
//
//	{{ user.name }}
//	{{ (age / 2) + 7 }}
//	{{ greeting | append:" world!" | upper }}
//	{{ items | join:", " }}
//
// A `|` inside quotes, brackets or the `||` operator does not start the
// chain. Each filter is a name optionally followed by `:` and comma separated
// arguments; quote an argument to carry `,`, `|` or surrounding spaces.
//
// # Values
//
// Value returns the typed result when the input is a single placeholder and
// a string otherwise:
//
//	v, _ := e.Value("{{ items }}", data)        // []any{1, 2, 3}
//	s, _ := e.Value("count: {{ items }}", data) // "count: [1,2,3]"
//
// Replace always returns a string. nil renders as the empty string, every
// other value in its natural form, so false renders as "false" and 0 as "0".
//
// # Filters
//
// Filters are plain functions registered by name:
//
//	e.Filter("shout", func(v any, args ...string) (any, error) {
//	    return strings.ToUpper(interpolate.Stringify(v)) + "!", nil
//	})
//
// A Configurator groups registrations so they can be applied with Use.
//
// # Dependencies
//
// Props lists the data identifiers a string reads, in first-use order:
//
//	e.Props("Hello {{world}}! I am {{ (age / 2) + 7 | round }}") // [world age]
//
// # Collaborators
//
// Expression evaluation, identifier extraction and filter-chain tokenizing
// are pluggable through the Evaluator, IdentifierExtractor and Tokenizer
// interfaces. The defaults live in the evaluator and filterspec packages.
package interpolate

import (
	"github.com/tmplkit/interpolate/filterspec"
)

// FilterFunc transforms a value. It receives the current value and the
// arguments written after the filter name, as parsed by the tokenizer.
type FilterFunc func(val any, args ...string) (any, error)

// Configurator applies a set of registrations to an engine.
type Configurator func(e *Engine)

// Evaluator evaluates an expression against a data context.
type Evaluator interface {
	Evaluate(expr string, data any) (any, error)
}

// IdentifierExtractor lists the top-level variable names an expression reads.
type IdentifierExtractor interface {
	Identifiers(expr string) ([]string, error)
}

// Tokenizer splits a filter chain into filter specs.
type Tokenizer interface {
	Tokenize(chain string) ([]filterspec.Spec, error)
}
