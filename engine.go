package interpolate

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/tmplkit/interpolate/evaluator"
	"github.com/tmplkit/interpolate/filterspec"
	"github.com/tmplkit/interpolate/scan"
)

// Engine holds the delimiter pattern, the filter registry and the
// collaborators used to evaluate placeholders.
//
// Configuration methods may be called concurrently with evaluation; engines
// never share a registry.
type Engine struct {
	mu        sync.RWMutex
	pattern   *scan.Pattern
	filters   map[string]FilterFunc
	aliases   map[string]string
	evaluator Evaluator
	idents    IdentifierExtractor
	tokenizer Tokenizer
	logger    *slog.Logger
}

// engineState is a consistent view of an engine's configuration for the
// duration of one call.
type engineState struct {
	pattern   *scan.Pattern
	evaluator Evaluator
	idents    IdentifierExtractor
	tokenizer Tokenizer
	logger    *slog.Logger
}

// New creates an engine with the default `{{ }}` delimiters, the default
// evaluator and tokenizer, and an empty filter registry.
func New() *Engine {
	ev := evaluator.New()
	return &Engine{
		pattern:   scan.Default(),
		filters:   make(map[string]FilterFunc),
		aliases:   make(map[string]string),
		evaluator: ev,
		idents:    ev,
		tokenizer: filterspec.Tokenizer{},
		logger:    slog.New(slog.DiscardHandler),
	}
}

// Default creates an engine with the built-in filters registered.
func Default() *Engine {
	return New().Use(Builtins)
}

// Filter registers fn under name, replacing any previous registration.
// A nil fn removes the filter.
func (e *Engine) Filter(name string, fn FilterFunc) *Engine {
	name = strings.TrimSpace(name)
	e.mu.Lock()
	delete(e.aliases, name)
	if fn == nil {
		delete(e.filters, name)
	} else {
		e.filters[name] = fn
	}
	e.mu.Unlock()
	return e
}

// Alias registers name as a filter that runs chain, e.g.
// Alias("shout", "upper | append:!"). The chain is resolved when the alias
// is applied, in the scope of that call, so filters passed with WithFilters
// are visible to it. Aliases take no arguments. A blank chain removes the
// alias.
func (e *Engine) Alias(name, chain string) *Engine {
	name = strings.TrimSpace(name)
	e.mu.Lock()
	delete(e.filters, name)
	if strings.TrimSpace(chain) == "" {
		delete(e.aliases, name)
	} else {
		e.aliases[name] = chain
	}
	e.mu.Unlock()
	return e
}

// Delimiters replaces the placeholder pattern. Patterns are validated when
// they are built (see scan.Compile and scan.Delimiters). A nil or zero
// pattern restores the default.
func (e *Engine) Delimiters(p *scan.Pattern) *Engine {
	if p.IsZero() {
		p = scan.Default()
	}
	e.mu.Lock()
	e.pattern = p
	e.mu.Unlock()
	return e
}

// SetDelimiters compiles expr, which must contain exactly one capture group,
// and installs it as the placeholder pattern.
func (e *Engine) SetDelimiters(expr string) error {
	p, err := scan.Compile(expr)
	if err != nil {
		return invalidDelimiters(err)
	}
	e.Delimiters(p)
	return nil
}

// SetDelimiterPair installs a pattern built from an open and close marker.
func (e *Engine) SetDelimiterPair(open, close string) error {
	p, err := scan.Delimiters(open, close)
	if err != nil {
		return invalidDelimiters(err)
	}
	e.Delimiters(p)
	return nil
}

// Use invokes each configurator with the engine, in order.
func (e *Engine) Use(configurators ...Configurator) *Engine {
	for _, c := range configurators {
		if c != nil {
			c(e)
		}
	}
	return e
}

// SetEvaluator replaces the expression evaluator.
func (e *Engine) SetEvaluator(ev Evaluator) {
	e.mu.Lock()
	e.evaluator = ev
	e.mu.Unlock()
}

// SetIdentifierExtractor replaces the identifier extractor used by Props.
func (e *Engine) SetIdentifierExtractor(x IdentifierExtractor) {
	e.mu.Lock()
	e.idents = x
	e.mu.Unlock()
}

// SetTokenizer replaces the filter chain tokenizer.
func (e *Engine) SetTokenizer(t Tokenizer) {
	e.mu.Lock()
	e.tokenizer = t
	e.mu.Unlock()
}

// SetLogger sets the logger for debug output. A nil logger disables logging.
func (e *Engine) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	e.mu.Lock()
	e.logger = l
	e.mu.Unlock()
}

// Pattern returns the active placeholder pattern.
func (e *Engine) Pattern() *scan.Pattern {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pattern
}

// Filters returns the registered filter names, sorted.
func (e *Engine) Filters() []string {
	e.mu.RLock()
	names := make([]string, 0, len(e.filters)+len(e.aliases))
	for name := range e.filters {
		names = append(names, name)
	}
	for name := range e.aliases {
		names = append(names, name)
	}
	e.mu.RUnlock()
	sort.Strings(names)
	return names
}

func (e *Engine) state() engineState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return engineState{
		pattern:   e.pattern,
		evaluator: e.evaluator,
		idents:    e.idents,
		tokenizer: e.tokenizer,
		logger:    e.logger,
	}
}

// getFilter looks a filter up in the call scope first, then in the registry.
// For an alias it returns the chain to run instead of a function.
func (e *Engine) getFilter(name string, call *callOptions) (fn FilterFunc, chain string, ok bool) {
	if call != nil {
		if fn, ok := call.filters[name]; ok {
			return fn, "", true
		}
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	if fn, ok := e.filters[name]; ok {
		return fn, "", true
	}
	chain, ok = e.aliases[name]
	return nil, chain, ok
}

// Has reports whether input contains at least one placeholder.
func (e *Engine) Has(input string) bool {
	return e.Pattern().Has(input)
}

// FirstMatch returns the leftmost placeholder in input.
func (e *Engine) FirstMatch(input string) (scan.Match, bool) {
	return e.Pattern().First(input)
}

// Matches returns every placeholder in input, left to right.
func (e *Engine) Matches(input string) []scan.Match {
	return e.Pattern().All(input)
}

// Each calls visit for every placeholder in input, left to right, with the
// whole placeholder text, the raw expression part, the raw filter chain and
// the zero-based index. visit is not called when there are no placeholders.
func (e *Engine) Each(input string, visit func(match, expr, filters string, index int)) {
	for i, m := range e.Pattern().All(input) {
		expr, chain := splitExpression(m.Inner)
		visit(m.Text, expr, chain, i)
	}
}

// Map is like Each but collects the results of fn. It returns an empty slice
// when there are no placeholders.
func (e *Engine) Map(input string, fn func(match, expr, filters string, index int) any) []any {
	matches := e.Pattern().All(input)
	out := make([]any, 0, len(matches))
	for i, m := range matches {
		expr, chain := splitExpression(m.Inner)
		out = append(out, fn(m.Text, expr, chain, i))
	}
	return out
}

// Value evaluates input. Without placeholders input is returned unchanged.
// When input consists of exactly one placeholder, optionally surrounded by
// whitespace, the typed result of that placeholder is returned. Otherwise the
// result of Replace is returned.
func (e *Engine) Value(input string, data any, opts ...CallOption) (any, error) {
	st := e.state()
	matches := st.pattern.All(input)
	if len(matches) == 0 {
		return input, nil
	}
	call, data, err := newCall(data, opts)
	if err != nil {
		return nil, err
	}
	if len(matches) == 1 && isWholeInput(input, matches[0]) {
		return e.evalMatch(st, matches[0], data, call)
	}
	return e.replace(st, input, matches, data, call)
}

// Values returns the typed result of every placeholder in input, in order.
func (e *Engine) Values(input string, data any, opts ...CallOption) ([]any, error) {
	st := e.state()
	matches := st.pattern.All(input)
	out := make([]any, 0, len(matches))
	if len(matches) == 0 {
		return out, nil
	}
	call, data, err := newCall(data, opts)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		v, err := e.evalMatch(st, m, data, call)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Replace substitutes every placeholder in input with the string form of its
// result. A failure in any placeholder aborts the whole call.
func (e *Engine) Replace(input string, data any, opts ...CallOption) (string, error) {
	st := e.state()
	matches := st.pattern.All(input)
	if len(matches) == 0 {
		return input, nil
	}
	call, data, err := newCall(data, opts)
	if err != nil {
		return "", err
	}
	return e.replace(st, input, matches, data, call)
}

func (e *Engine) replace(st engineState, input string, matches []scan.Match, data any, call *callOptions) (string, error) {
	var b strings.Builder
	b.Grow(len(input))
	last := 0
	for _, m := range matches {
		v, err := e.evalMatch(st, m, data, call)
		if err != nil {
			return "", err
		}
		b.WriteString(input[last:m.Start])
		b.WriteString(Stringify(v))
		last = m.End
	}
	b.WriteString(input[last:])
	return b.String(), nil
}

// evalMatch evaluates one placeholder: the trimmed expression goes to the
// evaluator, the result through the filter chain. Evaluator errors are
// returned unchanged.
func (e *Engine) evalMatch(st engineState, m scan.Match, data any, call *callOptions) (any, error) {
	expr, chain := splitExpression(m.Inner)
	v, err := st.evaluator.Evaluate(strings.TrimSpace(expr), data)
	if err != nil {
		return nil, err
	}
	v, err = e.applyChain(st, v, chain, call)
	if err != nil {
		if ierr, ok := err.(*Error); ok && ierr.Expr == "" {
			return nil, ierr.WithExpr(m.Text)
		}
		return nil, err
	}
	return v, nil
}

func isWholeInput(input string, m scan.Match) bool {
	return strings.TrimSpace(input[:m.Start]) == "" && strings.TrimSpace(input[m.End:]) == ""
}
