package interpolate

import (
	"errors"
	"fmt"
	"strings"
)

// ApplyFilters runs val through the filter chain, e.g. "upper | append:!".
// A blank chain returns val unchanged.
func (e *Engine) ApplyFilters(val any, chain string, opts ...CallOption) (any, error) {
	call, _, err := newCall(nil, opts)
	if err != nil {
		return nil, err
	}
	return e.applyChain(e.state(), val, chain, call)
}

// maxAliasDepth bounds how deeply aliases may expand into other aliases.
const maxAliasDepth = 32

func (e *Engine) applyChain(st engineState, val any, chain string, call *callOptions) (any, error) {
	return e.applyChainDepth(st, val, chain, call, 0)
}

func (e *Engine) applyChainDepth(st engineState, val any, chain string, call *callOptions, depth int) (any, error) {
	if strings.TrimSpace(chain) == "" {
		return val, nil
	}
	specs, err := st.tokenizer.Tokenize(chain)
	if err != nil {
		return nil, &Error{Kind: ErrFilterSyntax, Message: err.Error(), Err: err}
	}
	for _, spec := range specs {
		name := strings.TrimSpace(spec.Name)
		fn, alias, ok := e.getFilter(name, call)
		if !ok {
			return nil, missingFilter(name)
		}
		if fn == nil {
			fn = e.aliasFilter(st, alias, call, depth)
		}
		out, err := fn(val, spec.Args...)
		var inner *Error
		if alias != "" && errors.As(err, &inner) {
			return nil, err
		}
		if err != nil {
			return nil, &Error{
				Kind:    ErrFilterFailed,
				Name:    name,
				Message: fmt.Sprintf("filter %q: %v", name, err),
				Err:     err,
			}
		}
		st.logger.Debug("filter applied", "filter", name, "args", spec.Args)
		val = out
	}
	return val, nil
}

// aliasFilter runs an alias chain in the scope of the current call.
func (e *Engine) aliasFilter(st engineState, chain string, call *callOptions, depth int) FilterFunc {
	return func(val any, args ...string) (any, error) {
		if len(args) > 0 {
			return nil, errors.New("alias takes no arguments")
		}
		if depth >= maxAliasDepth {
			return nil, fmt.Errorf("aliases nested deeper than %d", maxAliasDepth)
		}
		return e.applyChainDepth(st, val, chain, call, depth+1)
	}
}
