package interpolate

import (
	"fmt"
	"maps"
	"strings"
)

// CallOption adjusts a single Value, Values, Replace or ApplyFilters call.
type CallOption func(*callOptions)

type callOptions struct {
	filters  map[string]FilterFunc
	this     any
	bindThis bool
}

// WithFilters makes filters available for one call. They shadow registered
// filters of the same name and are not added to the engine.
func WithFilters(filters map[string]FilterFunc) CallOption {
	return func(c *callOptions) {
		if c.filters == nil {
			c.filters = make(map[string]FilterFunc, len(filters))
		}
		for name, fn := range filters {
			c.filters[strings.TrimSpace(name)] = fn
		}
	}
}

// WithThis binds v to the name `this` in the data context. The data passed
// to the call must be nil or a map[string]any.
func WithThis(v any) CallOption {
	return func(c *callOptions) {
		c.this = v
		c.bindThis = true
	}
}

// newCall applies opts and returns the data the evaluator should see.
func newCall(data any, opts []CallOption) (*callOptions, any, error) {
	call := &callOptions{}
	for _, opt := range opts {
		opt(call)
	}
	if !call.bindThis {
		return call, data, nil
	}
	switch d := data.(type) {
	case nil:
		return call, map[string]any{"this": call.this}, nil
	case map[string]any:
		scope := maps.Clone(d)
		scope["this"] = call.this
		return call, scope, nil
	default:
		return nil, nil, NewError(ErrInvalidData, fmt.Sprintf("cannot bind this into data of type %T", data))
	}
}
