package interpolate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmplkit/interpolate/internal/testutil"
)

const (
	casesDir     = "testdata/cases"
	caseSkipList = "testdata/skiplist.txt"
)

func TestGoldenCases(t *testing.T) {
	skipList, err := testutil.LoadSkipList(caseSkipList)
	require.NoError(t, err)

	cases, err := testutil.LoadCases(casesDir)
	require.NoError(t, err)
	require.NotEmpty(t, cases, "no cases found in %s", casesDir)

	for _, c := range cases {
		t.Run(c.ID(), func(t *testing.T) {
			if skipList[c.ID()] {
				t.Skip("skipped via skiplist")
			}

			e := New()
			if c.UsesBuiltins() {
				e.Use(Builtins)
			}
			if d := c.Delimiters; d != nil {
				if d.Pattern != "" {
					require.NoError(t, e.SetDelimiters(d.Pattern))
				} else {
					require.NoError(t, e.SetDelimiterPair(d.Open, d.Close))
				}
			}

			var opts []CallOption
			if c.This != nil {
				opts = append(opts, WithThis(c.This))
			}

			got, err := runCase(e, c, opts)
			if c.Error != "" || c.Kind != "" {
				require.Error(t, err)
				if c.Error != "" {
					assert.Contains(t, err.Error(), c.Error)
				}
				if c.Kind != "" {
					var ierr *Error
					require.True(t, errors.As(err, &ierr), "expected an engine error, got %v", err)
					assert.Equal(t, c.Kind, ierr.Kind.String())
				}
				return
			}
			require.NoError(t, err)

			got, err = testutil.Normalize(got)
			require.NoError(t, err)
			assert.Equal(t, c.Want, got, testutil.Diff(c.Want, got))
		})
	}
}

func runCase(e *Engine, c testutil.Case, opts []CallOption) (any, error) {
	var data any
	if c.Data != nil {
		data = c.Data
	}
	switch c.Op {
	case "replace":
		return e.Replace(c.Input, data, opts...)
	case "value":
		return e.Value(c.Input, data, opts...)
	case "values":
		return e.Values(c.Input, data, opts...)
	case "props":
		return e.Props(c.Input)
	case "has":
		return e.Has(c.Input), nil
	default:
		return nil, errors.New("unknown op " + c.Op)
	}
}
