package interpolate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "missing filter",
			err:  missingFilter("lower"),
			want: `unknown filter: missing filter named "lower"`,
		},
		{
			name: "with placeholder",
			err:  missingFilter("lower").WithExpr("{{ x | lower }}"),
			want: `unknown filter: missing filter named "lower" (in {{ x | lower }})`,
		},
		{
			name: "invalid data",
			err:  NewError(ErrInvalidData, "nope"),
			want: "invalid data: nope",
		},
		{
			name: "unknown kind",
			err:  NewError(ErrorKind(99), "x"),
			want: "error: x",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestIsKind(t *testing.T) {
	cause := errors.New("cause")
	err := fmt.Errorf("wrapped: %w", &Error{Kind: ErrFilterFailed, Message: "x", Err: cause})

	assert.True(t, IsKind(err, ErrFilterFailed))
	assert.False(t, IsKind(err, ErrMissingFilter))
	assert.False(t, IsKind(cause, ErrFilterFailed))
	assert.False(t, IsKind(nil, ErrFilterFailed))
	assert.ErrorIs(t, err, cause)
}
