package dictionary

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{
			name: "nil error",
			err:  nil,
			want: KindNone,
		},
		{
			name: "status 404",
			err:  &StatusError{StatusCode: 404},
			want: KindNotFound,
		},
		{
			name: "wrapped status 404",
			err:  fmt.Errorf("client.Lookup > %w", &StatusError{StatusCode: 404}),
			want: KindNotFound,
		},
		{
			name: "status 500",
			err:  &StatusError{StatusCode: 500},
			want: KindGeneric,
		},
		{
			name: "untyped error ending with 404",
			err:  errors.New("404"),
			want: KindNotFound,
		},
		{
			name: "untyped error ending with 403",
			err:  errors.New("status code: 403"),
			want: KindGeneric,
		},
		{
			name: "untyped error with 404 in the middle",
			err:  errors.New("404 is not at the end"),
			want: KindGeneric,
		},
		{
			name: "network error",
			err:  errors.New("dial tcp: connection refused"),
			want: KindGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestStatusError_Error(t *testing.T) {
	err := &StatusError{StatusCode: 500, Body: "internal"}
	assert.Equal(t, "status code: 500", err.Error())
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "none", KindNone.String())
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "generic", KindGeneric.String())
	assert.Equal(t, "unknown", ErrorKind(42).String())
}
