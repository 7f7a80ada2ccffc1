package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindNone},
		{"canceled", fmt.Errorf("%w: context canceled", ErrCanceled), KindTransport},
		{"unauthorized", &APIError{StatusCode: 401, Body: "bad key"}, KindAuth},
		{"wrapped unauthorized", fmt.Errorf("generate: %w", &APIError{StatusCode: 401}), KindAuth},
		{"server error", &APIError{StatusCode: 500, Body: "boom"}, KindAPI},
		{"network", fmt.Errorf("%w: dial tcp", ErrNetwork), KindAPI},
		{"parse", &ParseError{Snapshot: "{}"}, KindParse},
		{"no changes", ErrGitNoChanges, KindNoChanges},
		{"host", HostError(ErrGitNotInitialized), KindHostUnavailable},
		{"other", errors.New("something else"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{StatusCode: 429, Body: "rate limited"}
	assert.Equal(t, "Z.AI API 429: rate limited", err.Error())
	assert.False(t, errors.Is(err, ErrAPIKeyInvalid))
}

func TestHostErrorKeepsReason(t *testing.T) {
	err := HostError(ErrGitNotFound)

	assert.True(t, errors.Is(err, ErrHostUnavailable))
	assert.True(t, errors.Is(err, ErrGitNotFound))
	assert.Equal(t, ErrGitNotFound.Error(), err.Error())

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "scm", appErr.Operation)
}

func TestParseErrorMessage(t *testing.T) {
	err := &ParseError{Snapshot: `{"choices":[]}`}
	assert.Equal(t, `Unexpected Z.AI response: {"choices":[]}`, err.Error())
}
