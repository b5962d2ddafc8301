package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupError_Message(t *testing.T) {
	tests := []struct {
		err      *LookupError
		expected string
	}{
		{&LookupError{Kind: KindMissingCredential}, "API key is not configured"},
		{&LookupError{Kind: KindEmptyQuery}, "please enter a city name"},
		{&LookupError{Kind: KindNotFound, City: "Atlantis"}, "city 'Atlantis' not found"},
		{&LookupError{Kind: KindUnauthorized, StatusCode: 401}, "API key is invalid"},
		{&LookupError{Kind: KindProviderError, StatusCode: 502}, "weather lookup failed (code 502)"},
		{&LookupError{Kind: KindNetworkFailure}, "network error, check your internet connection"},
		{&LookupError{Kind: KindUnknown}, "unexpected error, please try again later"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Message())
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestLookupError_WrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("search: %w", &LookupError{Kind: KindNetworkFailure, Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")

	lerr := AsLookupError(err)
	assert.Equal(t, KindNetworkFailure, lerr.Kind)
}

func TestAsLookupError(t *testing.T) {
	assert.Nil(t, AsLookupError(nil))

	lerr := AsLookupError(errors.New("boom"))
	assert.Equal(t, KindUnknown, lerr.Kind)
	assert.EqualError(t, lerr.Err, "boom")
}

func TestErrorKind_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(map[string]ErrorKind{"kind": KindNotFound})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"kind":"not_found"}`, string(data))

	assert.Equal(t, "unknown", ErrorKind(99).String())
}
