package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed lookup. Exactly one kind applies per failure.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindMissingCredential
	KindEmptyQuery
	KindNotFound
	KindUnauthorized
	KindProviderError
	KindNetworkFailure
)

var kindNames = map[ErrorKind]string{
	KindUnknown:           "unknown",
	KindMissingCredential: "missing_credential",
	KindEmptyQuery:        "empty_query",
	KindNotFound:          "not_found",
	KindUnauthorized:      "unauthorized",
	KindProviderError:     "provider_error",
	KindNetworkFailure:    "network_failure",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ErrorKind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown error kind %q", text)
}

// LookupError is the only error type returned by a weather lookup.
type LookupError struct {
	Kind ErrorKind
	// City is the caller's original input, set for KindNotFound.
	City string
	// StatusCode is the provider's HTTP status when one was received.
	StatusCode int
	Err        error
}

// Message is the user-facing text for the error.
func (e *LookupError) Message() string {
	switch e.Kind {
	case KindMissingCredential:
		return "API key is not configured"
	case KindEmptyQuery:
		return "please enter a city name"
	case KindNotFound:
		return fmt.Sprintf("city '%s' not found", e.City)
	case KindUnauthorized:
		return "API key is invalid"
	case KindProviderError:
		return fmt.Sprintf("weather lookup failed (code %d)", e.StatusCode)
	case KindNetworkFailure:
		return "network error, check your internet connection"
	default:
		return "unexpected error, please try again later"
	}
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message(), e.Err)
	}
	return e.Message()
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// AsLookupError extracts the classified error from err. Errors that were
// never classified are reported as KindUnknown.
func AsLookupError(err error) *LookupError {
	if err == nil {
		return nil
	}
	var lerr *LookupError
	if errors.As(err, &lerr) {
		return lerr
	}
	return &LookupError{Kind: KindUnknown, Err: err}
}

var errInvalidPayload = errors.New("invalid weather data")
