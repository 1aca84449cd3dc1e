package provider

import (
	"errors"
	"fmt"
)

// Kind classifies provider failures for error surfacing.
type Kind string

const (
	// KindConfigMissing means the variant cannot run at all (e.g. no API key).
	// Detected before any network attempt.
	KindConfigMissing Kind = "config_missing"

	// KindRequestFailed is a transient network or service fault.
	KindRequestFailed Kind = "request_failed"

	// KindTimeout means the provider did not answer within the call bound.
	KindTimeout Kind = "timeout"

	// KindMalformedResponse means the provider returned data that cannot be
	// mapped to the result schema. Raw text is never silently accepted.
	KindMalformedResponse Kind = "malformed_response"
)

// Error is a classified provider failure.
type Error struct {
	Kind     Kind
	Provider string
	Err      error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// newError wraps err as a classified provider failure.
func newError(kind Kind, provider string, err error) *Error {
	return &Error{Kind: kind, Provider: provider, Err: err}
}

// errorf is newError with fmt.Errorf convenience.
func errorf(kind Kind, provider, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Provider: provider, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the failure Kind from an error chain.
// Returns "" if err is not a provider error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
