package llm

import (
	"errors"
	"strings"
)

// ErrorKind classifies why a provider attempt, or a whole relay call, failed.
type ErrorKind string

const (
	// MissingCredential: the provider had no key and was skipped without a network call.
	MissingCredential ErrorKind = "missing_credential"
	// TransportFailure: network error or non-2xx status.
	TransportFailure ErrorKind = "transport_failure"
	// MalformedResponse: 2xx reply without the expected field.
	MalformedResponse ErrorKind = "malformed_response"
	// AllProvidersExhausted: every provider was skipped or failed.
	AllProvidersExhausted ErrorKind = "all_providers_exhausted"
	// InvalidRequest: the caller's prompt was unusable.
	InvalidRequest ErrorKind = "invalid_request"
)

// Error wraps an underlying failure with its classification.
type Error struct {
	Kind     ErrorKind
	Provider ProviderName
	Message  string
	Err      error

	// Attempts holds the per-provider failures behind an AllProvidersExhausted error.
	Attempts []*Error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Provider != "" {
		b.WriteString(string(e.Provider))
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a classified error for provider p.
func NewError(kind ErrorKind, p ProviderName, msg string, err error) *Error {
	return &Error{Kind: kind, Provider: p, Message: msg, Err: err}
}

// KindOf reports the classification of err, defaulting to TransportFailure for
// unclassified errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return TransportFailure
}
