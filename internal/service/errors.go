package service

import "errors"

type Kind int

const (
	KindInvalidInput Kind = iota + 1
	KindNotFound
	KindUpstreamUnavailable
	KindNoCandidates
	KindNoMatch
	KindQueryFailure
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	case KindNoCandidates:
		return "no_candidates"
	case KindNoMatch:
		return "no_match"
	case KindQueryFailure:
		return "query_failure"
	}
	return "unknown"
}

// Error is returned by every service operation. Message is safe to show to
// clients; Err holds the underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind so callers can compare against the Err* values.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidInput        = &Error{Kind: KindInvalidInput, Message: "Invalid ID."}
	ErrNotFound            = &Error{Kind: KindNotFound, Message: "Question not found."}
	ErrUpstreamUnavailable = &Error{Kind: KindUpstreamUnavailable, Message: "Audio storage is unavailable."}
	ErrNoCandidates        = &Error{Kind: KindNoCandidates, Message: "No audio files found for this question."}
	ErrNoMatch             = &Error{Kind: KindNoMatch, Message: "Could not match question to an audio file."}
	ErrQueryFailed         = &Error{Kind: KindQueryFailure, Message: "Query failed."}
)

func newError(base *Error, message string, err error) *Error {
	if message == "" {
		message = base.Message
	}
	return &Error{Kind: base.Kind, Message: message, Err: err}
}

// AsError unwraps err into an *Error, falling back to a query failure for
// anything the services did not produce.
func AsError(err error) *Error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return newError(ErrQueryFailed, "", err)
}
