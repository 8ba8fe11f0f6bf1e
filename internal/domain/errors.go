package domain

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindCredential Kind = "credential" // missing, expired or rejected credential
	KindTransport  Kind = "transport"  // network failure or timeout
	KindResponse   Kind = "response"   // non-2xx, malformed body, empty result
	KindInput      Kind = "input"      // no source id; nothing was requested
)

var (
	ErrNoCredential = errors.New("no credential configured")
	ErrEmptyResult  = errors.New("source returned no reviews")
	ErrNoSourceID   = errors.New("empty source id")
	ErrUnauthorized = errors.New("source rejected credential")
)

// FetchError tags a failure with its kind and the source it happened for.
type FetchError struct {
	Kind     Kind
	SourceID string
	Err      error
}

func (e *FetchError) Error() string {
	if e.SourceID == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error for %q: %v", e.Kind, e.SourceID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func NewError(kind Kind, sourceID string, err error) *FetchError {
	return &FetchError{Kind: kind, SourceID: sourceID, Err: err}
}

// KindOf classifies err. Errors without a tag are treated as transport failures.
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	switch {
	case errors.Is(err, ErrNoCredential), errors.Is(err, ErrUnauthorized):
		return KindCredential
	case errors.Is(err, ErrEmptyResult):
		return KindResponse
	}
	return KindTransport
}

// Result is either a live list of reviews or the failure that prevented one.
type Result struct {
	Reviews []Review
	Failure *FetchError
}

func (r Result) Live() bool { return r.Failure == nil }
