package firms

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a feed query produced no records.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindHTTPError
	KindEmptyResponse
	KindTimeout
	KindTransportError
	KindParseError
	KindNoData
)

func (k ErrorKind) String() string {
	switch k {
	case KindHTTPError:
		return "http_error"
	case KindEmptyResponse:
		return "empty_response"
	case KindTimeout:
		return "timeout"
	case KindTransportError:
		return "transport_error"
	case KindParseError:
		return "parse_error"
	case KindNoData:
		return "no_data"
	}
	return "unknown"
}

// FeedError carries the failure kind plus the underlying cause, if any.
type FeedError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *FeedError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("firms %s (status %d): %v", e.Kind, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("firms %s (status %d)", e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("firms %s: %v", e.Kind, e.Err)
	}
	return "firms " + e.Kind.String()
}

func (e *FeedError) Unwrap() error { return e.Err }

// Is matches another *FeedError by kind, so errors.Is(err, ErrNoData) works.
func (e *FeedError) Is(target error) bool {
	fe, ok := target.(*FeedError)
	return ok && fe.Kind == e.Kind
}

// ErrNoData reports a well-formed feed with zero rows.
var ErrNoData = &FeedError{Kind: KindNoData}

// KindOf returns the ErrorKind of err, or KindUnknown.
func KindOf(err error) ErrorKind {
	var fe *FeedError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}
