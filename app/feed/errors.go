package feed

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindMalformed ErrorKind = "malformed"
	KindUpstream  ErrorKind = "upstream"
)

// FetchError is the single error type surfaced by a Source. Kind is kept for
// logs and metrics; views render every kind the same way.
type FetchError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Messages returns the user-facing messages for a publisher label.
func Messages(label string) (upstream, connect string) {
	return "Failed to fetch articles", fmt.Sprintf("Error connecting to %s API", label)
}

func newTransportError(label string, err error) *FetchError {
	_, connect := Messages(label)
	return &FetchError{Kind: KindTransport, Message: connect, Err: err}
}

func newMalformedError(label string, err error) *FetchError {
	_, connect := Messages(label)
	return &FetchError{Kind: KindMalformed, Message: connect, Err: err}
}

func newUpstreamError(err error) *FetchError {
	upstream, _ := Messages("")
	return &FetchError{Kind: KindUpstream, Message: upstream, Err: err}
}

// AsFetchError converts any error into a *FetchError, treating unknown errors
// as transport failures.
func AsFetchError(label string, err error) *FetchError {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return newTransportError(label, err)
}
