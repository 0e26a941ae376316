package api

import "fmt"

// The four failure kinds every operation resolves to. Presentation code may
// use only the message string; callers that care can discriminate with
// errors.As (for example, redirecting to login on a 401 RequestError).

// ValidationError rejects input on the client side before any request is
// sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// TransportError means no response was received: DNS failure, connection
// refused, timeout.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("could not reach server: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RequestError is a non-2xx HTTP response. Message is the server's own
// message field when the error body parses, "Request failed" otherwise.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string { return e.Message }

// ParseError is a malformed body on an otherwise successful response.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse server response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func required(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is required"}
}
