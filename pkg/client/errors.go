package client

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	// KindAPI means the service answered with an error envelope.
	KindAPI Kind = iota + 1
	// KindSerde means the body was neither the expected entity nor an error envelope.
	KindSerde
	// KindHTTP is a transport failure: DNS, connect, TLS or a malformed response.
	KindHTTP
	// KindIO is a failure while draining the response body.
	KindIO
	// KindURLParse means the base URL or a constructed URL is malformed.
	KindURLParse
	KindClientIDRequired
	KindClientSecretRequired
	KindAccessTokenRequired
)

var kindNames = map[Kind]string{
	KindAPI:                  "api",
	KindSerde:                "serde",
	KindHTTP:                 "http",
	KindIO:                   "io",
	KindURLParse:             "url parse",
	KindClientIDRequired:     "client id required",
	KindClientSecretRequired: "client secret required",
	KindAccessTokenRequired:  "access token required",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinel errors for the precondition kinds. Match with errors.Is.
var (
	ErrClientIDRequired     = &Error{Kind: KindClientIDRequired}
	ErrClientSecretRequired = &Error{Kind: KindClientSecretRequired}
	ErrAccessTokenRequired  = &Error{Kind: KindAccessTokenRequired}
)

// APIError is the error envelope returned by the service.
type APIError struct {
	Message     string  `json:"error" validate:"required"`
	Description *string `json:"error_description,omitempty"`
}

func (e *APIError) Error() string {
	if e.Description != nil && *e.Description != "" {
		return e.Message + ": " + *e.Description
	}
	return e.Message
}

// Error is returned by every operation in this package. API is set for
// KindAPI; Err carries the underlying cause for the transport, decoding and
// URL kinds.
type Error struct {
	Kind Kind
	API  *APIError
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.API != nil:
		return "api error: " + e.API.Error()
	case e.Err != nil:
		return e.Kind.String() + ": " + e.Err.Error()
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	if e.API != nil {
		return e.API
	}
	return e.Err
}

// Is reports whether target is a bare *Error of the same kind, so that
// errors.Is(err, ErrClientIDRequired) holds for any error of that kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.API == nil && t.Err == nil && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func wrapErr(kind Kind, err error) error {
	return &Error{Kind: kind, Err: err}
}
