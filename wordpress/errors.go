package wordpress

import (
	"fmt"
	"strings"
)

// Kind classifies a failure at the WordPress boundary.
type Kind string

const (
	KindInvalidRequest      Kind = "invalid_request"
	KindConfiguration       Kind = "configuration"
	KindEnvironmentMismatch Kind = "environment_mismatch"
	KindMediaUpload         Kind = "media_upload"
	KindNetwork             Kind = "network"
	KindRemoteRejection     Kind = "remote_rejection"
)

// NoDetail replaces the remote error body when it can be read neither as JSON nor as text.
const NoDetail = "no detail available"

// Error is the structured failure returned by the publisher, uploader and prober.
// Status is the remote HTTP status when a response was received.
type Error struct {
	Kind    Kind
	Stage   Stage
	Status  int
	Code    string
	Message string
	Details string
	Timeout bool
	Err     error
}

// Sentinels for errors.Is; only Kind is compared.
var (
	ErrInvalidRequest      = &Error{Kind: KindInvalidRequest}
	ErrConfiguration       = &Error{Kind: KindConfiguration}
	ErrEnvironmentMismatch = &Error{Kind: KindEnvironmentMismatch}
	ErrMediaUpload         = &Error{Kind: KindMediaUpload}
	ErrNetwork             = &Error{Kind: KindNetwork}
	ErrRemoteRejection     = &Error{Kind: KindRemoteRejection}
)

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func configurationError(msg string) *Error {
	return &Error{Kind: KindConfiguration, Message: msg}
}

func invalidRequest(msg string) *Error {
	return &Error{Kind: KindInvalidRequest, Message: msg}
}
