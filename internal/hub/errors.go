package hub

import "errors"

// ErrorKind classifies a hub failure. The client never panics or leaks
// transport errors raw across its boundary; every failure is an *Error.
type ErrorKind string

const (
	// KindUnauthenticated: no usable session. The edge treats this the
	// same as a missing envelope.
	KindUnauthenticated ErrorKind = "unauthenticated"
	// KindNetwork: the hub was unreachable. Indistinguishable from an
	// invalid session at the gate, but reported distinctly for logs.
	KindNetwork ErrorKind = "network"
	// KindBackend: the hub answered with an error of its own.
	KindBackend ErrorKind = "backend"
	// KindProtocol: the hub answered something the client cannot parse.
	KindProtocol ErrorKind = "protocol"
)

type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// IsUnauthenticated reports whether err means "no valid session".
func IsUnauthenticated(err error) bool {
	var he *Error
	return errors.As(err, &he) && he.Kind == KindUnauthenticated
}

// KindOf returns the error's kind, or "" for non-hub errors.
func KindOf(err error) ErrorKind {
	var he *Error
	if errors.As(err, &he) {
		return he.Kind
	}
	return ""
}
