// Package errs classifies failures across the PIG manager.
//
// Every I/O-touching operation returns a plain error; operations that want
// the web layer or the CLI to present a failure correctly wrap it with a
// Kind. The kind drives HTTP status codes and user-facing messages, so the
// core pipeline never decides presentation policy itself.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for presentation and recovery policy.
type Kind int

const (
	// KindUnknown marks errors that were never classified.
	KindUnknown Kind = iota

	// KindInput covers malformed workbook input: missing sheets, short
	// grids, unreadable cells. Mapping defaults these to the sentinel, so
	// the kind mostly appears when a whole file cannot be opened.
	KindInput

	// KindValidation covers policy violations that block acceptance. The
	// wrapped message is user-facing and must survive to the surface.
	KindValidation

	// KindAuth marks an access-gate rejection (bad or expired token).
	KindAuth

	// KindNotFound marks a missing blob, session, or reference entry.
	KindNotFound

	// KindConflict marks duplicate or conflicting state.
	KindConflict

	// KindRemoteIO covers blob, FTP, and network failures. Callers surface
	// these and abort; there is no automatic retry.
	KindRemoteIO

	// KindPartialPublish marks the one dangerous publish outcome: the blob
	// copy of the export was written but the transfer-endpoint store
	// failed, leaving the two remotes inconsistent until a retry succeeds.
	KindPartialPublish
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRemoteIO:
		return "remote_io"
	case KindPartialPublish:
		return "partial_publish"
	default:
		return "unknown"
	}
}

// Error is a classified error. Op names the failing operation in
// "package.Operation" form for logs; the wrapped error carries detail.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Kind.String()
	}
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap classifies err. A nil err returns nil so call sites can wrap
// unconditionally.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds a classified error from a format string.
func Errorf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// New builds a classified error from fixed text.
func New(kind Kind, op, text string) error {
	return &Error{Kind: kind, Op: op, Err: errors.New(text)}
}

// KindOf walks the error chain and returns the outermost classification,
// or KindUnknown when nothing in the chain is classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether the error chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}
