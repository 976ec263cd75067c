package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind uint8

const (
	// KindUnknown is reported for errors that carry no Kind.
	KindUnknown Kind = iota

	// KindNotFound means a lookup by id or email matched no row.
	KindNotFound

	// KindConflict means a write would break email uniqueness.
	KindConflict

	// KindStoreFailure means the query executor itself failed.
	KindStoreFailure
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindStoreFailure:
		return "store_failure"
	default:
		return "unknown"
	}
}

// Error is a failure tagged with its Kind.
//
// Op names the operation that failed (e.g. "UpdateUser"). Err, when set, is
// the underlying cause and stays reachable through errors.As.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}

	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, msg, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	default:
		return msg
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so the sentinels below work with
// errors.Is regardless of Op or Message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrStoreFailure = &Error{Kind: KindStoreFailure}
)

// NotFound returns a KindNotFound error for op.
func NotFound(op, message string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Message: message}
}

// Conflict returns a KindConflict error for op. cause may be nil.
func Conflict(op, message string, cause error) *Error {
	return &Error{Kind: KindConflict, Op: op, Message: message, Err: cause}
}

// StoreFailure tags an executor error. The cause is kept as is.
func StoreFailure(op string, cause error) *Error {
	return &Error{Kind: KindStoreFailure, Op: op, Message: "store failure", Err: cause}
}

// KindOf reports the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
