package homework

import (
	"errors"
	"fmt"
)

// Kind tags a payload or record error so callers can switch on it instead of
// matching messages.
type Kind int

const (
	KindNone Kind = iota
	// KindTypeMismatch: the response (or its homeworks value) has the wrong type.
	KindTypeMismatch
	// KindEmptyPayload: the response is an empty mapping.
	KindEmptyPayload
	// KindMissingKey: the response has no homeworks key.
	KindMissingKey
	// KindMissingField: the record is empty or lacks homework_name.
	KindMissingField
	// KindUnknownStatus: status is absent or not a verdict code.
	KindUnknownStatus
)

func (k Kind) String() string {
	switch k {
	case KindTypeMismatch:
		return "type_mismatch"
	case KindEmptyPayload:
		return "empty_payload"
	case KindMissingKey:
		return "missing_key"
	case KindMissingField:
		return "missing_field"
	case KindUnknownStatus:
		return "unknown_status"
	default:
		return "none"
	}
}

// Error is the single error type returned by Validate and Format.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Is matches another *Error of the same Kind, so the sentinels below work
// with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrTypeMismatch  = &Error{Kind: KindTypeMismatch, Msg: "type mismatch"}
	ErrEmptyPayload  = &Error{Kind: KindEmptyPayload, Msg: "empty payload"}
	ErrMissingKey    = &Error{Kind: KindMissingKey, Msg: "missing key"}
	ErrMissingField  = &Error{Kind: KindMissingField, Msg: "missing field"}
	ErrUnknownStatus = &Error{Kind: KindUnknownStatus, Msg: "unknown status"}
)

func newError(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind carried by err, or KindNone.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}
