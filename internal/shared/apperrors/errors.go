package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into the HTTP-facing taxonomy.
type Kind int

const (
	KindUnknown    Kind = iota
	KindValidation      // 400 - malformed payload, bad seat, invalid payment status
	KindNotFound        // 404 - referenced event/venue/user/hold/booking absent
	KindConflict        // 409 - predicate violation on a state transition
	KindGone            // 410 - hold present but expired
	KindInternal        // 500 - store connectivity, unexpected failure
)

// Error carries a kind plus a short human-readable detail. Deeper-layer
// errors are wrapped so callers can still errors.Is/As through them.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Newf creates an error of the given kind with a formatted detail.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and detail to an underlying error.
func Wrap(kind Kind, err error, detail string) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

// Convenience constructors for the five kinds.

func Validationf(format string, args ...interface{}) *Error {
	return Newf(KindValidation, format, args...)
}

func NotFoundf(format string, args ...interface{}) *Error {
	return Newf(KindNotFound, format, args...)
}

func Conflictf(format string, args ...interface{}) *Error {
	return Newf(KindConflict, format, args...)
}

func Gonef(format string, args ...interface{}) *Error {
	return Newf(KindGone, format, args...)
}

func Internal(err error) *Error {
	return Wrap(KindInternal, err, "internal error")
}

// KindOf extracts the kind from an error chain, KindUnknown if none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// StatusCode maps an error to its HTTP status. Unclassified errors are
// treated as internal.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindGone:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// Detail returns the short human-readable detail for an error, falling back
// to Error() for unclassified errors.
func Detail(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Detail
	}
	return err.Error()
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool { return KindOf(err) == KindConflict }
