package apierr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Kind classifies a failed engine operation for the caller.
type Kind string

const (
	KindNetwork              Kind = "network"
	KindAuth                 Kind = "auth"
	KindValidation           Kind = "validation"
	KindDuplicateApplication Kind = "duplicate_application"
	KindAlreadySaved         Kind = "already_saved"
	KindConflict             Kind = "conflict"
	KindInFlight             Kind = "in_flight"
)

// Sentinels for errors.Is. Every *Error matches the sentinel of its kind.
var (
	ErrNetwork              = &Error{Kind: KindNetwork}
	ErrAuth                 = &Error{Kind: KindAuth}
	ErrValidation           = &Error{Kind: KindValidation}
	ErrDuplicateApplication = &Error{Kind: KindDuplicateApplication}
	ErrAlreadySaved         = &Error{Kind: KindAlreadySaved}
	ErrConflict             = &Error{Kind: KindConflict}
	ErrInFlight             = &Error{Kind: KindInFlight}
)

// Error codes shared with the backend's error envelope.
const (
	CodeDuplicateApplication = "duplicate_application"
	CodeInvalidTransition    = "invalid_transition"
	CodeValidation           = "validation_failed"
	CodeNotFound             = "not_found"
	CodeUnauthorized         = "unauthorized"
	CodeForbidden            = "forbidden"
	CodeRateLimited          = "rate_limited"
	CodeInternal             = "internal"
)

type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := strings.TrimSpace(e.Message)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" && e.Code != "" {
		msg = e.Code
	}
	if msg == "" && e.Status != 0 {
		msg = http.StatusText(e.Status)
	}
	if msg == "" {
		msg = string(e.Kind) + " error"
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s (status=%d): %s", e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind so errors.Is(err, ErrNetwork) works on any network error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return t.Kind == e.Kind && t.Status == 0 && t.Code == "" && t.Message == "" && t.Err == nil
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: strings.TrimSpace(msg)}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: strings.TrimSpace(msg), Err: err}
}

func Network(err error) *Error { return Wrap(KindNetwork, "", err) }

func Auth(msg string) *Error { return New(KindAuth, msg) }

func Validation(msg string) *Error { return New(KindValidation, msg) }

func Validationf(format string, args ...any) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

func Conflict(msg string) *Error { return New(KindConflict, msg) }

func DuplicateApplication(msg string) *Error {
	if strings.TrimSpace(msg) == "" {
		msg = "you have already applied to this opportunity"
	}
	return &Error{Kind: KindDuplicateApplication, Code: CodeDuplicateApplication, Message: msg}
}

func AlreadySaved(msg string) *Error {
	if strings.TrimSpace(msg) == "" {
		msg = "this research gap has already been saved"
	}
	return New(KindAlreadySaved, msg)
}

func InFlight(entity string) *Error {
	return New(KindInFlight, fmt.Sprintf("another change to %s is still pending", entity))
}

// FromHTTP classifies a non-2xx response.
func FromHTTP(status int, code, message string) *Error {
	code = strings.TrimSpace(code)
	message = strings.TrimSpace(message)
	e := &Error{Status: status, Code: code, Message: message}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Kind = KindAuth
	case status == http.StatusTooManyRequests || status == http.StatusRequestTimeout || status >= 500:
		e.Kind = KindNetwork
	case status == http.StatusConflict || status == http.StatusNotFound:
		e.Kind = KindConflict
	case isDuplicateSignal(code, message):
		e.Kind = KindDuplicateApplication
	default:
		e.Kind = KindValidation
	}
	return e
}

func isDuplicateSignal(code, message string) bool {
	if strings.EqualFold(code, CodeDuplicateApplication) {
		return true
	}
	m := strings.ToLower(message)
	return strings.Contains(m, "already applied") || strings.Contains(m, "duplicate application")
}

// Classify converts any error into an *Error. Transport failures, timeouts and
// cancellations are network errors; already classified errors pass through.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Wrap(KindNetwork, "request did not complete", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Wrap(KindNetwork, "network unreachable", err)
	}
	return Wrap(KindNetwork, "", err)
}

// KindOf returns the kind of err, or "" when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Retryable reports whether repeating the same request may succeed.
func Retryable(err error) bool {
	return KindOf(err) == KindNetwork
}

// UserMessage extracts the message carried by an error payload (or a locally raised
// error), or fallback when there is none. Transport failures never carry one.
func UserMessage(err error, fallback string) string {
	var e *Error
	if !errors.As(err, &e) {
		return fallback
	}
	if e.Kind == KindNetwork && e.Status == 0 {
		return fallback
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	return fallback
}
