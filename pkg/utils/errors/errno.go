// Package errors defines the numbered errors campusgpt reports to clients.
//
// A code has seven digits, AABBCCC: AA is the service (00 shared, 21 campus),
// BB the category from code.go and CCC a sequence within the category.
// Predefined values are never mutated; WithMessage and WithCause return
// copies:
//
//	return errors.ErrInvalidParam.WithMessage("content is required")
//	return errors.ErrDatabase.WithCause(err)
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/grpc/codes"
)

// Errno is an error with a stable code, its transport statuses and a
// message in English and Chinese.
type Errno struct {
	Code      int        `json:"code"`
	HTTP      int        `json:"-"`
	GRPCCode  codes.Code `json:"-"`
	MessageEN string     `json:"message"`
	MessageZH string     `json:"message_zh,omitempty"`

	cause error
}

// New builds an Errno. Pass it to Register to make the code resolvable.
func New(code, httpStatus int, grpcCode codes.Code, messageEN, messageZH string) *Errno {
	return &Errno{Code: code, HTTP: httpStatus, GRPCCode: grpcCode, MessageEN: messageEN, MessageZH: messageZH}
}

func (e *Errno) Error() string {
	msg := fmt.Sprintf("errno %d: %s", e.Code, e.MessageEN)
	if e.cause == nil {
		return msg
	}
	return msg + ": " + e.cause.Error()
}

func (e *Errno) Unwrap() error { return e.cause }

// Is matches any Errno with the same code, so a customised copy still
// satisfies errors.Is against the predefined value.
func (e *Errno) Is(target error) bool {
	t, ok := target.(*Errno)
	return ok && t.Code == e.Code
}

// WithCause 返回携带底层错误的副本。
func (e *Errno) WithCause(cause error) *Errno {
	c := *e
	c.cause = cause
	return &c
}

// WithMessage 返回替换英文消息的副本。
func (e *Errno) WithMessage(msg string) *Errno {
	c := *e
	c.MessageEN = msg
	return &c
}

func (e *Errno) WithMessagef(format string, args ...any) *Errno {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// Message picks the Chinese text for any zh locale that has one and the
// English text otherwise.
func (e *Errno) Message(lang string) string {
	if e.MessageZH != "" && strings.HasPrefix(strings.ToLower(lang), "zh") {
		return e.MessageZH
	}
	return e.MessageEN
}

// HTTPStatus defaults to 500 when unset.
func (e *Errno) HTTPStatus() int {
	if e.HTTP == 0 {
		return http.StatusInternalServerError
	}
	return e.HTTP
}

// GRPCStatus defaults to codes.Internal when unset.
func (e *Errno) GRPCStatus() codes.Code {
	if e.GRPCCode == codes.OK {
		return codes.Internal
	}
	return e.GRPCCode
}

// FromError finds the Errno in err's chain. Errors without one become
// ErrInternal wrapping err; nil stays nil.
func FromError(err error) *Errno {
	if err == nil {
		return nil
	}
	var e *Errno
	if stderrors.As(err, &e) {
		return e
	}
	return ErrInternal.WithCause(err)
}

// IsCode reports whether err's chain carries an Errno with code.
func IsCode(err error, code int) bool {
	var e *Errno
	return stderrors.As(err, &e) && e.Code == code
}
