// Package errors defines the typed application error carried from services
// to the HTTP layer, and the status and public wording of every code.
package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeForbidden         Code = "FORBIDDEN"
	CodeNotFound          Code = "NOT_FOUND"
	CodeEmptyCart         Code = "EMPTY_CART"
	CodeProductNotFound   Code = "PRODUCT_NOT_FOUND"
	CodeLineNotFound      Code = "LINE_NOT_FOUND"
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"
	CodeCheckoutFailed    Code = "CHECKOUT_FAILED"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeIdempotency       Code = "IDEMPOTENCY_KEY_REUSED"
	CodeRateLimit         Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal          Code = "INTERNAL_ERROR"
	CodeDependency        Code = "DEPENDENCY_ERROR"
)

// Metadata describes how a code is rendered to clients. Details are only
// exposed for codes with DetailsAllowed set.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

const (
	_ = iota
	retryable
	withDetails
)

func meta(status int, message string, flags ...int) Metadata {
	m := Metadata{HTTPStatus: status, PublicMessage: message}
	for _, f := range flags {
		switch f {
		case retryable:
			m.Retryable = true
		case withDetails:
			m.DetailsAllowed = true
		}
	}
	return m
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:        meta(http.StatusBadRequest, "validation failed", withDetails),
	CodeUnauthorized:      meta(http.StatusUnauthorized, "authentication required"),
	CodeForbidden:         meta(http.StatusForbidden, "access denied"),
	CodeNotFound:          meta(http.StatusNotFound, "resource not found"),
	CodeEmptyCart:         meta(http.StatusBadRequest, "cart is empty"),
	CodeProductNotFound:   meta(http.StatusNotFound, "product not found", withDetails),
	CodeLineNotFound:      meta(http.StatusNotFound, "cart line not found"),
	CodeInsufficientStock: meta(http.StatusConflict, "insufficient stock", withDetails),
	CodeCheckoutFailed:    meta(http.StatusInternalServerError, "checkout failed", retryable),
	CodeInvalidTransition: meta(http.StatusUnprocessableEntity, "status transition not allowed", withDetails),
	CodeIdempotency:       meta(http.StatusConflict, "idempotency key reused", withDetails),
	CodeRateLimit:         meta(http.StatusTooManyRequests, "rate limit exceeded"),
	CodeInternal:          meta(http.StatusInternalServerError, "internal server error", retryable),
	CodeDependency:        meta(http.StatusServiceUnavailable, "dependency unavailable", retryable, withDetails),
}

// MetadataFor falls back to CodeInternal for codes it does not know.
func MetadataFor(code Code) Metadata {
	if m, ok := metadataByCode[code]; ok {
		return m
	}
	return metadataByCode[CodeInternal]
}

// Error is immutable once built; WithDetails returns a copy.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches cause to a new typed error. A nil cause behaves like New.
func Wrap(code Code, cause error, message string) *Error {
	return &Error{code: code, message: message, cause: cause}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	clone := *e
	clone.details = details
	return &clone
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	text := string(e.code) + ": " + e.message
	if e.cause != nil {
		text += ": " + e.cause.Error()
	}
	return text
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches another *Error by code, so errors.Is(err, New(CodeNotFound, ""))
// holds for any not-found error in the chain.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && e != nil && other != nil && e.code == other.code
}

// As returns the outermost typed error in the chain, or nil.
func As(err error) *Error {
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf returns the code of the outermost typed error, or CodeInternal.
func CodeOf(err error) Code {
	return As(err).Code()
}

func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.code == code
}
