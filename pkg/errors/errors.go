package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind classifies an application failure. The wire code and HTTP status are
// derived from it, never from the error message.
type Kind int

const (
	KindGenericFailure Kind = iota
	KindInvalidInput
	KindUnsupportedFileType
	KindDocTypesMismatch
	KindDownloadFailed
	KindUnprocessableDocument
	KindUnauthorized
)

// Code returns the wire code reported to HTTP clients and callback receivers.
func (k Kind) Code() string {
	switch k {
	case KindInvalidInput:
		return "INVALID_INPUT"
	case KindUnsupportedFileType:
		return "UNSUPPORTED_FILE_TYPE"
	case KindDocTypesMismatch:
		return "DOC_TYPES_MISMATCH"
	case KindDownloadFailed:
		return "DOWNLOAD_FAILED"
	case KindUnprocessableDocument:
		return "UNPROCESSABLE_DOCUMENT"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	default:
		return "failed"
	}
}

// StatusCode returns the HTTP status used when the kind is surfaced synchronously.
func (k Kind) StatusCode() int {
	switch k {
	case KindInvalidInput, KindUnsupportedFileType, KindDocTypesMismatch, KindUnprocessableDocument:
		return http.StatusBadRequest
	case KindDownloadFailed:
		return http.StatusBadGateway
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// IsValidation reports whether the kind is detected before a pipeline runs.
func (k Kind) IsValidation() bool {
	switch k {
	case KindInvalidInput, KindUnsupportedFileType, KindDocTypesMismatch, KindDownloadFailed:
		return true
	}
	return false
}

// AppError represents a structured application error
type AppError struct {
	Kind    Kind   `json:"-"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind.Code(), e.Message)
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Code returns the wire code of the error kind.
func (e *AppError) Code() string {
	return e.Kind.Code()
}

// StatusCode returns the HTTP status of the error kind.
func (e *AppError) StatusCode() int {
	return e.Kind.StatusCode()
}

func newError(kind Kind, message string, cause error) *AppError {
	return &AppError{Kind: kind, Message: message, Cause: cause}
}

// NewInvalidInput creates a new input validation error
func NewInvalidInput(message string, details ...string) *AppError {
	e := newError(KindInvalidInput, message, nil)
	if len(details) > 0 {
		e.Details = details[0]
	}
	return e
}

// NewUnsupportedFileType creates an error for a rejected file extension
func NewUnsupportedFileType(message string) *AppError {
	return newError(KindUnsupportedFileType, message, nil)
}

// NewDocTypesMismatch creates an error for doc_types that do not pair with files
func NewDocTypesMismatch(message string) *AppError {
	return newError(KindDocTypesMismatch, message, nil)
}

// NewDownloadFailed creates an error for a source file that could not be fetched
func NewDownloadFailed(message string, cause error) *AppError {
	return newError(KindDownloadFailed, message, cause)
}

// NewUnprocessableDocument creates an error for a corrupt or encrypted source document
func NewUnprocessableDocument(message string, cause error) *AppError {
	return newError(KindUnprocessableDocument, message, cause)
}

// NewGenericFailure creates the catch-all pipeline failure
func NewGenericFailure(message string, cause error) *AppError {
	return newError(KindGenericFailure, message, cause)
}

// NewUnauthorized creates a new unauthorized error
func NewUnauthorized(message string) *AppError {
	return newError(KindUnauthorized, message, nil)
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf classifies err. Anything that is not an AppError is a generic failure.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindGenericFailure
}

// IsKind checks if the error chain carries an AppError of the given kind
func IsKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	return KindOf(err).StatusCode()
}
