package derrors

import (
	"errors"
	"net/http"
)

// Code classifies a domain error for transport mapping and metrics labels.
type Code string

const (
	// CodeBadRequest covers missing or unreadable input: absent image part,
	// undecodable image bytes, missing worker identifier.
	CodeBadRequest Code = "bad_request"

	// CodeNotFound signals a missing reference, e.g. matching against a worker
	// that was never enrolled.
	CodeNotFound Code = "not_found"

	// CodeDuplicate signals a second enrollment attempt for a worker that
	// already has a reference face. Enrollment is strictly one-time.
	CodeDuplicate Code = "duplicate_enrollment"

	// CodeNoFace signals that no face was detected in a submitted image where
	// one is required (enrollment).
	CodeNoFace Code = "no_face_detected"

	// CodeUnavailable covers external collaborator outages (OCR engine,
	// face encoder, stores). Surfaced to the caller, never retried locally.
	CodeUnavailable Code = "service_unavailable"

	// CodePartial marks a request whose result was computed but whose audit
	// record could not be durably stored.
	CodePartial Code = "partial_success"

	CodeInternal Code = "internal"
)

// Error is the coded error services return to the transport layer. Stores and
// infrastructure return pkg/sentinel errors instead; services translate.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded domain error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap builds a coded domain error that preserves the underlying cause for
// errors.Is/errors.As chains.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal so transport
// never leaks raw error text for unclassified failures.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus keeps the domain-to-HTTP mapping in one place.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeNoFace:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeDuplicate:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
