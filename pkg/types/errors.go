package types

import (
	"errors"
	"net/http"
)

type ErrorKind string

const (
	KindValidation    ErrorKind = "VALIDATION_ERROR"
	KindAuthorization ErrorKind = "AUTHORIZATION_ERROR"
	KindNotFound      ErrorKind = "NOT_FOUND"
	KindUpstream      ErrorKind = "UPSTREAM_ERROR"
)

// Error is the error type surfaced to API callers. Code defaults to the
// kind and Status to the kind's HTTP status when left empty.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}

	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func (e *Error) ErrorCode() string {
	if e.Code != "" {
		return e.Code
	}
	return string(e.Kind)
}

// Is matches another *Error of the same kind and message, so sentinels can
// be compared with errors.Is after being wrapped.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewAuthorizationError(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// NewUpstreamError hides the cause behind a generic message. The cause is
// kept for logging only.
func NewUpstreamError(err error) *Error {
	return &Error{
		Kind:    KindUpstream,
		Message: "The service is temporarily unavailable. Please try again.",
		Err:     err,
	}
}

// IsKind reports whether any *Error in err's chain has the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

var (
	ErrNoDocuments             = NewValidationError("no documents selected")
	ErrMissingPurpose          = NewValidationError("missing purpose")
	ErrIncompleteBusinessInfo  = NewValidationError("incomplete business info")
	ErrUnknownStatus           = NewValidationError("unknown status")
	ErrCertificateNotAvailable = NewValidationError("certificate available only for completed requests")
	ErrResidentTransition      = NewAuthorizationError("residents may only cancel pending requests")
	ErrNotRequestOwner         = NewAuthorizationError("request belongs to another resident")
	ErrAdminOnly               = NewAuthorizationError("administrator access required")

	ErrUnauthenticated = &Error{
		Kind:    KindAuthorization,
		Code:    "UNAUTHENTICATED",
		Message: "missing or invalid identity token",
		Status:  http.StatusUnauthorized,
	}

	ErrRequestNotFound  = NewNotFoundError("request not found")
	ErrProfileNotFound  = NewNotFoundError("profile not found")
	ErrAccountNotFound  = NewNotFoundError("account not found")
	ErrPurposesNotFound = NewNotFoundError("document purposes not found, run the seed endpoint")
)
