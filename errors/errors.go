package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrGroupNotFound      = fmt.Errorf("group not found")
	ErrNotAMember         = fmt.Errorf("sender is not a member of the group")
	ErrStorage            = fmt.Errorf("storage error")
	ErrConnectionGone     = fmt.Errorf("connection gone")
	ErrMessageNotFound    = fmt.Errorf("message not found")
	ErrMalformedFrame     = fmt.Errorf("malformed frame")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrInvalidCredentials = fmt.Errorf("invalid username or password")
	ErrInvalidPassword    = fmt.Errorf("invalid signup request")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrUnauthorized       = fmt.Errorf("missing or invalid authorization header")
	ErrForbidden          = fmt.Errorf("forbidden")
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrAttachmentTooLarge = fmt.Errorf("attachment too large")
	ErrLogNotFound        = fmt.Errorf("log not found")
	ErrUnsupportedType    = fmt.Errorf("unsupported attachment type")
	ErrAttachmentNotFound = fmt.Errorf("attachment not found")
	ErrInvalidRequest     = fmt.Errorf("invalid request")
)

// Is, As and New are re-exported so callers importing this package
// under the name "errors" keep access to the standard helpers.
var (
	Is  = errors.Is
	As  = errors.As
	New = errors.New
)

// Code is the stable string sent to websocket clients in error frames.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrGroupNotFound):
		return "group_not_found"
	case errors.Is(err, ErrNotAMember):
		return "not_a_member"
	case errors.Is(err, ErrStorage):
		return "storage_error"
	case errors.Is(err, ErrMalformedFrame):
		return "malformed_frame"
	default:
		return "internal_error"
	}
}

// HTTPStatus maps domain errors to the status returned by the REST endpoints.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrGroupNotFound), errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrLogNotFound), errors.Is(err, ErrMessageNotFound),
		errors.Is(err, ErrAttachmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotAMember), errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidPassword), errors.Is(err, ErrMalformedFrame):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrAttachmentTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrStorage):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
