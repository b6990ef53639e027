package answer

import (
	"errors"
	"fmt"
)

// UnexpectedMessage is shown for any failure which isn't an http error status or an
// explicit error from the service.
const UnexpectedMessage = "An unexpected error occurred"

// ApplicationError is an error message explicitly returned by the answer service.
type ApplicationError struct {
	StatusCode int
	Msg        string
}

func (e *ApplicationError) Error() string {
	return e.Msg
}

// TransportError is a non-success status without any explicit error message.
type TransportError struct {
	StatusCode int
	// Detail is the visible text of the response body, if any. Typically set when a
	// proxy in front of the service responds with an html error page.
	Detail string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// UnexpectedError wraps anything else that went wrong, such as network failures
// or malformed responses.
type UnexpectedError struct {
	Cause error
}

func (e *UnexpectedError) Error() string {
	if e.Cause == nil {
		return UnexpectedMessage
	}
	return fmt.Sprintf("%v: %v", UnexpectedMessage, e.Cause)
}

func (e *UnexpectedError) Unwrap() error {
	return e.Cause
}

// Message returns the user facing message of err. Application errors are passed
// through verbatim, transport errors reference the status code, everything else
// maps to UnexpectedMessage.
func Message(err error) string {
	var appErr *ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Msg
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Error()
	}
	return UnexpectedMessage
}

// Detail returns additional information about err which isn't part of the user
// facing message, or empty string if there is none.
func Detail(err error) string {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Detail
	}
	var unexpectedErr *UnexpectedError
	if errors.As(err, &unexpectedErr) && unexpectedErr.Cause != nil {
		return unexpectedErr.Cause.Error()
	}
	return ""
}
