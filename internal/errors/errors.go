package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid  = "CONFIG_INVALID"
	CodeTimeout        = "TIMEOUT"
	CodeNetwork        = "NETWORK_ERROR"
	CodeUpstreamStatus = "UPSTREAM_STATUS"
	CodeUpstreamReject = "UPSTREAM_REJECTED"
	CodeBadPayload     = "BAD_PAYLOAD"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeInternalError  = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func Timeout() *AppError {
	return New(CodeTimeout, "request timed out")
}

func Network(cause error) *AppError {
	return &AppError{Code: CodeNetwork, Message: "network error", Cause: cause}
}

func UpstreamStatus(status int, detail string) *AppError {
	msg := fmt.Sprintf("API returned status %d", status)
	if detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, detail)
	}
	return New(CodeUpstreamStatus, msg)
}

func UpstreamReject(detail string) *AppError {
	if detail == "" {
		detail = "request rejected by backend"
	}
	return New(CodeUpstreamReject, detail)
}

func BadPayload(cause error) *AppError {
	return &AppError{Code: CodeBadPayload, Message: "malformed response payload", Cause: cause}
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// UserMessage converts any fetch-path error into the string shown in a panel
// banner. Timeouts map to a fixed message; anything else uses the error's own
// message, with a generic fallback when there is none.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if GetCode(err) == CodeTimeout {
		return "request timed out"
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "network error"
}
