package update

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrCheckFailed matches every CheckError with errors.Is
var ErrCheckFailed = errors.New("update check failed")

// ErrorKind classifies why a check failed
type ErrorKind int

const (
	// KindTransport is a connection, DNS or timeout failure
	KindTransport ErrorKind = iota
	// KindHTTP is a response with a status other than 200
	KindHTTP
	// KindParse is a body that is not a JSON object
	KindParse
	// KindResponse is a missing or invalid required field
	KindResponse
)

// String returns the label used in failure messages
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "Transport"
	case KindHTTP:
		return "HTTP"
	case KindParse:
		return "JSON"
	case KindResponse:
		return "Response"
	default:
		return "Unknown"
	}
}

// CheckError describes a failed check
type CheckError struct {
	Kind ErrorKind
	// Code is the HTTP status for KindHTTP
	Code int
	// Field names the offending key for KindResponse
	Field string
	// Message is the human readable detail
	Message string
	// Err is the underlying cause, if any
	Err error
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail())
}

// Detail returns the failure detail without the kind label
func (e *CheckError) Detail() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Kind == KindHTTP:
		return strconv.Itoa(e.Code)
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "unknown error"
	}
}

func (e *CheckError) Unwrap() error {
	return e.Err
}

// Is makes every CheckError match ErrCheckFailed
func (e *CheckError) Is(target error) bool {
	return target == ErrCheckFailed
}

func transportError(err error) *CheckError {
	return &CheckError{Kind: KindTransport, Message: err.Error(), Err: err}
}

func httpError(code int) *CheckError {
	return &CheckError{Kind: KindHTTP, Code: code}
}

func parseError(err error) *CheckError {
	return &CheckError{Kind: KindParse, Message: err.Error(), Err: err}
}

func responseError(field, reason string) *CheckError {
	return &CheckError{
		Kind:    KindResponse,
		Field:   field,
		Message: fmt.Sprintf("required parameter %s is %s", field, reason),
	}
}
