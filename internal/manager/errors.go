package manager

import (
	"errors"

	"llmbridge/pkg/types"
)

// codedError carries one of the types.Code* values so transports can report
// it without string matching.
type codedError struct {
	code string
	msg  string
}

func (e codedError) Error() string { return e.msg }

// Code returns the wire error code.
func (e codedError) Code() string { return e.code }

// ErrNoModel is returned by GenerateResponse when no model is loaded.
func ErrNoModel() error { return codedError{code: types.CodeNoModel, msg: "No model loaded"} }

// IsNoModel reports whether err indicates that no model is loaded.
func IsNoModel(err error) bool { return hasCode(err, types.CodeNoModel) }

// ErrInvalidArgument reports malformed method arguments.
func ErrInvalidArgument(msg string) error {
	return codedError{code: types.CodeInvalidArgument, msg: msg}
}

// IsInvalidArgument reports whether err indicates malformed arguments.
func IsInvalidArgument(err error) bool { return hasCode(err, types.CodeInvalidArgument) }

// ErrorCode returns the wire code of err, or "" for uncoded errors.
func ErrorCode(err error) string {
	var ce codedError
	if errors.As(err, &ce) {
		return ce.code
	}
	return ""
}

func hasCode(err error, code string) bool { return ErrorCode(err) == code }
