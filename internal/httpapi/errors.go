package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"llmbridge/internal/manager"
	"llmbridge/pkg/types"
)

// writeJSONError writes a consistent JSON error payload for non-call
// endpoints and transport-level failures.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// statusForCode maps a method error code onto an HTTP status.
func statusForCode(code string) int {
	switch code {
	case types.CodeNoModel:
		return http.StatusConflict
	case types.CodeInvalidArgument:
		return http.StatusBadRequest
	case types.CodeNotImplemented:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// methodError converts err into the wire error, classifying uncoded errors
// as INTERNAL.
func methodError(err error) types.MethodError {
	var ni notImplementedError
	code := manager.ErrorCode(err)
	if errors.As(err, &ni) {
		code = types.CodeNotImplemented
	}
	if code == "" {
		code = types.CodeInternal
	}
	return types.MethodError{Code: code, Message: err.Error()}
}

func writeMethodError(w http.ResponseWriter, me types.MethodError) int {
	status := statusForCode(me.Code)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.MethodErrorResponse{Error: me})
	return status
}

func writeMethodResult(w http.ResponseWriter, result any) int {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(types.MethodResult{Result: result})
	return http.StatusOK
}
