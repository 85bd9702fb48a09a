package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"llmbridge/internal/manager"
	"llmbridge/pkg/types"
)

// callHandler serves POST /v1/call.
//
// @Summary      Invoke a bridge method
// @Description  Dispatches {method, arguments} to the session controller.
// @Tags         call
// @Accept       json
// @Produce      json
// @Param        body  body      types.MethodCall  true  "Method call"
// @Success      200   {object}  types.MethodResult
// @Failure      400   {object}  types.MethodErrorResponse
// @Failure      404   {object}  types.MethodErrorResponse
// @Failure      409   {object}  types.MethodErrorResponse
// @Failure      500   {object}  types.MethodErrorResponse
// @Router       /v1/call [post]
func callHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var call types.MethodCall
		if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(call.Method) == "" {
			writeMethodError(w, types.MethodError{Code: types.CodeInvalidArgument, Message: "method is required"})
			return
		}

		start := time.Now()
		result, err := dispatch(svc, call)
		var status int
		code := "OK"
		if err != nil {
			me := methodError(err)
			code = me.Code
			status = writeMethodError(w, me)
		} else {
			status = writeMethodResult(w, result)
		}
		callsTotal.WithLabelValues(call.Method, code).Inc()

		if err != nil && status >= http.StatusInternalServerError {
			requestEvent(r, LevelError, true).Str("method", call.Method).Int("status", status).
				Dur("dur", time.Since(start)).Err(err).Msg("call failed")
			return
		}
		requestEvent(r, LevelInfo, false).Str("method", call.Method).Int("status", status).
			Str("code", code).Dur("dur", time.Since(start)).Msg("call")
	}
}

// dispatch runs one method against svc and returns its JSON-ready result.
func dispatch(svc Service, call types.MethodCall) (any, error) {
	switch call.Method {
	case types.MethodLoadModel:
		args, err := decodeLoadArgs(call.Arguments)
		if err != nil {
			zlog.Warn().Err(err).Msg("loadModel rejected")
			return false, nil
		}
		return svc.LoadModel(args.ModelPath, *args.Config, args.ModelInfo), nil
	case types.MethodUnloadModel:
		svc.UnloadModel()
		return nil, nil
	case types.MethodGenerateResponse:
		var args types.GenerateArgs
		if err := decodeArgs(call.Arguments, &args); err != nil {
			return nil, err
		}
		if args.Prompt == nil {
			return nil, manager.ErrInvalidArgument("prompt is required")
		}
		if _, err := svc.GenerateResponse(*args.Prompt); err != nil {
			return nil, err
		}
		return nil, nil
	case types.MethodStopGeneration:
		svc.StopGeneration()
		return nil, nil
	case types.MethodGetModelStats:
		return svc.GetModelStats(), nil
	case types.MethodGetPerformanceMetrics:
		return svc.GetPerformanceMetrics(), nil
	case types.MethodIsModelLoaded:
		return svc.IsModelLoaded(), nil
	case types.MethodGetModelDisplayName:
		return svc.GetModelDisplayName(), nil
	case types.MethodListModels:
		models, err := svc.ListModels()
		if err != nil {
			return nil, fmt.Errorf("list models: %w", err)
		}
		if models == nil {
			models = []types.Model{}
		}
		return models, nil
	default:
		return nil, errNotImplemented(call.Method)
	}
}

// decodeArgs unmarshals raw into v. Absent or null arguments leave v zero.
func decodeArgs(raw json.RawMessage, v any) error {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return manager.ErrInvalidArgument(fmt.Sprintf("invalid arguments: %v", err))
	}
	return nil
}

type notImplementedError string

func (e notImplementedError) Error() string { return fmt.Sprintf("method %q not implemented", string(e)) }

func errNotImplemented(method string) error { return notImplementedError(method) }
