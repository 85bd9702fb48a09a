package types

import "encoding/json"

// Method names accepted by POST /v1/call.
const (
	MethodLoadModel             = "loadModel"
	MethodUnloadModel           = "unloadModel"
	MethodGenerateResponse      = "generateResponse"
	MethodStopGeneration        = "stopGeneration"
	MethodGetModelStats         = "getModelStats"
	MethodGetPerformanceMetrics = "getPerformanceMetrics"
	MethodIsModelLoaded         = "isModelLoaded"
	MethodGetModelDisplayName   = "getModelDisplayName"
	MethodListModels            = "listModels"
)

// Error codes carried in MethodError.
const (
	CodeNoModel         = "NO_MODEL"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeNotImplemented  = "NOT_IMPLEMENTED"
	CodeInternal        = "INTERNAL"
)

// MethodCall is the request envelope for POST /v1/call.
type MethodCall struct {
	// Method name, e.g. loadModel.
	// example: generateResponse
	Method string `json:"method" example:"generateResponse"`
	// Method-specific arguments; may be omitted for argument-less methods.
	Arguments json.RawMessage `json:"arguments,omitempty" swaggertype:"object"`
}

// MethodResult is the success envelope. Result is null for acknowledgements.
type MethodResult struct {
	Result any `json:"result"`
}

// MethodError describes a failed method call.
type MethodError struct {
	// example: NO_MODEL
	Code string `json:"code" example:"NO_MODEL"`
	// example: No model loaded
	Message string `json:"message" example:"No model loaded"`
}

// MethodErrorResponse is the failure envelope.
type MethodErrorResponse struct {
	Error MethodError `json:"error"`
}

// ErrorResponse is a consistent JSON error payload for non-call endpoints.
type ErrorResponse struct {
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// example: 400
	Code int `json:"code" example:"400"`
}

// ModelConfig holds the optional engine overrides accepted by loadModel.
// A nil field keeps the engine default.
type ModelConfig struct {
	Temp            *float64 `json:"temp,omitempty" example:"0.7"`
	TopK            *int     `json:"topK,omitempty" example:"40"`
	TopP            *float64 `json:"topP,omitempty" example:"0.95"`
	RepeatPenalty   *float64 `json:"repeatPenalty,omitempty" example:"1.1"`
	Context         *int     `json:"context,omitempty" example:"2048"`
	NBatch          *int     `json:"nBatch,omitempty" example:"512"`
	NumberOfThreads *int     `json:"numberOfThreads,omitempty" example:"4"`
	UseMetal        *bool    `json:"useMetal,omitempty" example:"true"`
	MLock           *bool    `json:"mlock,omitempty" example:"false"`
	MMap            *bool    `json:"mmap,omitempty" example:"true"`
}

// LoadModelArgs are the arguments of loadModel.
type LoadModelArgs struct {
	// Model file path relative to the models directory.
	// example: TinyLlama.Q4_K_M.gguf
	ModelPath string `json:"modelPath" example:"TinyLlama.Q4_K_M.gguf"`
	// Engine overrides.
	Config *ModelConfig `json:"config"`
	// Optional display metadata; "name" becomes the display name.
	ModelInfo map[string]any `json:"modelInfo,omitempty"`
}

// GenerateArgs are the arguments of generateResponse.
type GenerateArgs struct {
	// example: Write a haiku about the ocean.
	Prompt *string `json:"prompt" example:"Write a haiku about the ocean."`
}
