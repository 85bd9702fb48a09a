// Package engine defines the contract between the session controller and an
// on-device inference engine, and ships the go-llama.cpp implementation.
//
// The in-process llama adapter is compiled with `-tags=llama` (CGO, links
// libllama from ./bin). Without the tag a stub is compiled whose Load fails
// with a dependency-unavailable error, keeping default builds CGO-free.
package engine

import "time"

// TokenFunc receives each generated token and the time spent producing it.
// Returning false asks the engine to stop after this token.
type TokenFunc func(token string, elapsed time.Duration) bool

// Engine constructs handles for model files.
type Engine interface {
	// Open creates an unloaded handle for modelPath. Parameters may be changed
	// with SetParams until Load is called.
	Open(modelPath, sessionName string) (Handle, error)
}

// Handle is one model instance inside the engine.
type Handle interface {
	Params() Params
	SetParams(Params)
	// Load reads the model into memory using the current parameters.
	Load() error
	// Generate runs the prompt and calls onToken for every produced token
	// until the engine finishes or onToken returns false. It returns the
	// full generated text.
	Generate(prompt string, onToken TokenFunc) (string, error)
	Counters() Counters
	Close() error
}

// AcceleratorReporter is implemented by handles able to estimate how busy
// the accelerator is, as a percentage.
type AcceleratorReporter interface {
	AcceleratorUsage() (percent float64, ok bool)
}

// Params are the scalar engine settings applied before Load.
type Params struct {
	Temperature    float64
	TopK           int
	TopP           float64
	RepeatPenalty  float64
	ContextLength  int
	BatchSize      int
	Threads        int
	UseAccelerator bool
	MLock          bool
	MMap           bool
}

// DefaultParams mirrors llama.cpp's defaults.
func DefaultParams() Params {
	return Params{
		Temperature:   0.8,
		TopK:          40,
		TopP:          0.95,
		RepeatPenalty: 1.1,
		ContextLength: 512,
		BatchSize:     512,
		Threads:       4,
		MMap:          true,
	}
}

// Counters are read-only timing and usage figures of a handle.
type Counters struct {
	// PredictTime is the time spent on the most recent token.
	PredictTime time.Duration
	LoadTime    time.Duration
	ContextUsed int
}
