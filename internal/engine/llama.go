//go:build llama

package engine

import (
	"errors"
	"strings"
	"sync"
	"time"

	llama "github.com/go-skynet/go-llama.cpp"
)

// Built reports whether this binary carries the in-process llama runtime.
const Built = true

// gpuLayersAll asks llama.cpp to offload every layer to the accelerator.
const gpuLayersAll = 999

type llamaEngine struct{}

// NewLlama returns the go-llama.cpp backed engine.
func NewLlama() Engine { return llamaEngine{} }

func (llamaEngine) Open(modelPath, sessionName string) (Handle, error) {
	if strings.TrimSpace(modelPath) == "" {
		return nil, errors.New("model path is empty")
	}
	p := DefaultParams()
	p.Threads = llama.DefaultOptions.Threads
	return &llamaHandle{path: modelPath, name: sessionName, params: p}, nil
}

// llamaHandle owns the loaded model
type llamaHandle struct {
	path string
	name string

	mu          sync.Mutex
	params      Params
	model       *llama.LLama
	predictTime time.Duration
	loadTime    time.Duration
	ctxUsed     int
}

func (h *llamaHandle) Params() Params {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.params
}

func (h *llamaHandle) SetParams(p Params) {
	h.mu.Lock()
	h.params = p
	h.mu.Unlock()
}

func (h *llamaHandle) Load() error {
	p := h.Params()
	mo := []llama.ModelOption{
		llama.SetContext(max(1, p.ContextLength)),
		llama.SetNBatch(max(1, p.BatchSize)),
		llama.SetMMap(p.MMap),
	}
	if p.MLock {
		mo = append(mo, llama.EnableMLock)
	}
	if p.UseAccelerator {
		mo = append(mo, llama.SetGPULayers(gpuLayersAll))
	}
	start := time.Now()
	m, err := llama.New(h.path, mo...)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.model = m
	h.loadTime = time.Since(start)
	h.mu.Unlock()
	return nil
}

func (h *llamaHandle) Generate(prompt string, onToken TokenFunc) (string, error) {
	h.mu.Lock()
	m := h.model
	p := h.params
	h.ctxUsed = 0
	h.mu.Unlock()
	if m == nil {
		return "", ErrNotLoaded
	}

	last := time.Now()
	m.SetTokenCallback(func(tok string) bool {
		now := time.Now()
		elapsed := now.Sub(last)
		last = now
		h.mu.Lock()
		h.predictTime = elapsed
		h.ctxUsed++
		h.mu.Unlock()
		return onToken(tok, elapsed)
	})
	defer m.SetTokenCallback(nil)
	return m.Predict(prompt, predictOptions(p)...)
}

func (h *llamaHandle) Counters() Counters {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Counters{PredictTime: h.predictTime, LoadTime: h.loadTime, ContextUsed: h.ctxUsed}
}

func (h *llamaHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.model != nil {
		h.model.Free()
		h.model = nil
	}
	return nil
}

// predictOptions converts Params into go-llama.cpp options. The token budget
// is the context window; the engine stops earlier on end-of-generation.
func predictOptions(p Params) []llama.PredictOption {
	return []llama.PredictOption{
		llama.SetTokens(max(1, p.ContextLength)),
		llama.SetThreads(max(1, p.Threads)),
		llama.SetTopK(p.TopK),
		llama.SetTopP(float32(p.TopP)),
		llama.SetTemperature(float32(p.Temperature)),
		llama.SetPenalty(float32(p.RepeatPenalty)),
	}
}
