//go:build !llama

package engine

// Built reports whether this binary carries the in-process llama runtime.
const Built = false

type llamaEngine struct{}

// NewLlama returns an engine whose handles refuse to load: this binary was
// built without the 'llama' tag.
func NewLlama() Engine { return llamaEngine{} }

func (llamaEngine) Open(modelPath, sessionName string) (Handle, error) {
	return &stubHandle{params: DefaultParams()}, nil
}

type stubHandle struct {
	params Params
}

func (h *stubHandle) Params() Params     { return h.params }
func (h *stubHandle) SetParams(p Params) { h.params = p }

func (h *stubHandle) Load() error {
	return ErrDependencyUnavailable("llama support not built (missing 'llama' build tag)")
}

func (h *stubHandle) Generate(prompt string, onToken TokenFunc) (string, error) {
	return "", ErrNotLoaded
}

func (h *stubHandle) Counters() Counters { return Counters{} }
func (h *stubHandle) Close() error       { return nil }
