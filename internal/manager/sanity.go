package manager

import (
	"llmbridge/internal/common/fsutil"
	"llmbridge/internal/engine"
)

// SanityReport describes runtime checks for external dependencies.
type SanityReport struct {
	EngineBuilt    bool   `json:"engine_built"`
	ModelsDir      string `json:"models_dir"`
	ModelsDirFound bool   `json:"models_dir_found"`
	Error          string `json:"error,omitempty"`
}

// SanityCheck reports whether the inference engine was compiled in and the
// models directory exists. It does not mutate state.
func (m *Manager) SanityCheck() SanityReport {
	r := SanityReport{EngineBuilt: engine.Built, ModelsDir: m.modelsDir}
	dir, err := fsutil.ExpandHome(m.modelsDir)
	if err == nil {
		r.ModelsDir = dir
		r.ModelsDirFound = fsutil.PathExists(dir)
	}
	switch {
	case err != nil:
		r.Error = err.Error()
	case !r.EngineBuilt:
		r.Error = "inference engine not compiled in (build with -tags=llama)"
	case !r.ModelsDirFound:
		r.Error = "models directory not found"
	}
	return r
}
