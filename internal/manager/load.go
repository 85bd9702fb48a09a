package manager

import (
	"fmt"
	"strings"

	"llmbridge/internal/common/fsutil"
	"llmbridge/internal/engine"
	"llmbridge/pkg/types"
)

// LoadModel replaces the current model with the file at path (relative to
// the models directory), configured with cfg, and reports whether the engine
// loaded it. The previous handle is discarded before the new one is tried,
// so a failed load leaves no model loaded. Errors never escape: they are
// logged and reported as false.
func (m *Manager) LoadModel(path string, cfg types.ModelConfig, descriptor map[string]any) bool {
	log := m.log.With().Str("model_path", path).Logger()
	if strings.TrimSpace(path) == "" {
		log.Warn().Msg("load rejected: empty model path")
		modelLoadsTotal.WithLabelValues("rejected").Inc()
		return false
	}

	m.loadMu.Lock()
	defer m.loadMu.Unlock()

	m.mu.Lock()
	release := m.detachLocked()
	epoch := m.epoch
	m.mu.Unlock()
	release()

	resolved, err := fsutil.ResolveWithin(m.modelsDir, path)
	if err != nil {
		log.Warn().Err(err).Msg("load rejected")
		modelLoadsTotal.WithLabelValues("rejected").Inc()
		return false
	}
	if !fsutil.FileExists(resolved) {
		log.Warn().Str("resolved", resolved).Msg("model file not found")
		modelLoadsTotal.WithLabelValues("not_found").Inc()
		return false
	}

	log.Info().Str("resolved", resolved).Msg("load start")
	h, err := m.openHandle(resolved, cfg)
	if err != nil {
		log.Error().Err(err).Msg("load failed")
		modelLoadsTotal.WithLabelValues("failed").Inc()
		return false
	}

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		_ = h.Close()
		log.Warn().Msg("load superseded by unload")
		modelLoadsTotal.WithLabelValues("superseded").Inc()
		return false
	}
	m.handle = h
	m.modelPath = path
	m.descriptor = cloneDescriptor(descriptor)
	m.displayName = descriptorName(descriptor)
	m.mu.Unlock()

	modelLoaded.Set(1)
	modelLoadsTotal.WithLabelValues("ok").Inc()
	c := h.Counters()
	log.Info().Dur("load_time", c.LoadTime).Msg("load ready")
	return true
}

// openHandle opens, configures and loads a handle. A panic inside the engine
// is converted to an error and the partial handle is closed.
func (m *Manager) openHandle(resolved string, cfg types.ModelConfig) (h engine.Handle, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine panic: %v", r)
		}
		if err != nil && h != nil {
			_ = h.Close()
			h = nil
		}
	}()
	h, err = m.engine.Open(resolved, m.sessionName)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	h.SetParams(applyConfig(h.Params(), cfg))
	if err := h.Load(); err != nil {
		return h, fmt.Errorf("load: %w", err)
	}
	return h, nil
}
