package manager

import (
	"sync"

	"github.com/rs/zerolog"

	"llmbridge/internal/engine"
	"llmbridge/internal/hoststat"
	"llmbridge/internal/registry"
	"llmbridge/pkg/types"
)

const noModelName = "No Model Loaded"

type Manager struct {
	mu          sync.Mutex
	handle      engine.Handle
	modelPath   string
	descriptor  map[string]any
	displayName string
	sess        *session
	// epoch is bumped whenever the handle slot is cleared so a slow load can
	// tell it was overtaken by an unload.
	epoch uint64

	// loadMu serializes LoadModel so engine loading runs outside mu.
	loadMu sync.Mutex

	engine      engine.Engine
	modelsDir   string
	sessionName string
	emitter     *Emitter
	host        *hoststat.Sampler
	log         zerolog.Logger

	workers   sync.WaitGroup
	closeOnce sync.Once
}

// New builds a Manager for modelsDir backed by eng.
func New(eng engine.Engine, modelsDir string) *Manager {
	return NewWithConfig(ManagerConfig{Engine: eng, ModelsDir: modelsDir})
}

// Events returns the emitter subscribers attach to.
func (m *Manager) Events() *Emitter { return m.emitter }

// IsModelLoaded reports whether an engine handle is live.
func (m *Manager) IsModelLoaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handle != nil
}

// GetModelDisplayName returns the descriptor name of the loaded model.
func (m *Manager) GetModelDisplayName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.displayName == "" {
		return noModelName
	}
	return m.displayName
}

// ListModels lists the model files available in the models directory.
func (m *Manager) ListModels() ([]types.Model, error) {
	return registry.LoadDir(m.modelsDir)
}

// Close unloads the model, waits for background workers and stops the
// emitter. The Manager must not be used afterwards.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() {
		m.UnloadModel()
		m.emitter.Close()
		m.workers.Wait()
	})
	return nil
}
