package manager

import (
	"github.com/rs/zerolog"

	"llmbridge/internal/engine"
	"llmbridge/internal/hoststat"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultSessionName = "llmbridge"
	defaultEventBuffer = 64
	defaultModelsDir   = "~/.llmbridge/models"
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	// Engine opens model handles. Defaults to engine.NewLlama().
	Engine engine.Engine
	// ModelsDir is the application-private directory model paths resolve in.
	ModelsDir string
	// SessionName is passed to the engine when opening a handle.
	SessionName string
	// EventBuffer bounds the emitter inbox; a full inbox back-pressures the
	// generating worker.
	EventBuffer int
	Logger      *zerolog.Logger
	// Sampler provides host-process memory/CPU readings.
	Sampler *hoststat.Sampler
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	if cfg.Engine == nil {
		cfg.Engine = engine.NewLlama()
	}
	if cfg.ModelsDir == "" {
		cfg.ModelsDir = defaultModelsDir
	}
	if cfg.SessionName == "" {
		cfg.SessionName = defaultSessionName
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	if cfg.Sampler == nil {
		cfg.Sampler = hoststat.New(nil, 0)
	}
	return &Manager{
		engine:      cfg.Engine,
		modelsDir:   cfg.ModelsDir,
		sessionName: cfg.SessionName,
		emitter:     NewEmitter(cfg.EventBuffer),
		host:        cfg.Sampler,
		log:         log.With().Str("component", "manager").Logger(),
	}
}
