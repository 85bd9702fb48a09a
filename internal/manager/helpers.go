package manager

import (
	"maps"

	"llmbridge/internal/engine"
	"llmbridge/pkg/types"
)

// applyConfig overlays every set field of cfg onto p.
func applyConfig(p engine.Params, cfg types.ModelConfig) engine.Params {
	if cfg.Temp != nil {
		p.Temperature = *cfg.Temp
	}
	if cfg.TopK != nil {
		p.TopK = *cfg.TopK
	}
	if cfg.TopP != nil {
		p.TopP = *cfg.TopP
	}
	if cfg.RepeatPenalty != nil {
		p.RepeatPenalty = *cfg.RepeatPenalty
	}
	if cfg.Context != nil {
		p.ContextLength = *cfg.Context
	}
	if cfg.NBatch != nil {
		p.BatchSize = *cfg.NBatch
	}
	if cfg.NumberOfThreads != nil {
		p.Threads = *cfg.NumberOfThreads
	}
	if cfg.UseMetal != nil {
		p.UseAccelerator = *cfg.UseMetal
	}
	if cfg.MLock != nil {
		p.MLock = *cfg.MLock
	}
	if cfg.MMap != nil {
		p.MMap = *cfg.MMap
	}
	return p
}

// descriptorName extracts the display name from a model descriptor.
func descriptorName(d map[string]any) string {
	if s, ok := d["name"].(string); ok {
		return s
	}
	return ""
}

func cloneDescriptor(d map[string]any) map[string]any {
	if d == nil {
		return nil
	}
	return maps.Clone(d)
}
