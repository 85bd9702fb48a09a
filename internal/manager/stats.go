package manager

import "llmbridge/internal/engine"

// GetModelStats describes the loaded model: the descriptor supplied at load
// time, overlaid with live engine fields. Live fields win over descriptor
// fields of the same name.
func (m *Manager) GetModelStats() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handle == nil {
		return map[string]any{
			"loaded":     false,
			"generating": false,
			"model_name": noModelName,
		}
	}
	name := m.displayName
	if name == "" {
		name = "Unknown"
	}
	out := map[string]any{
		"loaded":     true,
		"generating": m.sess != nil && m.sess.live(),
		"model_name": name,
	}
	for k, v := range m.descriptor {
		out[k] = v
	}
	p := m.handle.Params()
	c := m.handle.Counters()
	out["context_used"] = c.ContextUsed
	out["context_length"] = p.ContextLength
	out["temperature"] = p.Temperature
	out["top_p"] = p.TopP
	out["top_k"] = p.TopK
	out["repeat_penalty"] = p.RepeatPenalty
	return out
}

// Performance metric keys.
const (
	MetricTokensPerSecond = "tokens_per_second"
	MetricMemoryMB        = "memory_usage_mb"
	MetricCPUPercent      = "cpu_usage_percent"
	MetricGPUPercent      = "gpu_usage_percent"
	MetricPredictTimeMS   = "predict_time_ms"
	MetricLoadTimeMS      = "load_time_ms"
)

// GetPerformanceMetrics reports engine timings and host-process usage.
// Every key is present; all are 0 when no model is loaded.
func (m *Manager) GetPerformanceMetrics() map[string]float64 {
	out := map[string]float64{
		MetricTokensPerSecond: 0,
		MetricMemoryMB:        0,
		MetricCPUPercent:      0,
		MetricGPUPercent:      0,
		MetricPredictTimeMS:   0,
		MetricLoadTimeMS:      0,
	}
	m.mu.Lock()
	h := m.handle
	m.mu.Unlock()
	if h == nil {
		return out
	}

	c := h.Counters()
	if secs := c.PredictTime.Seconds(); secs > 0 {
		out[MetricTokensPerSecond] = 1 / secs
	}
	out[MetricPredictTimeMS] = float64(c.PredictTime.Microseconds()) / 1000
	out[MetricLoadTimeMS] = float64(c.LoadTime.Microseconds()) / 1000

	hs := m.host.Sample()
	out[MetricMemoryMB] = hs.MemoryMB
	out[MetricCPUPercent] = hs.CPUPercent

	if h.Params().UseAccelerator {
		if r, ok := h.(engine.AcceleratorReporter); ok {
			if v, ok := r.AcceleratorUsage(); ok {
				out[MetricGPUPercent] = v
			}
		}
	}
	return out
}
