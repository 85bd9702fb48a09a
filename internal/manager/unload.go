package manager

// UnloadModel cancels any generation, releases the engine handle and clears
// the model descriptor. It always succeeds.
func (m *Manager) UnloadModel() {
	m.mu.Lock()
	had := m.handle != nil
	release := m.detachLocked()
	m.mu.Unlock()
	release()
	if had {
		m.log.Info().Msg("model unloaded")
	}
}

// detachLocked clears the handle slot. The current session is cancelled
// before the handle is dropped; the handle itself is closed only after that
// session's worker has finished with it. The returned func performs the
// close and must be called without m.mu held.
func (m *Manager) detachLocked() func() {
	if m.sess != nil {
		m.sess.cancel()
	}
	h, s := m.handle, m.sess
	m.handle = nil
	m.modelPath = ""
	m.descriptor = nil
	m.displayName = ""
	m.epoch++
	modelLoaded.Set(0)
	if h == nil {
		return func() {}
	}
	if s == nil {
		return func() { m.closeHandle(h) }
	}
	m.workers.Add(1)
	return func() {
		go func() {
			defer m.workers.Done()
			<-s.done
			m.closeHandle(h)
		}()
	}
}

func (m *Manager) closeHandle(h interface{ Close() error }) {
	if err := h.Close(); err != nil {
		m.log.Warn().Err(err).Msg("close handle")
	}
}
