package manager

import (
	"context"
	"fmt"
	"time"

	"llmbridge/pkg/types"
)

// GenerateResponse starts a generation session on the loaded model and
// returns its id without waiting for output. Tokens, then exactly one
// terminal event, are published on the emitter. A session already running
// is stopped and its terminal event is published before the new session's
// first token.
func (m *Manager) GenerateResponse(prompt string) (string, error) {
	m.mu.Lock()
	if m.handle == nil {
		m.mu.Unlock()
		return "", ErrNoModel()
	}
	prev := m.sess
	if prev != nil {
		prev.cancel()
	}
	s := newSession(m.handle)
	m.sess = s
	m.workers.Add(1)
	m.mu.Unlock()

	m.log.Debug().Str("session", s.id).Int("prompt_len", len(prompt)).Msg("session start")
	go m.run(s, prev, prompt)
	return s.id, nil
}

// StopGeneration cancels the current session. The session still finishes
// with a complete event.
func (m *Manager) StopGeneration() {
	m.mu.Lock()
	s := m.sess
	m.mu.Unlock()
	if s != nil {
		s.cancel()
	}
}

func (m *Manager) run(s, prev *session, prompt string) {
	defer m.workers.Done()
	defer close(s.done)
	if prev != nil {
		<-prev.done
	}

	var (
		err    error
		tokens int
	)
	if s.live() {
		err = m.generate(s, prompt, &tokens)
	}

	stopped := s.ctx.Err() != nil
	outcome := OutcomeComplete
	ev := types.CompleteEvent()
	switch {
	case err != nil && !stopped:
		outcome = OutcomeError
		ev = types.ErrorEvent(err.Error())
	case stopped:
		outcome = OutcomeStopped
		if err != nil {
			m.log.Debug().Err(err).Str("session", s.id).Msg("engine error after stop")
		}
	}
	if emitErr := m.emitter.Emit(context.Background(), ev); emitErr != nil {
		m.log.Debug().Err(emitErr).Str("session", s.id).Msg("terminal event not queued")
	}

	m.mu.Lock()
	if m.sess == s {
		m.sess = nil
	}
	m.mu.Unlock()
	s.cancel()

	elapsed := time.Since(s.started)
	generationSessionsTotal.WithLabelValues(string(outcome)).Inc()
	generationDuration.Observe(elapsed.Seconds())
	l := m.log.Info()
	if outcome == OutcomeError {
		l = m.log.Error().Err(err)
	}
	l.Str("session", s.id).Str("outcome", string(outcome)).Int("tokens", tokens).Dur("elapsed", elapsed).Msg("session end")
}

func (m *Manager) generate(s *session, prompt string, tokens *int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine panic: %v", r)
		}
	}()
	_, err = s.handle.Generate(prompt, func(tok string, _ time.Duration) bool {
		if !s.live() {
			return false
		}
		if m.emitter.Emit(s.ctx, types.TokenEvent(tok)) != nil {
			return false
		}
		*tokens++
		generatedTokensTotal.Inc()
		return s.live()
	})
	return err
}
