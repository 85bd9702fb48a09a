package manager

import (
	"context"
	"time"

	"github.com/google/uuid"

	"llmbridge/internal/engine"
)

// Outcome is how a generation session ended.
type Outcome string

const (
	OutcomeComplete Outcome = "complete"
	OutcomeStopped  Outcome = "stopped"
	OutcomeError    Outcome = "error"
)

// session is one generateResponse call from acknowledgement to its terminal
// event. ctx is the liveness token; done closes after the terminal event
// has been queued on the emitter.
type session struct {
	id      string
	handle  engine.Handle
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	started time.Time
}

func newSession(h engine.Handle) *session {
	ctx, cancel := context.WithCancel(context.Background())
	return &session{
		id:      uuid.NewString(),
		handle:  h,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		started: time.Now(),
	}
}

func (s *session) live() bool { return s.ctx.Err() == nil }
