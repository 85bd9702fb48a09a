package manager

import (
	"sync"

	"llmbridge/pkg/types"
)

// ChanSink is a Sink backed by a buffered channel. Consumers read Events
// until Done is closed.
type ChanSink struct {
	ch     chan types.Event
	closed chan struct{}
	once   sync.Once
}

// NewChanSink returns a sink buffering up to buffer events.
func NewChanSink(buffer int) *ChanSink {
	if buffer < 0 {
		buffer = 0
	}
	return &ChanSink{ch: make(chan types.Event, buffer), closed: make(chan struct{})}
}

func (s *ChanSink) Deliver(ev types.Event) {
	select {
	case <-s.closed:
		return
	default:
	}
	select {
	case s.ch <- ev:
	case <-s.closed:
	}
}

func (s *ChanSink) Close() { s.once.Do(func() { close(s.closed) }) }

// Events yields delivered events. It is never closed; select on Done too.
func (s *ChanSink) Events() <-chan types.Event { return s.ch }

// Done is closed when the sink is replaced, detached or closed.
func (s *ChanSink) Done() <-chan struct{} { return s.closed }
