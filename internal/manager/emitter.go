package manager

import (
	"context"
	"errors"
	"sync"

	"llmbridge/pkg/types"
)

// ErrEmitterClosed is returned by Emit after Close.
var ErrEmitterClosed = errors.New("emitter closed")

// Sink receives events from the Emitter. Deliver may block to apply
// backpressure but must return once Close has been called. Close must be
// idempotent and safe to call from any goroutine.
type Sink interface {
	Deliver(types.Event)
	Close()
}

type opKind int

const (
	opAttach opKind = iota
	opDetach
	opEmit
)

type emitOp struct {
	kind opKind
	sink Sink
	ev   types.Event
}

// Emitter relays events to at most one subscriber. A single goroutine owns
// delivery; Attach, Detach and Emit are queued on a bounded inbox in call
// order, so an attach is observed between the events emitted before and
// after it.
type Emitter struct {
	inbox chan emitOp
	quit  chan struct{}
	done  chan struct{}
	once  sync.Once

	mu  sync.Mutex
	cur Sink
}

// NewEmitter starts the delivery goroutine. buffer bounds the inbox.
func NewEmitter(buffer int) *Emitter {
	if buffer <= 0 {
		buffer = defaultEventBuffer
	}
	e := &Emitter{
		inbox: make(chan emitOp, buffer),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go e.loop()
	return e
}

// Attach makes s the sole subscriber; a previous subscriber is closed and
// receives nothing further.
func (e *Emitter) Attach(s Sink) {
	if s == nil {
		return
	}
	if !e.post(context.Background(), emitOp{kind: opAttach, sink: s}) {
		s.Close()
	}
}

// Detach removes s if it is still the subscriber. A nil s removes whichever
// subscriber is attached. Events emitted afterwards are dropped.
func (e *Emitter) Detach(s Sink) {
	e.post(context.Background(), emitOp{kind: opDetach, sink: s})
}

// Emit queues ev for delivery. It blocks while the inbox is full and gives
// up when ctx is done or the emitter is closed.
func (e *Emitter) Emit(ctx context.Context, ev types.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.closed() {
		return ErrEmitterClosed
	}
	select {
	case e.inbox <- emitOp{kind: opEmit, ev: ev}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.quit:
		return ErrEmitterClosed
	}
}

// Close stops delivery and closes the current subscriber. Pending events
// are discarded.
func (e *Emitter) Close() {
	e.once.Do(func() {
		close(e.quit)
		e.mu.Lock()
		if e.cur != nil {
			e.cur.Close()
			e.cur = nil
		}
		e.mu.Unlock()
		<-e.done
		for {
			select {
			case op := <-e.inbox:
				if op.kind == opAttach {
					op.sink.Close()
				}
			default:
				return
			}
		}
	})
}

func (e *Emitter) closed() bool {
	select {
	case <-e.quit:
		return true
	default:
		return false
	}
}

func (e *Emitter) post(ctx context.Context, op emitOp) bool {
	if e.closed() {
		return false
	}
	select {
	case e.inbox <- op:
		return true
	case <-ctx.Done():
		return false
	case <-e.quit:
		return false
	}
}

func (e *Emitter) loop() {
	defer close(e.done)
	for {
		select {
		case <-e.quit:
			return
		case op := <-e.inbox:
			e.apply(op)
		}
	}
}

func (e *Emitter) apply(op emitOp) {
	if e.closed() {
		if op.kind == opAttach {
			op.sink.Close()
		}
		return
	}
	switch op.kind {
	case opAttach:
		e.mu.Lock()
		prev := e.cur
		e.cur = op.sink
		e.mu.Unlock()
		if prev != nil && prev != op.sink {
			prev.Close()
		}
	case opDetach:
		e.mu.Lock()
		prev := e.cur
		if prev != nil && (op.sink == nil || op.sink == prev) {
			e.cur = nil
		} else {
			prev = nil
		}
		e.mu.Unlock()
		if prev != nil {
			prev.Close()
		}
	case opEmit:
		e.mu.Lock()
		s := e.cur
		e.mu.Unlock()
		if s == nil {
			eventsDroppedTotal.Inc()
			return
		}
		s.Deliver(op.ev)
	}
}
