package manager

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"llmbridge/internal/engine"
	"llmbridge/internal/hoststat"
	"llmbridge/pkg/types"
)

// fakeEngine hands out fakeHandles built from its template fields.
type fakeEngine struct {
	mu      sync.Mutex
	handles []*fakeHandle

	openErr   error
	loadErr   error
	loadPanic bool
	// loadGate, when set, blocks Load until closed; loadEntered is signalled
	// first.
	loadGate    chan struct{}
	loadEntered chan struct{}

	tokens  []string
	endless bool
	genErr  error
	// genErrAfterStop returns genErr only once onToken has refused a token.
	genErrAfterStop bool
	counters        engine.Counters
	accel           *float64
}

func (e *fakeEngine) Open(modelPath, sessionName string) (engine.Handle, error) {
	if e.openErr != nil {
		return nil, e.openErr
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	h := &fakeHandle{eng: e, path: modelPath, session: sessionName, params: engine.DefaultParams()}
	e.handles = append(e.handles, h)
	if e.accel != nil {
		return &accelHandle{fakeHandle: h, pct: *e.accel}, nil
	}
	return h, nil
}

func (e *fakeEngine) last() *fakeHandle {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.handles) == 0 {
		return nil
	}
	return e.handles[len(e.handles)-1]
}

type fakeHandle struct {
	eng     *fakeEngine
	path    string
	session string

	mu          sync.Mutex
	params      engine.Params
	closed      bool
	useAfterEnd bool
	calls       int
	ctxUsed     int
}

func (h *fakeHandle) Params() engine.Params {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.params
}

func (h *fakeHandle) SetParams(p engine.Params) {
	h.mu.Lock()
	h.params = p
	h.mu.Unlock()
}

func (h *fakeHandle) Load() error {
	e := h.eng
	if e.loadEntered != nil {
		close(e.loadEntered)
	}
	if e.loadGate != nil {
		<-e.loadGate
	}
	if e.loadPanic {
		panic("boom")
	}
	return e.loadErr
}

func (h *fakeHandle) Generate(prompt string, onToken engine.TokenFunc) (string, error) {
	h.mu.Lock()
	h.calls++
	call := h.calls
	h.mu.Unlock()

	var out string
	emit := func(tok string) bool {
		h.mu.Lock()
		if h.closed {
			h.useAfterEnd = true
		}
		h.ctxUsed++
		h.mu.Unlock()
		out += tok
		return onToken(tok, time.Millisecond)
	}

	e := h.eng
	if e.endless {
		for i := 0; ; i++ {
			if !emit(fmt.Sprintf("g%d-%d ", call, i)) {
				if e.genErrAfterStop {
					return out, e.genErr
				}
				return out, nil
			}
			time.Sleep(time.Millisecond)
		}
	}
	for _, tok := range e.tokens {
		if !emit(tok) {
			return out, nil
		}
	}
	return out, e.genErr
}

func (h *fakeHandle) Counters() engine.Counters {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := h.eng.counters
	c.ContextUsed += h.ctxUsed
	return c
}

func (h *fakeHandle) Close() error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	return nil
}

func (h *fakeHandle) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

type accelHandle struct {
	*fakeHandle
	pct float64
}

func (h *accelHandle) AcceleratorUsage() (float64, bool) { return h.pct, true }

// newTestManager builds a Manager over a temp models dir holding model.gguf.
func newTestManager(t *testing.T, eng *fakeEngine) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	writeModel(t, dir, "model.gguf")
	m := NewWithConfig(ManagerConfig{
		Engine:    eng,
		ModelsDir: dir,
		Sampler:   hoststat.New(func() (hoststat.Reading, error) { return hoststat.Reading{ResidentBytes: 64 << 20}, nil }, 0),
	})
	t.Cleanup(func() { _ = m.Close() })
	return m, dir
}

func writeModel(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("GGUF"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}
	return p
}

func subscribe(m *Manager) *ChanSink {
	s := NewChanSink(1024)
	m.Events().Attach(s)
	return s
}

// collectUntilTerminal reads events until a terminal one arrives.
func collectUntilTerminal(t *testing.T, s *ChanSink, timeout time.Duration) []types.Event {
	t.Helper()
	var out []types.Event
	deadline := time.After(timeout)
	for {
		select {
		case ev := <-s.Events():
			out = append(out, ev)
			if ev.Terminal() {
				return out
			}
		case <-deadline:
			t.Fatalf("timeout waiting for terminal event; got %d events", len(out))
			return nil
		}
	}
}

// expectQuiet fails if any event arrives within d.
func expectQuiet(t *testing.T, s *ChanSink, d time.Duration) {
	t.Helper()
	select {
	case ev := <-s.Events():
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(d):
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func ptr[T any](v T) *T { return &v }

var errEngine = errors.New("engine exploded")
