package e2e

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"llmbridge/internal/engine"
	"llmbridge/internal/hoststat"
	"llmbridge/internal/httpapi"
	"llmbridge/internal/manager"
)

// scriptEngine produces a fixed token script, or tokens until told to stop
// when endless is set.
type scriptEngine struct {
	mu      sync.Mutex
	tokens  []string
	endless bool
}

func (e *scriptEngine) Open(modelPath, sessionName string) (engine.Handle, error) {
	return &scriptHandle{eng: e, params: engine.DefaultParams()}, nil
}

func (e *scriptEngine) script() ([]string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.tokens...), e.endless
}

type scriptHandle struct {
	eng    *scriptEngine
	mu     sync.Mutex
	params engine.Params
	used   int
}

func (h *scriptHandle) Params() engine.Params {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.params
}

func (h *scriptHandle) SetParams(p engine.Params) {
	h.mu.Lock()
	h.params = p
	h.mu.Unlock()
}

func (h *scriptHandle) Load() error { return nil }

func (h *scriptHandle) Generate(prompt string, onToken engine.TokenFunc) (string, error) {
	tokens, endless := h.eng.script()
	var b strings.Builder
	for i := 0; endless || i < len(tokens); i++ {
		tok := "tok "
		if !endless {
			tok = tokens[i]
		}
		h.mu.Lock()
		h.used++
		h.mu.Unlock()
		b.WriteString(tok)
		if !onToken(tok, 2*time.Millisecond) {
			break
		}
		if endless {
			time.Sleep(time.Millisecond)
		}
	}
	return b.String(), nil
}

func (h *scriptHandle) Counters() engine.Counters {
	h.mu.Lock()
	defer h.mu.Unlock()
	return engine.Counters{PredictTime: 250 * time.Millisecond, LoadTime: 100 * time.Millisecond, ContextUsed: h.used}
}

func (h *scriptHandle) Close() error { return nil }

// createTempModelsDir creates a temporary directory populated with small
// model files and returns its path.
func createTempModelsDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		p := filepath.Join(dir, n)
		if err := os.WriteFile(p, []byte("GGUF"), 0o644); err != nil {
			t.Fatalf("write temp model %s: %v", p, err)
		}
	}
	return dir
}

func newServer(t *testing.T, eng engine.Engine, modelsDir string) *httptest.Server {
	t.Helper()
	mgr := manager.NewWithConfig(manager.ManagerConfig{
		Engine:    eng,
		ModelsDir: modelsDir,
		Sampler:   hoststat.New(func() (hoststat.Reading, error) { return hoststat.Reading{ResidentBytes: 32 << 20}, nil }, 0),
	})
	srv := httptest.NewServer(httpapi.NewMux(mgr))
	t.Cleanup(func() {
		srv.Close()
		_ = mgr.Close()
	})
	return srv
}

type callReply struct {
	Result any `json:"result"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func callMethod(t *testing.T, baseURL, method string, args any) (int, callReply) {
	t.Helper()
	payload := map[string]any{"method": method}
	if args != nil {
		payload["arguments"] = args
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, baseURL+"/v1/call", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	var out callReply
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
	return resp.StatusCode, out
}

// stream is an open /v1/events subscription.
type stream struct {
	resp  *http.Response
	lines chan string
}

func openStream(t *testing.T, baseURL string) *stream {
	t.Helper()
	resp, err := http.Get(baseURL + "/v1/events")
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stream status=%d", resp.StatusCode)
	}
	s := &stream{resp: resp, lines: make(chan string, 1024)}
	go func() {
		defer close(s.lines)
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			if line := sc.Text(); strings.HasPrefix(line, "data: ") {
				s.lines <- strings.TrimPrefix(line, "data: ")
			}
		}
	}()
	t.Cleanup(func() { resp.Body.Close() })
	return s
}

// untilTerminal returns the data payloads up to and including the first
// complete or error event.
func (s *stream) untilTerminal(t *testing.T) []string {
	t.Helper()
	var out []string
	timeout := time.After(3 * time.Second)
	for {
		select {
		case line, ok := <-s.lines:
			if !ok {
				t.Fatalf("stream closed after %v", out)
			}
			out = append(out, line)
			if strings.HasPrefix(line, "{") {
				return out
			}
		case <-timeout:
			t.Fatalf("no terminal event; got %v", out)
		}
	}
}

func (s *stream) expectQuiet(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case line := <-s.lines:
		t.Fatalf("unexpected event %s", line)
	case <-time.After(d):
	}
}
