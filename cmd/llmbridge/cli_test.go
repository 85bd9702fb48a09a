package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolveConfig_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "llmbridge.yaml")
	require.NoError(t, os.WriteFile(p, []byte("addr: 127.0.0.1:9000\nmodels_dir: /srv/models\nevent_buffer: 8\n"), 0o644))

	o := &serveOptions{}
	cmd := newServeCmdWith(o)
	require.NoError(t, cmd.ParseFlags([]string{"--config", p, "--models-dir", "/opt/models", "--cors-origins", "http://a, http://b"}))
	cfg, err := resolveConfig(cmd, o)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", cfg.Addr)
	require.Equal(t, "/opt/models", cfg.ModelsDir)
	require.Equal(t, 8, cfg.EventBuffer)
	require.Equal(t, []string{"http://a", "http://b"}, cfg.CORSOrigins)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestResolveConfig_BadFile(t *testing.T) {
	o := &serveOptions{}
	cmd := newServeCmdWith(o)
	require.NoError(t, cmd.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "x.ini")}))
	_, err := resolveConfig(cmd, o)
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger("debug", "json", &buf)
	require.NoError(t, err)
	l.Debug().Str("k", "v").Msg("hello")
	require.Contains(t, buf.String(), `"k":"v"`)

	_, err = newLogger("loud", "json", io.Discard)
	require.Error(t, err)
	_, err = newLogger("info", "xml", io.Discard)
	require.Error(t, err)
}

func TestModelsCmd(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tiny.gguf"), make([]byte, 1<<20), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("x"), 0o644))

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"models", "--models-dir", dir})
	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "tiny.gguf")
	require.Contains(t, out.String(), "1.0 MiB")
	require.NotContains(t, out.String(), "readme.md")
}

func TestModelsCmd_ConfigFileLayering(t *testing.T) {
	fromFile := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(fromFile, "file.gguf"), []byte("x"), 0o644))
	fromFlag := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(fromFlag, "flag.gguf"), []byte("x"), 0o644))
	p := filepath.Join(t.TempDir(), "llmbridge.toml")
	require.NoError(t, os.WriteFile(p, []byte("models_dir = \""+filepath.ToSlash(fromFile)+"\"\n"), 0o644))

	run := func(args ...string) string {
		root := newRootCmd()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs(append([]string{"models"}, args...))
		require.NoError(t, root.Execute())
		return out.String()
	}
	out := run("--config", p)
	require.Contains(t, out, "file.gguf")
	require.NotContains(t, out, "flag.gguf")

	out = run("--config", p, "--models-dir", fromFlag)
	require.Contains(t, out, "flag.gguf")
	require.NotContains(t, out, "file.gguf")

	root := newRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"models", "--config", filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, root.Execute())
}

func TestVersionCmd(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	require.Equal(t, version, strings.TrimSpace(out.String()))
}

func TestRunServe_StartsAndStops(t *testing.T) {
	cfg := defaultConfig()
	cfg.Addr = "127.0.0.1:0"
	cfg.ModelsDir = t.TempDir()
	cfg.LogFormat = "json"

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan string, 1)
	errc := make(chan error, 1)
	go func() { errc <- runServe(ctx, cfg, io.Discard, ready) }()

	var addr string
	select {
	case addr = <-ready:
	case err := <-errc:
		t.Fatalf("runServe: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server not ready")
	}

	resp, err := http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get("http://" + addr + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	cancel()
	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
