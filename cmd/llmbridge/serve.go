package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"llmbridge/internal/config"
	"llmbridge/internal/httpapi"
	"llmbridge/internal/manager"
)

const shutdownTimeout = 5 * time.Second

// defaultConfig holds the values used when neither the config file nor a
// flag sets a field.
func defaultConfig() config.Config {
	addr := "127.0.0.1:8080"
	if v := os.Getenv("LLMBRIDGE_ADDR"); v != "" {
		addr = v
	}
	return config.Config{
		Addr:         addr,
		ModelsDir:    "~/.llmbridge/models",
		LogLevel:     "info",
		LogFormat:    "console",
		SessionName:  "llmbridge",
		EventBuffer:  64,
		MaxBodyBytes: 1 << 20,
	}
}

type serveOptions struct {
	configPath string
	flags      config.Config
	cors       string
}

func newServeCmd() *cobra.Command { return newServeCmdWith(&serveOptions{}) }

// newServeCmdWith binds the serve flags to o.
func newServeCmdWith(o *serveOptions) *cobra.Command {
	d := defaultConfig()
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP bridge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, o)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, cmd.ErrOrStderr(), nil)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", "", "Config file (.yaml, .json or .toml)")
	f.StringVar(&o.flags.Addr, "addr", d.Addr, "HTTP listen address (defaults LLMBRIDGE_ADDR)")
	f.StringVar(&o.flags.ModelsDir, "models-dir", d.ModelsDir, "Directory model paths are resolved in")
	f.StringVar(&o.flags.LogLevel, "log-level", d.LogLevel, "Log level: debug|info|warn|error")
	f.StringVar(&o.flags.LogFormat, "log-format", d.LogFormat, "Log format: console|json")
	f.StringVar(&o.cors, "cors-origins", "", "Comma-separated allowed CORS origins (empty disables CORS)")
	f.IntVar(&o.flags.EventBuffer, "event-buffer", d.EventBuffer, "Events buffered before the engine is slowed down")
	return cmd
}

// resolveConfig layers defaults, the config file and explicitly set flags,
// in that order.
func resolveConfig(cmd *cobra.Command, o *serveOptions) (config.Config, error) {
	cfg := defaultConfig()
	if o.configPath != "" {
		fc, err := config.Load(o.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = config.Merge(cfg, fc)
	}
	var over config.Config
	changed := cmd.Flags().Changed
	if changed("addr") {
		over.Addr = o.flags.Addr
	}
	if changed("models-dir") {
		over.ModelsDir = o.flags.ModelsDir
	}
	if changed("log-level") {
		over.LogLevel = o.flags.LogLevel
	}
	if changed("log-format") {
		over.LogFormat = o.flags.LogFormat
	}
	if changed("event-buffer") {
		over.EventBuffer = o.flags.EventBuffer
	}
	if changed("cors-origins") {
		over.CORSOrigins = splitCSV(o.cors)
	}
	return config.Merge(cfg, over), nil
}

// newLogger builds the process logger. format is "console" or "json".
func newLogger(level, format string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level: %w", err)
	}
	switch strings.ToLower(format) {
	case "", "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", format)
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// runServe serves until ctx is cancelled. When ready is non-nil it receives
// the bound listener address once the server accepts connections.
func runServe(ctx context.Context, cfg config.Config, logOut io.Writer, ready chan<- string) error {
	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat, logOut)
	if err != nil {
		return err
	}
	httpapi.SetLogger(logger)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetEventSinkBuffer(cfg.EventBuffer)
	httpapi.SetCORSOptions(len(cfg.CORSOrigins) > 0, cfg.CORSOrigins, nil, nil)
	httpapi.SetBaseContext(ctx)

	mgr := manager.NewWithConfig(manager.ManagerConfig{
		ModelsDir:   cfg.ModelsDir,
		SessionName: cfg.SessionName,
		EventBuffer: cfg.EventBuffer,
		Logger:      &logger,
	})
	defer mgr.Close()

	if rep := mgr.SanityCheck(); rep.Error != "" {
		logger.Warn().Bool("engine_built", rep.EngineBuilt).Str("models_dir", rep.ModelsDir).Msg(rep.Error)
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	srv := &http.Server{
		Handler:           httpapi.NewMux(mgr),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", ln.Addr().String()).Str("models_dir", cfg.ModelsDir).Msg("llmbridge listening")
		if ready != nil {
			ready <- ln.Addr().String()
		}
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown")
			return err
		}
		logger.Info().Msg("llmbridge stopped")
		return nil
	})
	return g.Wait()
}
