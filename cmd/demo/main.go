// Package main is the demo server for the reqlog library.
//
// It answers a handful of toy routes behind basic auth so that every part
// of the access line (action, user, forwarded address, escaping) can be
// observed from a terminal.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jkindrix/reqlog"
	"github.com/jkindrix/reqlog/internal/auth"
	"github.com/jkindrix/reqlog/internal/config"
	"github.com/jkindrix/reqlog/internal/logging"
	"github.com/jkindrix/reqlog/internal/metrics"
	"github.com/jkindrix/reqlog/internal/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := logging.New(&logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Environment: cfg.Log.Environment,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting reqlog demo server",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("access_output", cfg.Access.Output),
		zap.Bool("auth", cfg.Auth.Enabled),
	)

	// Open the access-line sink
	sink, closeSink, err := openSink(cfg.Access.Output)
	if err != nil {
		logger.Fatal("failed to open access output", zap.Error(err))
	}
	defer closeSink()

	// Initialize access logging, metrics, and auth
	accessLogger := reqlog.NewLogger(sink, reqlog.WithErrorLog(logger))
	m := metrics.New()
	verifier := auth.NewVerifier(cfg.Auth.Users, logger)

	// Initialize router
	r := chi.NewRouter()

	// Global middleware (order matters: the access record must exist
	// before auth classifies it). RealIP is deliberately absent — the
	// access line already carries both the socket address and the
	// forwarding header.
	r.Use(middleware.RequestID)
	r.Use(m.Middleware)
	r.Use(accessLogger.Middleware)

	r.Get("/healthz", handleHealthz)
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.MethodNotAllowed(handleMethodNotAllowed)

	r.Group(func(r chi.Router) {
		if cfg.Auth.Enabled {
			r.Use(verifier.Middleware)
		}
		r.Get("/*", handleGet)
		r.Post("/*", handlePost)
	})

	// Create server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown completed with errors", zap.Error(err))
	}
}

// openSink resolves the configured access output into a Sink plus a cleanup
// function.
func openSink(output string) (reqlog.Sink, func(), error) {
	switch output {
	case "stderr":
		return reqlog.NewWriterSink(os.Stderr), func() {}, nil
	case "stdout":
		return reqlog.NewWriterSink(os.Stdout), func() {}, nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		return reqlog.NewWriterSink(f), func() { _ = f.Close() }, nil
	}
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func handleGet(w http.ResponseWriter, r *http.Request) {
	_ = reqlog.SetAction(r.Context(), "get")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "get from path %s\n", r.URL.Path)
}

func handlePost(w http.ResponseWriter, r *http.Request) {
	_ = reqlog.SetAction(r.Context(), "post")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("post ok\n"))
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	_ = reqlog.SetAction(r.Context(), "error")
	w.WriteHeader(http.StatusMethodNotAllowed)
}
