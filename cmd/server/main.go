package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/me/blogfront/internal/apiclient"
	"github.com/me/blogfront/internal/config"
	"github.com/me/blogfront/internal/logging"
	"github.com/me/blogfront/internal/server"
	"github.com/me/blogfront/internal/session"
	"github.com/me/blogfront/internal/store"
)

func main() {
	cfg, err := config.Load(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json)")
	flag.StringVar(&cfg.API.BaseURL, "api-url", cfg.API.BaseURL, "Blog API base URL")
	flag.DurationVar(&cfg.API.Timeout, "api-timeout", cfg.API.Timeout, "Blog API request timeout")
	flag.StringVar(&cfg.Session.Backend, "session-backend", cfg.Session.Backend, "Session backend: sqlite, redis, file")
	flag.StringVar(&cfg.Session.DBPath, "db", cfg.Session.DBPath, "SQLite session database path")
	flag.StringVar(&cfg.Session.RedisAddr, "redis-addr", cfg.Session.RedisAddr, "Redis address for the redis backend")
	flag.IntVar(&cfg.Session.RedisDB, "redis-db", cfg.Session.RedisDB, "Redis database number")
	flag.StringVar(&cfg.Session.Dir, "session-dir", cfg.Session.Dir, "Directory for the file backend")
	flag.DurationVar(&cfg.Session.TTL, "session-ttl", cfg.Session.TTL, "Session lifetime")
	flag.BoolVar(&cfg.SecureCookies, "secure-cookies", cfg.SecureCookies, "Mark session cookies Secure (HTTPS)")
	debug := flag.Bool("debug", false, "Shorthand for --log-level=debug")

	flag.Parse()

	if *debug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the session backend.
	backend, err := store.Open(ctx, cfg.StoreOptions(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open session backend: %v\n", err)
		os.Exit(1)
	}
	defer backend.Close()
	logger.Info("session backend ready", "backend", cfg.Session.Backend)

	sessions := session.NewManager(backend, logger,
		session.WithTTL(cfg.Session.TTL),
		session.WithCleanupInterval(cfg.Session.CleanupInterval),
	)
	if err := sessions.Init(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "start sessions: %v\n", err)
		os.Exit(1)
	}
	defer sessions.Dispose()

	api := apiclient.New(cfg.API.BaseURL, logger, apiclient.WithTimeout(cfg.API.Timeout))

	srv := server.New(cfg, sessions, backend, api, logger)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", cfg.Addr, "api", cfg.API.BaseURL)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("server stopped")
}
