package main

import (
	"context"
	"errors"
	_ "expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nulzo/shem-api/internal/config"
	"github.com/nulzo/shem-api/internal/platform/logger"
	"github.com/nulzo/shem-api/internal/platform/otel"
	"github.com/nulzo/shem-api/internal/relay"
	"github.com/nulzo/shem-api/internal/server"
	"github.com/nulzo/shem-api/internal/version"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	// Import adapters to trigger init() registration
	_ "github.com/nulzo/shem-api/internal/llm/google"
	_ "github.com/nulzo/shem-api/internal/llm/openai"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "shem-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format

	log, err := logger.Initialize(logCfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		shutdown, err := otel.InitTracer(ctx, cfg.Tracing.ServiceName, log, os.Stdout)
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				log.Error("Tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	if cfg.Updates.Enabled {
		go func() {
			uctx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			version.CheckForUpdates(uctx, http.DefaultClient, cfg.Updates.Repository, log)
		}()
	}

	providers := relay.BootstrapProviders(cfg.Providers, cfg.Relay.Priority, log)
	svc := relay.New(log, providers, config.NewEnvCredentials(cfg.Providers),
		relay.WithAttemptTimeout(cfg.Relay.AttemptTimeout),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           server.New(cfg, log, svc).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.Server.DebugAddr != "" {
		go func() {
			log.Info("Debug server listening", zap.String("addr", cfg.Server.DebugAddr))
			if err := http.ListenAndServe(cfg.Server.DebugAddr, http.DefaultServeMux); err != nil {
				log.Warn("Debug server stopped", zap.Error(err))
			}
		}()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting SHEM API",
			zap.String("port", cfg.Server.Port),
			zap.String("env", cfg.Server.Env),
			zap.String("version", version.AppVersion),
			zap.Any("providers", svc.Providers()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		log.Info("Shutting down server")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
