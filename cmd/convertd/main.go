package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/docparse/convertd/constants"
	"github.com/docparse/convertd/internal/common"
	"github.com/docparse/convertd/internal/emailcheck"
	"github.com/docparse/convertd/internal/extract"
	"github.com/docparse/convertd/internal/pipeline"
	"github.com/docparse/convertd/internal/server"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	cfg := common.LoadConfig()
	if cfg.Convert.PolicyFile != "" {
		policy, err := common.LoadPolicy(cfg.Convert.PolicyFile)
		if err != nil {
			log.Error("policy load failed", "file", cfg.Convert.PolicyFile, "error", err)
			os.Exit(1)
		}
		policy.Apply(cfg)
		log.Info("policy applied", "file", cfg.Convert.PolicyFile)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	byName := map[string]extract.Strategy{
		constants.StrategyStructured: extract.NewStructured(log),
		constants.StrategyHeuristic:  extract.NewHeuristic(cfg.Convert.TempDir, log),
		constants.StrategyTextLayer:  extract.NewTextLayer(log),
	}
	var order []extract.Strategy
	seen := make(map[string]struct{})
	for _, name := range cfg.Convert.StrategyOrder {
		canonical, _ := constants.CanonicalStrategy(name)
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		order = append(order, byName[canonical])
	}

	converter := pipeline.NewConverter(order, log)
	emails := emailcheck.NewValidator(cfg.Email.DisposableDomains, nil, cfg.Email.MXTimeout, log)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.New(cfg, converter, emails, log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http serving", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "error", err)
	}
}
