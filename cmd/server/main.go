package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/programme-lv/dsalearn/conf"
	"github.com/programme-lv/dsalearn/content"
	"github.com/programme-lv/dsalearn/http"
	"github.com/programme-lv/dsalearn/judge"
	"github.com/programme-lv/dsalearn/logger"
)

func main() {
	cfg, err := conf.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(os.Stderr, cfg.Debug)
	slog.SetDefault(log)

	if cfg.SecretKey == conf.DefaultSecretKey && !cfg.Debug {
		log.Warn("SECRET_KEY is the development default")
	}

	store, err := loadContent(cfg.ContentDir)
	if err != nil {
		log.Error("failed to load content", "error", err, "dir", cfg.ContentDir)
		os.Exit(1)
	}

	j := judge.NewJudge(store, judge.Params{
		PythonBin:     cfg.PythonBin,
		Timeout:       cfg.CodeTimeout,
		MaxCodeLength: cfg.MaxCodeLength,
	})

	httpServer := http.NewHttpServer(store, j, http.Options{
		Debug:          cfg.Debug,
		CorsOrigins:    cfg.CorsOrigins,
		RateLimitRps:   cfg.RateLimitRps,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	address := cfg.Address()
	log.Info("starting server",
		"address", address,
		"python", cfg.PythonBin,
		"timeout", cfg.CodeTimeout,
		"problems", len(store.ListProblems()))

	if err := httpServer.Start(ctx, address); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
	log.Info("server exited")
}

func loadContent(dir string) (*content.Store, error) {
	if dir == "" {
		return content.Embedded()
	}
	return content.LoadDir(dir)
}
