package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/chainmirror-backend/internal/api"
	"github.com/goodnatureofminers/chainmirror-backend/internal/collector"
	"github.com/goodnatureofminers/chainmirror-backend/internal/config"
	"github.com/goodnatureofminers/chainmirror-backend/internal/metrics"
	"github.com/goodnatureofminers/chainmirror-backend/internal/noded"
	"github.com/goodnatureofminers/chainmirror-backend/internal/storage"
)

func main() {
	cfg := config.Config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "failed to parse configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	defer func() {
		_ = logger.Sync()
	}()

	if !cfg.Production() {
		logger.Warn("not running in production mode", zap.String("env", cfg.NodeEnv))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("daemon failed", zap.Error(err))
	}
}

func newLogger(cfg config.Config) *zap.Logger {
	var logger *zap.Logger
	var err error
	if cfg.Production() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	return logger
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	store, err := storage.Open(cfg, metrics.Storage{})
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	node, err := noded.NewClient(cfg.NodeURL(), metrics.NodeRPC{})
	if err != nil {
		return fmt.Errorf("init upstream client: %w", err)
	}
	logger.Info("using upstream daemon", zap.String("url", cfg.NodeURL()))

	coll, err := collector.New(store, node, metrics.Collector{}, logger)
	if err != nil {
		return err
	}
	if err := coll.Init(ctx); err != nil {
		return fmt.Errorf("start collector: %w", err)
	}

	server := api.NewServer(store, cfg.FeeAddress, cfg.FeeAmount, logger)
	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("api shutdown failed", zap.Error(err))
		}
		if err := coll.Shutdown(); err != nil {
			logger.Error("collector shutdown failed", zap.Error(err))
		}
	}()

	return server.Start(cfg.APIAddr)
}
