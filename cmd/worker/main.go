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

	"github.com/goodnatureofminers/chainmirror-backend/internal/config"
	"github.com/goodnatureofminers/chainmirror-backend/internal/metrics"
	"github.com/goodnatureofminers/chainmirror-backend/internal/storage"
	"github.com/goodnatureofminers/chainmirror-backend/internal/worker"
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

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("worker failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	store, err := storage.Open(cfg, metrics.Storage{})
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()
	if err := store.InitSchema(ctx); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	conn, err := worker.Connect(cfg.NatsURL, logger)
	if err != nil {
		return fmt.Errorf("connect queue: %w", err)
	}
	defer conn.Close()

	w, err := worker.New(conn, store, logger)
	if err != nil {
		return err
	}
	return w.Run(ctx)
}
