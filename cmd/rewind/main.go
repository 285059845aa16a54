package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/chainmirror-backend/internal/config"
	"github.com/goodnatureofminers/chainmirror-backend/internal/metrics"
	"github.com/goodnatureofminers/chainmirror-backend/internal/storage"
)

func main() {
	cfg := config.Config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rest, err := flags.ParseArgs(&cfg, os.Args)
	if err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "failed to parse configuration: %v\n", err)
		os.Exit(1)
	}
	if len(rest) < 2 {
		fmt.Fprintln(os.Stderr, "usage: rewind <height>")
		os.Exit(1)
	}
	height, err := strconv.ParseUint(rest[1], 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid height %q: %v\n", rest[1], err)
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(ctx, cfg, height, logger); err != nil {
		logger.Fatal("rewind failed", zap.Error(err))
	}
	logger.Info("rewind complete", zap.Uint64("height", height))
}

func run(ctx context.Context, cfg config.Config, height uint64, logger *zap.Logger) error {
	store, err := storage.Open(cfg, metrics.Storage{})
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		_ = store.Close()
	}()

	logger.Info("rewinding mirror", zap.Uint64("height", height))
	return store.Rewind(ctx, height)
}
