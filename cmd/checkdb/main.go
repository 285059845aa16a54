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

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("consistency repair failed", zap.Error(err))
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

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ok, inconsistent, err := store.CheckConsistency(ctx)
		if err != nil {
			return err
		}
		if ok {
			logger.Info("mirror is consistent")
			return nil
		}

		lowest, found := uint64(0), false
		for _, hash := range inconsistent {
			height, lookupErr := store.HeightFromHash(ctx, hash)
			if lookupErr != nil {
				continue
			}
			if !found || height < lowest {
				lowest, found = height, true
			}
		}
		if !found {
			return fmt.Errorf("%d inconsistent blocks have no height", len(inconsistent))
		}

		logger.Warn("repairing mirror",
			zap.Int("blocks", len(inconsistent)), zap.Uint64("height", lowest))
		if err := store.Rewind(ctx, lowest); err != nil {
			return err
		}
	}
}
