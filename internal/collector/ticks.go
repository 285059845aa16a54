package collector

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/chainmirror-backend/internal/codec"
	"github.com/goodnatureofminers/chainmirror-backend/internal/model"
)

// infoTick refreshes the mirrored /info and /peers documents. Errors are
// logged and swallowed; the next tick retries.
func (c *Collector) infoTick(ctx context.Context) {
	started := time.Now()
	err := c.runInfo(ctx)
	c.metrics.ObserveTick("info", err, started)
	if err != nil {
		c.logger.Warn("info tick failed", zap.Error(err))
	}
}

func (c *Collector) runInfo(ctx context.Context) error {
	info, err := c.node.Info(ctx)
	if err != nil {
		return fmt.Errorf("fetch info: %w", err)
	}
	if err := c.store.SaveInformation(ctx, info); err != nil {
		return fmt.Errorf("persist info: %w", err)
	}

	peers, err := c.node.Peers(ctx)
	if err != nil {
		return fmt.Errorf("fetch peers: %w", err)
	}
	if err := c.store.SavePeers(ctx, peers); err != nil {
		return fmt.Errorf("persist peers: %w", err)
	}
	return nil
}

// poolTick snapshot-replaces the mirrored transaction pool. Errors are
// logged and swallowed.
func (c *Collector) poolTick(ctx context.Context) {
	started := time.Now()
	err := c.runPool(ctx)
	c.metrics.ObserveTick("pool", err, started)
	if err != nil {
		c.logger.Warn("pool tick failed", zap.Error(err))
	}
}

func (c *Collector) runPool(ctx context.Context) error {
	blobs, err := c.node.RawTransactionPool(ctx)
	if err != nil {
		return fmt.Errorf("fetch transaction pool: %w", err)
	}

	txns := make([]model.Transaction, 0, len(blobs))
	for i, blob := range blobs {
		raw, decErr := hex.DecodeString(blob)
		if decErr != nil {
			return fmt.Errorf("decode pool blob %d: %w", i, decErr)
		}
		tx, decErr := codec.DecodeTransaction(raw)
		if decErr != nil {
			return fmt.Errorf("decode pool transaction %d: %w", i, decErr)
		}
		txns = append(txns, tx)
	}

	if err := c.store.SaveTransactionPool(ctx, txns); err != nil {
		return fmt.Errorf("persist transaction pool: %w", err)
	}
	return nil
}
