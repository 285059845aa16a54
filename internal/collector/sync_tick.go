package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/chainmirror-backend/internal/codec"
	"github.com/goodnatureofminers/chainmirror-backend/internal/model"
	"github.com/goodnatureofminers/chainmirror-backend/pkg/workerpool"
)

// syncTick pulls the next batch of raw blocks and commits them with their
// global output indexes and headers. A failure anywhere rewinds the mirror
// to the last safe height and shrinks the batch; errors never propagate
// past the tick body.
func (c *Collector) syncTick(ctx context.Context) {
	started := time.Now()
	safeHeight, err := c.runSync(ctx)
	c.metrics.ObserveTick("sync", err, started)
	if err == nil {
		c.increaseBlockBatchSize()
		return
	}

	c.logger.Warn("sync tick failed; rewinding",
		zap.Uint64("height", safeHeight), zap.Error(err))
	if rewindErr := c.store.Rewind(ctx, safeHeight); rewindErr != nil {
		c.logger.Error("rewind after failed tick errored", zap.Error(rewindErr))
	}
	c.reduceBlockBatchSize()
}

// runSync is the tick body. The returned height is the rewind target should
// anything fail after it was established.
func (c *Collector) runSync(ctx context.Context) (safeHeight uint64, err error) {
	if err = c.repairConsistency(ctx); err != nil {
		return 0, err
	}

	checkpoints, err := c.store.HashesForSync(ctx)
	if err != nil {
		return 0, err
	}
	for _, checkpoint := range checkpoints {
		if height, lookupErr := c.store.HeightFromHash(ctx, checkpoint); lookupErr == nil {
			safeHeight = height
			break
		}
	}

	resp, err := c.node.RawSync(ctx, model.RawSyncRequest{
		Checkpoints: checkpoints,
		Count:       c.batchSize,
	})
	if err != nil {
		return safeHeight, err
	}

	blocks := make([]model.Block, 0, len(resp.Blocks))
	expectedTxns := 0
	for i, raw := range resp.Blocks {
		blk, decErr := codec.DecodeBlock(raw)
		if decErr != nil {
			return safeHeight, fmt.Errorf("decode block %d: %w", i, decErr)
		}
		blocks = append(blocks, blk)
		expectedTxns += len(blk.Transactions)
	}

	heights, hashes, err := c.store.SaveRawBlocks(ctx, blocks)
	if err != nil {
		return safeHeight, err
	}
	if len(heights) == 0 {
		c.logger.Debug("nothing to sync", zap.Bool("synced", resp.Synced))
		return safeHeight, nil
	}
	minHeight, maxHeight := heights[0], heights[len(heights)-1]
	safeHeight = minHeight

	indexes, err := c.fetchIndexes(ctx, minHeight, maxHeight, expectedTxns)
	if err != nil {
		return safeHeight, err
	}
	if err = c.store.SaveOutputGlobalIndexes(ctx, indexes); err != nil {
		return safeHeight, err
	}

	persisted := make(map[string]struct{}, len(hashes))
	for _, h := range hashes {
		persisted[h] = struct{}{}
	}
	headers, err := c.fetchHeaders(ctx, minHeight, maxHeight, persisted)
	if err != nil {
		return safeHeight, err
	}
	if err = c.store.SaveBlocksMeta(ctx, headers); err != nil {
		return safeHeight, err
	}

	c.metrics.SetChainHeight(maxHeight)
	c.logger.Info("synchronized blocks",
		zap.Uint64("from", minHeight), zap.Uint64("to", maxHeight),
		zap.Int("transactions", expectedTxns))
	return safeHeight, nil
}

// fetchIndexes retrieves the global output indexes for a height range. A
// full-range call that covers every expected transaction wins; otherwise
// the range is re-fetched in chunks of 11 heights with unbounded retries,
// and a count that still mismatches fails the tick.
func (c *Collector) fetchIndexes(ctx context.Context, minHeight, maxHeight uint64, expected int) ([]model.TransactionIndexes, error) {
	indexes, err := c.node.Indexes(ctx, minHeight, maxHeight)
	if err == nil && len(indexes) == expected {
		return indexes, nil
	}
	if err != nil {
		c.logger.Warn("bulk index fetch failed; falling back to chunks", zap.Error(err))
	} else {
		c.logger.Warn("bulk index fetch incomplete; falling back to chunks",
			zap.Int("got", len(indexes)), zap.Int("expected", expected))
	}

	var all []model.TransactionIndexes
	for start := minHeight; start <= maxHeight; start += indexChunkHeights {
		end := start + indexChunkHeights - 1
		if end > maxHeight {
			end = maxHeight
		}

		chunk, retryErr := backoff.RetryWithData(func() ([]model.TransactionIndexes, error) {
			return c.node.Indexes(ctx, start, end)
		}, backoff.WithContext(c.backOff(), ctx))
		if retryErr != nil {
			return nil, fmt.Errorf("fetch indexes %d..%d: %w", start, end, retryErr)
		}
		all = append(all, chunk...)
	}

	if len(all) != expected {
		return nil, fmt.Errorf("output indexes cover %d transactions, expected %d", len(all), expected)
	}
	return all, nil
}

// fetchHeaders walks the range top-down in 30-block bulk requests (retried
// up to 5 times, then 30 sequential single fetches with unbounded retry)
// and keeps the headers belonging to the persisted hash set.
func (c *Collector) fetchHeaders(ctx context.Context, minHeight, maxHeight uint64, persisted map[string]struct{}) ([]model.BlockHeader, error) {
	var tops []uint64
	for top := maxHeight; ; {
		tops = append(tops, top)
		if top < headerBulkCount || top-headerBulkCount+1 <= minHeight {
			break
		}
		top -= headerBulkCount
	}

	fetched, err := workerpool.Map(ctx, headerFetchWorkers, tops,
		func(ctx context.Context, top uint64) ([]model.BlockHeader, error) {
			return c.fetchHeaderChunk(ctx, top)
		})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(persisted))
	var headers []model.BlockHeader
	for _, chunk := range fetched {
		for _, h := range chunk {
			if _, want := persisted[h.Hash]; !want {
				continue
			}
			if _, dup := seen[h.Hash]; dup {
				continue
			}
			seen[h.Hash] = struct{}{}
			headers = append(headers, h)
		}
	}
	return headers, nil
}

func (c *Collector) fetchHeaderChunk(ctx context.Context, top uint64) ([]model.BlockHeader, error) {
	headers, err := backoff.RetryWithData(func() ([]model.BlockHeader, error) {
		return c.node.BlockHeaders(ctx, top)
	}, backoff.WithContext(backoff.WithMaxRetries(c.backOff(), headerRetryLimit), ctx))
	if err == nil && len(headers) > 0 {
		return headers, nil
	}
	if err != nil {
		c.logger.Warn("bulk header fetch failed; fetching singles",
			zap.Uint64("top", top), zap.Error(err))
	}

	var singles []model.BlockHeader
	for i := 0; i < headerBulkCount; i++ {
		height := top - uint64(i)
		header, retryErr := backoff.RetryWithData(func() (model.BlockHeader, error) {
			return c.node.Block(ctx, fmt.Sprintf("%d", height))
		}, backoff.WithContext(c.backOff(), ctx))
		if retryErr != nil {
			return nil, fmt.Errorf("fetch header %d: %w", height, retryErr)
		}
		singles = append(singles, header)
		if height == 0 {
			break
		}
	}
	return singles, nil
}
