package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/chainmirror-backend/internal/clock"
	"github.com/goodnatureofminers/chainmirror-backend/internal/codec"
	"github.com/goodnatureofminers/chainmirror-backend/internal/model"
)

const (
	defaultTickInterval = 5000 * time.Millisecond
	defaultBatchSize    = 100
	minBatchSize        = 2

	headerBulkCount    = 30
	headerRetryLimit   = 5
	headerFetchWorkers = 4
	indexChunkHeights  = 11
)

var (
	// ErrDestroyed reports use of a collector after Shutdown.
	ErrDestroyed = errors.New("collector is destroyed")

	// ErrRunning reports a second Init on a running collector.
	ErrRunning = errors.New("collector is already running")
)

// Collector owns the three periodic tickers (info, pool, sync) and the
// transient batches of one sync tick. Destroyed instances cannot be
// restarted; construct a new one.
type Collector struct {
	logger  *zap.Logger
	store   Store
	node    Node
	metrics Metrics

	tickInterval     time.Duration
	defaultBatchSize uint64
	batchSize        uint64

	// backOff seeds every retry loop; replaced in tests.
	backOff func() backoff.BackOff

	mu        sync.Mutex
	running   bool
	destroyed bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// Option customizes a Collector.
type Option func(*Collector)

// WithTickInterval overrides the 5 s ticker period.
func WithTickInterval(d time.Duration) Option {
	return func(c *Collector) {
		c.tickInterval = d
	}
}

// WithBatchSize overrides the default block batch size.
func WithBatchSize(size uint64) Option {
	return func(c *Collector) {
		c.defaultBatchSize = size
		c.batchSize = size
	}
}

// New constructs a Collector over its two collaborators.
func New(store Store, node Node, metrics Metrics, logger *zap.Logger, opts ...Option) (*Collector, error) {
	if store == nil || node == nil {
		return nil, errors.New("store and node are required")
	}
	if metrics == nil {
		return nil, errors.New("collector metrics is required")
	}

	c := &Collector{
		logger:           logger.Named("collector"),
		store:            store,
		node:             node,
		metrics:          metrics,
		tickInterval:     defaultTickInterval,
		defaultBatchSize: defaultBatchSize,
		batchSize:        defaultBatchSize,
		backOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.MaxElapsedTime = 0
			return b
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Init prepares the schema, repairs consistency, bootstraps the genesis
// block if the mirror is empty, and registers the three tickers. It fails
// permanently when the genesis cannot be mirrored.
func (c *Collector) Init(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.destroyed:
		c.mu.Unlock()
		return ErrDestroyed
	case c.running:
		c.mu.Unlock()
		return ErrRunning
	}
	c.running = true
	c.mu.Unlock()

	if err := c.store.InitSchema(ctx); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	if err := c.repairConsistency(ctx); err != nil {
		return fmt.Errorf("repair consistency: %w", err)
	}
	if err := c.ensureGenesis(ctx); err != nil {
		return fmt.Errorf("bootstrap genesis: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	c.metrics.SetBatchSize(c.batchSize)

	ticks := map[string]func(context.Context){
		"info": c.infoTick,
		"pool": c.poolTick,
		"sync": c.syncTick,
	}
	for kind, handler := range ticks {
		c.wg.Add(1)
		go func(kind string, handler func(context.Context)) {
			defer c.wg.Done()
			c.logger.Info("ticker registered", zap.String("kind", kind), zap.Duration("interval", c.tickInterval))
			clock.Tick(runCtx, c.tickInterval, handler)
		}(kind, handler)
	}
	return nil
}

// Shutdown destroys the tickers, waits for an in-flight tick to finish and
// closes the storage layer.
func (c *Collector) Shutdown() error {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return ErrDestroyed
	}
	c.destroyed = true
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
	return c.store.Close()
}

// ensureGenesis mirrors block 0 when the chain is empty: raw block first,
// then output indexes, then the header, so both foreign-key chains are
// satisfied.
func (c *Collector) ensureGenesis(ctx context.Context) error {
	have, err := c.store.HaveGenesis(ctx)
	if err != nil {
		return err
	}
	if have {
		return nil
	}

	c.logger.Info("mirror is empty; fetching genesis block")

	raw, err := c.node.RawBlock(ctx, "0")
	if err != nil {
		return fmt.Errorf("fetch raw genesis: %w", err)
	}
	blk, err := codec.DecodeBlock(raw)
	if err != nil {
		return fmt.Errorf("decode genesis: %w", err)
	}
	if _, _, err = c.store.SaveRawBlocks(ctx, []model.Block{blk}); err != nil {
		return fmt.Errorf("persist genesis: %w", err)
	}

	indexes, err := c.node.Indexes(ctx, 0, 0)
	if err != nil {
		return fmt.Errorf("fetch genesis indexes: %w", err)
	}
	if err = c.store.SaveOutputGlobalIndexes(ctx, indexes); err != nil {
		return fmt.Errorf("persist genesis indexes: %w", err)
	}

	headers, err := c.node.BlockHeaders(ctx, 0)
	if err != nil {
		return fmt.Errorf("fetch genesis header: %w", err)
	}
	genesis := headers[:0:0]
	for _, h := range headers {
		if h.Hash == blk.Hash {
			genesis = append(genesis, h)
		}
	}
	if len(genesis) == 0 {
		return fmt.Errorf("upstream returned no header for genesis %s", blk.Hash)
	}
	if err = c.store.SaveBlocksMeta(ctx, genesis); err != nil {
		return fmt.Errorf("persist genesis header: %w", err)
	}
	return nil
}

// repairConsistency rewinds to the lowest inconsistent height until the
// checker passes.
func (c *Collector) repairConsistency(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ok, inconsistent, err := c.store.CheckConsistency(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		lowest, found := uint64(0), false
		for _, hash := range inconsistent {
			height, lookupErr := c.store.HeightFromHash(ctx, hash)
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

		c.logger.Warn("mirror inconsistent; rewinding",
			zap.Int("blocks", len(inconsistent)), zap.Uint64("height", lowest))
		if err := c.store.Rewind(ctx, lowest); err != nil {
			return err
		}
	}
}
