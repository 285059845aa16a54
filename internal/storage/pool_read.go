package storage

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/goodnatureofminers/chainmirror-backend/internal/model"
)

// TransactionPool returns the mirrored pool snapshot.
func (d *DB) TransactionPool(ctx context.Context) (pool []model.PoolTransaction, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("transaction_pool", err, started)
	}()

	rows, err := d.db.QueryxContext(ctx, `SELECT hash, fee, size, amount FROM transaction_pool`)
	if err != nil {
		return nil, fmt.Errorf("query transaction pool: %w", err)
	}
	scanned, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	for _, r := range scanned {
		pool = append(pool, model.PoolTransaction{
			Hash:   r.str("hash"),
			Fee:    r.uint("fee"),
			Size:   r.uint("size"),
			Amount: r.uint("amount"),
		})
	}
	return pool, nil
}

// RawTransactionPool returns the raw blobs of the mirrored pool snapshot.
func (d *DB) RawTransactionPool(ctx context.Context) (blobs []string, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("raw_transaction_pool", err, started)
	}()

	rows, err := d.db.QueryxContext(ctx, `SELECT data FROM transaction_pool`)
	if err != nil {
		return nil, fmt.Errorf("query raw transaction pool: %w", err)
	}
	scanned, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	for _, r := range scanned {
		blobs = append(blobs, hex.EncodeToString(r.blob("data")))
	}
	return blobs, nil
}

// TransactionPoolChanges diffs the mirrored pool against a caller-known
// hash list and reports whether the caller's tail block is still the tip.
func (d *DB) TransactionPoolChanges(ctx context.Context, lastKnownBlock string, known []string) (changes model.PoolChanges, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("transaction_pool_changes", err, started)
	}()

	pool, err := d.TransactionPool(ctx)
	if err != nil {
		return changes, err
	}

	knownSet := make(map[string]struct{}, len(known))
	for _, h := range known {
		knownSet[h] = struct{}{}
	}
	poolSet := make(map[string]struct{}, len(pool))
	for _, tx := range pool {
		poolSet[tx.Hash] = struct{}{}
		if _, ok := knownSet[tx.Hash]; !ok {
			changes.Added = append(changes.Added, tx)
		}
	}
	for _, h := range known {
		if _, ok := poolSet[h]; !ok {
			changes.Deleted = append(changes.Deleted, h)
		}
	}

	top, err := d.topBlock(ctx)
	if err != nil {
		if isNotFound(err) {
			return changes, nil
		}
		return changes, err
	}
	changes.Synced = top.Hash == lastKnownBlock
	return changes, nil
}
