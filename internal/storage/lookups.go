package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/chainmirror-backend/internal/model"
)

// HeightFromHash resolves a block hash to its height.
func (d *DB) HeightFromHash(ctx context.Context, hash string) (height uint64, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("height_from_hash", err, started)
	}()

	rows, err := d.db.QueryxContext(ctx,
		d.rebind(`SELECT height FROM blockchain WHERE hash = ?`), hash)
	if err != nil {
		return 0, fmt.Errorf("query height from hash: %w", err)
	}
	scanned, err := scanRows(rows)
	if err != nil {
		return 0, err
	}
	if len(scanned) == 0 {
		return 0, fmt.Errorf("block %s: %w", hash, ErrNotFound)
	}
	return scanned[0].uint("height"), nil
}

// HashFromHeight resolves a height to its block hash.
func (d *DB) HashFromHeight(ctx context.Context, height uint64) (hash string, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("hash_from_height", err, started)
	}()

	rows, err := d.db.QueryxContext(ctx,
		d.rebind(`SELECT hash FROM blockchain WHERE height = ?`), height)
	if err != nil {
		return "", fmt.Errorf("query hash from height: %w", err)
	}
	scanned, err := scanRows(rows)
	if err != nil {
		return "", err
	}
	if len(scanned) == 0 {
		return "", fmt.Errorf("height %d: %w", height, ErrNotFound)
	}
	return scanned[0].str("hash"), nil
}

// HaveGenesis reports whether height 0 is mirrored.
func (d *DB) HaveGenesis(ctx context.Context) (have bool, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("have_genesis", err, started)
	}()

	_, err = d.HashFromHeight(ctx, 0)
	switch {
	case err == nil:
		return true, nil
	case isNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

// GenesisHash returns the hash at height 0.
func (d *DB) GenesisHash(ctx context.Context) (string, error) {
	return d.HashFromHeight(ctx, 0)
}

// TopBlock returns the hash and height of the chain tip.
func (d *DB) TopBlock(ctx context.Context) (top model.TopBlock, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("top_block", err, started)
	}()
	return d.topBlock(ctx)
}

func (d *DB) topBlock(ctx context.Context) (model.TopBlock, error) {
	const query = `
SELECT height, hash
FROM blockchain
ORDER BY height DESC
LIMIT 1`

	rows, err := d.db.QueryxContext(ctx, query)
	if err != nil {
		return model.TopBlock{}, fmt.Errorf("query top block: %w", err)
	}
	scanned, err := scanRows(rows)
	if err != nil {
		return model.TopBlock{}, err
	}
	if len(scanned) == 0 {
		return model.TopBlock{}, fmt.Errorf("top block: %w", ErrNotFound)
	}
	return model.TopBlock{
		Hash:   scanned[0].str("hash"),
		Height: scanned[0].uint("height"),
	}, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
