package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/chainmirror-backend/internal/clock"
	"github.com/goodnatureofminers/chainmirror-backend/pkg/safe"
)

// Rewind deletes the chain suffix at and above the given height. Each block
// is deleted in its own transaction; foreign-key cascades remove the
// dependent rows. A delete that fails is requeued so transient locking
// errors self-heal instead of aborting the whole rewind.
func (d *DB) Rewind(ctx context.Context, height uint64) (err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("rewind", err, started)
	}()
	return d.rewind(ctx, height)
}

func (d *DB) rewind(ctx context.Context, height uint64) error {
	from, err := safe.Int64(height)
	if err != nil {
		return fmt.Errorf("rewind height: %w", err)
	}

	rows, err := d.db.QueryxContext(ctx,
		d.rebind(`SELECT hash FROM blockchain WHERE height >= ? ORDER BY height DESC`), from)
	if err != nil {
		return fmt.Errorf("query rewind hashes: %w", err)
	}
	scanned, err := scanRows(rows)
	if err != nil {
		return err
	}

	queue := make([]string, 0, len(scanned))
	for _, r := range scanned {
		queue = append(queue, r.str("hash"))
	}

	del := d.rebind(`DELETE FROM blocks WHERE hash = ?`)
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		hash := queue[0]
		queue = queue[1:]
		if _, err := d.db.ExecContext(ctx, del, hash); err != nil {
			queue = append(queue, hash)
			if sleepErr := clock.SleepWithContext(ctx, 100*time.Millisecond); sleepErr != nil {
				return fmt.Errorf("delete block %s: %w", hash, err)
			}
		}
	}
	return nil
}

// Reset truncates the mirror: blocks, information and transaction_pool.
// Foreign-key cascades clear everything else.
func (d *DB) Reset(ctx context.Context) (err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("reset", err, started)
	}()

	for _, table := range []string{"blocks", "information", "transaction_pool"} {
		if _, err = d.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}
