package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/goodnatureofminers/chainmirror-backend/internal/model"
)

// SaveOutputGlobalIndexes writes the chain-global output index for every
// output position of the given transactions. All updates run in one
// transaction.
func (d *DB) SaveOutputGlobalIndexes(ctx context.Context, indexes []model.TransactionIndexes) (err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("save_output_global_indexes", err, started)
	}()

	if len(indexes) == 0 {
		return nil
	}

	const update = `UPDATE transaction_outputs SET globalIdx = ? WHERE hash = ? AND idx = ?`

	err = d.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, entry := range indexes {
			for idx, globalIdx := range entry.Indexes {
				if _, execErr := tx.ExecContext(ctx, tx.Rebind(update), globalIdx, entry.Hash, idx); execErr != nil {
					return fmt.Errorf("update output %s/%d: %w", entry.Hash, idx, execErr)
				}
			}
		}
		return nil
	})
	return err
}
