package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/goodnatureofminers/chainmirror-backend/internal/model"
)

// SaveTransactionPool replaces the mirrored transaction pool with the given
// snapshot in one transaction.
func (d *DB) SaveTransactionPool(ctx context.Context, txns []model.Transaction) (err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("save_transaction_pool", err, started)
	}()

	err = d.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, execErr := tx.ExecContext(ctx, `DELETE FROM transaction_pool`); execErr != nil {
			return fmt.Errorf("truncate transaction pool: %w", execErr)
		}

		rows := make([][]any, 0, len(txns))
		for _, txn := range txns {
			rows = append(rows, []any{txn.Hash, txn.Fee, txn.Size(), txn.Amount, txn.Blob})
		}
		return insertChunked(ctx, tx, "transaction_pool", "(hash, fee, size, amount, data)", rows)
	})
	return err
}
