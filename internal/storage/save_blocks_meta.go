package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/goodnatureofminers/chainmirror-backend/internal/model"
)

// SaveBlocksMeta upserts header metadata for the given blocks. Headers are
// deduplicated by hash; each surviving header is deleted and re-inserted so
// re-ingest is idempotent. Everything runs in one transaction.
func (d *DB) SaveBlocksMeta(ctx context.Context, headers []model.BlockHeader) (err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("save_blocks_meta", err, started)
	}()

	if len(headers) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(headers))
	deduped := headers[:0:0]
	for _, h := range headers {
		if _, ok := seen[h.Hash]; ok {
			continue
		}
		seen[h.Hash] = struct{}{}
		deduped = append(deduped, h)
	}

	const del = `DELETE FROM block_meta WHERE hash = ?`
	const ins = `INSERT INTO block_meta (
		hash, prevHash, baseReward, difficulty, majorVersion, minorVersion,
		nonce, size, alreadyGeneratedCoins, alreadyGeneratedTransactions,
		reward, sizeMedian, totalFeeAmount, transactionsCumulativeSize,
		transactionsCount, orphan, penalty
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	err = d.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, h := range deduped {
			if _, execErr := tx.ExecContext(ctx, tx.Rebind(del), h.Hash); execErr != nil {
				return fmt.Errorf("delete block meta %s: %w", h.Hash, execErr)
			}
			if _, execErr := tx.ExecContext(ctx, tx.Rebind(ins),
				h.Hash, h.PrevHash, h.BaseReward, h.Difficulty, h.MajorVersion,
				h.MinorVersion, h.Nonce, h.Size, h.AlreadyGeneratedCoins,
				h.AlreadyGeneratedTransactions, h.Reward, h.SizeMedian,
				h.TotalFeeAmount, h.TransactionsCumulativeSize,
				h.TransactionsCount, h.Orphan, h.Penalty,
			); execErr != nil {
				return fmt.Errorf("insert block meta %s: %w", h.Hash, execErr)
			}
		}
		return nil
	})
	return err
}
