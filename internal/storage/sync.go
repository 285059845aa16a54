package storage

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/goodnatureofminers/chainmirror-backend/internal/codec"
	"github.com/goodnatureofminers/chainmirror-backend/internal/model"
)

const defaultSyncCount = 100

// SyncHeight computes the resume point for a checkpointed pull: the maximum
// of one past the newest matching checkpoint, one past the newest block at
// or before the timestamp (when given), and the supplied height. With no
// match at all the chain resumes at 0.
func (d *DB) SyncHeight(ctx context.Context, checkpoints []string, height, timestamp uint64) (start uint64, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("sync_height", err, started)
	}()

	start = height

	if len(checkpoints) > 0 {
		query, args, inErr := sqlx.In(`SELECT MAX(height) AS height FROM blockchain WHERE hash IN (?)`, checkpoints)
		if inErr != nil {
			return 0, fmt.Errorf("build checkpoint match query: %w", inErr)
		}
		rows, qErr := d.db.QueryxContext(ctx, d.rebind(query), args...)
		if qErr != nil {
			return 0, fmt.Errorf("query checkpoint match: %w", qErr)
		}
		scanned, sErr := scanRows(rows)
		if sErr != nil {
			return 0, sErr
		}
		if len(scanned) > 0 {
			if h, ok := scanned[0].uintOK("height"); ok && h+1 > start {
				start = h + 1
			}
		}
	}

	if timestamp > 0 {
		rows, qErr := d.db.QueryxContext(ctx,
			d.rebind(`SELECT MAX(height) AS height FROM blockchain WHERE utctimestamp <= ?`), timestamp)
		if qErr != nil {
			return 0, fmt.Errorf("query timestamp match: %w", qErr)
		}
		scanned, sErr := scanRows(rows)
		if sErr != nil {
			return 0, sErr
		}
		if len(scanned) > 0 {
			if h, ok := scanned[0].uintOK("height"); ok && h+1 > start {
				start = h + 1
			}
		}
	}

	return start, nil
}

// RawSync serves the checkpointed bulk pull out of the mirror. Synced is
// reported exactly when no blocks qualify, with the chain-tip summary
// attached in that case.
func (d *DB) RawSync(ctx context.Context, req model.RawSyncRequest) (resp model.RawSyncResponse, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("raw_sync", err, started)
	}()

	start, err := d.SyncHeight(ctx, req.Checkpoints, req.Height, req.Timestamp)
	if err != nil {
		return resp, err
	}

	count := req.Count
	if count == 0 {
		count = defaultSyncCount
	}

	query := `
SELECT blockchain.height AS height, blocks.hash AS hash, blocks.data AS data
FROM blockchain
JOIN blocks ON blocks.hash = blockchain.hash`
	if req.SkipCoinbase {
		query += `
JOIN block_meta ON block_meta.hash = blocks.hash
WHERE blockchain.height >= ? AND block_meta.transactionsCount > 1`
	} else {
		query += `
WHERE blockchain.height >= ?`
	}
	query += `
ORDER BY blockchain.height ASC
LIMIT ?`

	rows, err := d.db.QueryxContext(ctx, d.rebind(query), start, count)
	if err != nil {
		return resp, fmt.Errorf("query raw sync blocks: %w", err)
	}
	scanned, err := scanRows(rows)
	if err != nil {
		return resp, err
	}

	for _, r := range scanned {
		raw := model.RawBlock{Block: hex.EncodeToString(r.blob("data"))}
		txRows, txErr := d.db.QueryxContext(ctx,
			d.rebind(`SELECT data FROM transactions WHERE block_hash = ? AND coinbase = ?`), r.str("hash"), false)
		if txErr != nil {
			return resp, fmt.Errorf("query raw sync transactions: %w", txErr)
		}
		txScanned, txErr := scanRows(txRows)
		if txErr != nil {
			return resp, txErr
		}
		for _, t := range txScanned {
			raw.Transactions = append(raw.Transactions, hex.EncodeToString(t.blob("data")))
		}
		resp.Blocks = append(resp.Blocks, raw)
	}

	if len(resp.Blocks) == 0 {
		resp.Synced = true
		if top, topErr := d.topBlock(ctx); topErr == nil {
			resp.TopBlock = &top
		}
	}
	return resp, nil
}

// Sync is the decoded form of RawSync.
func (d *DB) Sync(ctx context.Context, req model.RawSyncRequest) (resp model.SyncResponse, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("sync", err, started)
	}()

	raw, err := d.RawSync(ctx, req)
	if err != nil {
		return resp, err
	}
	resp.Synced = raw.Synced
	resp.TopBlock = raw.TopBlock

	for _, rawBlock := range raw.Blocks {
		blk, decErr := codec.DecodeBlock(rawBlock)
		if decErr != nil {
			return resp, fmt.Errorf("decode mirrored block: %w", decErr)
		}
		resp.Blocks = append(resp.Blocks, decodedSyncBlock(blk))
	}
	return resp, nil
}

func decodedSyncBlock(blk model.Block) model.SyncBlock {
	out := model.SyncBlock{
		Hash:      blk.Hash,
		Height:    blk.Height,
		Timestamp: blk.Timestamp,
	}
	for _, tx := range blk.Transactions {
		decoded := model.SyncTransaction{
			Hash:       tx.Hash,
			PublicKey:  tx.PublicKey,
			PaymentID:  tx.PaymentID,
			UnlockTime: tx.UnlockTime,
		}
		for _, in := range tx.Inputs {
			if key, ok := in.(model.KeyInput); ok {
				decoded.Inputs = append(decoded.Inputs, model.SyncInput{
					Amount:   key.Amount,
					KeyImage: key.KeyImage,
				})
			}
		}
		for idx, o := range tx.Outputs {
			decoded.Outputs = append(decoded.Outputs, model.SyncOutput{
				Index:  uint64(idx),
				Amount: o.Amount,
				Key:    o.Key,
			})
		}
		out.Transactions = append(out.Transactions, decoded)
	}
	return out
}
