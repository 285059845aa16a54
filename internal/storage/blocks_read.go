package storage

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/goodnatureofminers/chainmirror-backend/internal/model"
	"github.com/goodnatureofminers/chainmirror-backend/pkg/safe"
)

const blockHeaderBulkCount = 30

// resolveTerm turns a height-or-hash term into a block hash.
func (d *DB) resolveTerm(ctx context.Context, term string) (string, error) {
	if len(term) == 64 {
		return term, nil
	}
	height, err := strconv.ParseUint(term, 10, 64)
	if err != nil {
		return "", fmt.Errorf("term %q is neither hash nor height: %w", term, ErrNotFound)
	}
	return d.HashFromHeight(ctx, height)
}

// Block returns the header of the block addressed by hash or height.
func (d *DB) Block(ctx context.Context, term string) (header model.BlockHeader, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("block", err, started)
	}()

	hash, err := d.resolveTerm(ctx, term)
	if err != nil {
		return header, err
	}
	return d.blockHeaderByHash(ctx, hash)
}

// LastBlock returns the header of the chain tip.
func (d *DB) LastBlock(ctx context.Context) (header model.BlockHeader, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("last_block", err, started)
	}()

	top, err := d.topBlock(ctx)
	if err != nil {
		return header, err
	}
	return d.blockHeaderByHash(ctx, top.Hash)
}

// BlockHeaders returns up to 30 headers descending from the given height.
func (d *DB) BlockHeaders(ctx context.Context, height uint64) (headers []model.BlockHeader, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("block_headers", err, started)
	}()

	from, err := safe.Int64(height)
	if err != nil {
		return nil, fmt.Errorf("block headers height: %w", err)
	}

	const query = `
SELECT blockchain.height AS height, blockchain.utctimestamp AS utctimestamp,
       block_meta.hash AS hash, block_meta.prevHash AS prevHash,
       block_meta.baseReward AS baseReward, block_meta.difficulty AS difficulty,
       block_meta.majorVersion AS majorVersion, block_meta.minorVersion AS minorVersion,
       block_meta.nonce AS nonce, block_meta.size AS size,
       block_meta.alreadyGeneratedCoins AS alreadyGeneratedCoins,
       block_meta.alreadyGeneratedTransactions AS alreadyGeneratedTransactions,
       block_meta.reward AS reward, block_meta.sizeMedian AS sizeMedian,
       block_meta.totalFeeAmount AS totalFeeAmount,
       block_meta.transactionsCumulativeSize AS transactionsCumulativeSize,
       block_meta.transactionsCount AS transactionsCount,
       block_meta.orphan AS orphan, block_meta.penalty AS penalty
FROM blockchain
JOIN block_meta ON block_meta.hash = blockchain.hash
WHERE blockchain.height <= ?
ORDER BY blockchain.height DESC
LIMIT ?`

	rows, err := d.db.QueryxContext(ctx, d.rebind(query), from, blockHeaderBulkCount)
	if err != nil {
		return nil, fmt.Errorf("query block headers: %w", err)
	}
	scanned, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	top, err := d.topBlock(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range scanned {
		headers = append(headers, headerFromRow(r, top.Height))
	}
	return headers, nil
}

func (d *DB) blockHeaderByHash(ctx context.Context, hash string) (model.BlockHeader, error) {
	const query = `
SELECT blockchain.height AS height, blockchain.utctimestamp AS utctimestamp,
       block_meta.hash AS hash, block_meta.prevHash AS prevHash,
       block_meta.baseReward AS baseReward, block_meta.difficulty AS difficulty,
       block_meta.majorVersion AS majorVersion, block_meta.minorVersion AS minorVersion,
       block_meta.nonce AS nonce, block_meta.size AS size,
       block_meta.alreadyGeneratedCoins AS alreadyGeneratedCoins,
       block_meta.alreadyGeneratedTransactions AS alreadyGeneratedTransactions,
       block_meta.reward AS reward, block_meta.sizeMedian AS sizeMedian,
       block_meta.totalFeeAmount AS totalFeeAmount,
       block_meta.transactionsCumulativeSize AS transactionsCumulativeSize,
       block_meta.transactionsCount AS transactionsCount,
       block_meta.orphan AS orphan, block_meta.penalty AS penalty
FROM block_meta
JOIN blockchain ON blockchain.hash = block_meta.hash
WHERE block_meta.hash = ?`

	rows, err := d.db.QueryxContext(ctx, d.rebind(query), hash)
	if err != nil {
		return model.BlockHeader{}, fmt.Errorf("query block header: %w", err)
	}
	scanned, err := scanRows(rows)
	if err != nil {
		return model.BlockHeader{}, err
	}
	if len(scanned) == 0 {
		return model.BlockHeader{}, fmt.Errorf("block header %s: %w", hash, ErrNotFound)
	}

	top, err := d.topBlock(ctx)
	if err != nil {
		return model.BlockHeader{}, err
	}
	return headerFromRow(scanned[0], top.Height), nil
}

func headerFromRow(r row, topHeight uint64) model.BlockHeader {
	height := r.uint("height")
	var depth uint64
	if topHeight > height {
		depth = topHeight - height
	}
	return model.BlockHeader{
		Hash:                         r.str("hash"),
		PrevHash:                     r.str("prevHash"),
		Height:                       height,
		Timestamp:                    r.uint("utctimestamp"),
		Depth:                        depth,
		BaseReward:                   r.uint("baseReward"),
		Difficulty:                   r.uint("difficulty"),
		MajorVersion:                 uint32(r.uint("majorVersion")),
		MinorVersion:                 uint32(r.uint("minorVersion")),
		Nonce:                        r.uint("nonce"),
		Size:                         r.uint("size"),
		AlreadyGeneratedCoins:        r.uint("alreadyGeneratedCoins"),
		AlreadyGeneratedTransactions: r.uint("alreadyGeneratedTransactions"),
		Reward:                       r.uint("reward"),
		SizeMedian:                   r.uint("sizeMedian"),
		TotalFeeAmount:               r.uint("totalFeeAmount"),
		TransactionsCumulativeSize:   r.uint("transactionsCumulativeSize"),
		TransactionsCount:            r.uint("transactionsCount"),
		Orphan:                       r.flag("orphan"),
		Penalty:                      r.float("penalty"),
	}
}

// RawBlock returns the raw envelope of the block addressed by hash or
// height: the block blob plus its non-coinbase transaction blobs.
func (d *DB) RawBlock(ctx context.Context, term string) (raw model.RawBlock, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("raw_block", err, started)
	}()

	hash, err := d.resolveTerm(ctx, term)
	if err != nil {
		return raw, err
	}

	rows, err := d.db.QueryxContext(ctx, d.rebind(`SELECT data FROM blocks WHERE hash = ?`), hash)
	if err != nil {
		return raw, fmt.Errorf("query raw block: %w", err)
	}
	scanned, err := scanRows(rows)
	if err != nil {
		return raw, err
	}
	if len(scanned) == 0 {
		return raw, fmt.Errorf("block %s: %w", hash, ErrNotFound)
	}
	raw.Block = hex.EncodeToString(scanned[0].blob("data"))

	txRows, err := d.db.QueryxContext(ctx,
		d.rebind(`SELECT data FROM transactions WHERE block_hash = ? AND coinbase = ?`), hash, false)
	if err != nil {
		return raw, fmt.Errorf("query raw block transactions: %w", err)
	}
	txScanned, err := scanRows(txRows)
	if err != nil {
		return raw, err
	}
	for _, t := range txScanned {
		raw.Transactions = append(raw.Transactions, hex.EncodeToString(t.blob("data")))
	}
	return raw, nil
}

// RecentChainStats returns per-block statistics for the most recent blocks,
// newest first.
func (d *DB) RecentChainStats(ctx context.Context) (stats []model.ChainStats, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("recent_chain_stats", err, started)
	}()

	const query = `
SELECT blockchain.height AS height, blockchain.utctimestamp AS utctimestamp,
       block_meta.difficulty AS difficulty, block_meta.nonce AS nonce,
       block_meta.transactionsCount AS transactionsCount
FROM blockchain
JOIN block_meta ON block_meta.hash = blockchain.hash
ORDER BY blockchain.height DESC
LIMIT 2880`

	rows, err := d.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query chain stats: %w", err)
	}
	scanned, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	for _, r := range scanned {
		stats = append(stats, model.ChainStats{
			Height:     r.uint("height"),
			Timestamp:  r.uint("utctimestamp"),
			Difficulty: r.uint("difficulty"),
			Nonce:      r.uint("nonce"),
			Size:       r.uint("nonce"),
			TxnCount:   r.uint("transactionsCount"),
		})
	}
	return stats, nil
}
