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

// TransactionDetails is the mirrored transaction view: decoded fields plus
// the summary of the containing block.
type TransactionDetails struct {
	Transaction model.SyncTransaction `json:"tx"`
	Meta        model.PoolTransaction `json:"meta"`
	Coinbase    bool                  `json:"coinbase"`
	Block       model.SyncBlock       `json:"block"`
}

// Transaction returns the decoded transaction with its metadata and block
// summary.
func (d *DB) Transaction(ctx context.Context, hash string) (details TransactionDetails, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("transaction", err, started)
	}()

	const query = `
SELECT transactions.hash AS hash, transactions.block_hash AS block_hash,
       transactions.coinbase AS coinbase, transactions.data AS data,
       transaction_meta.fee AS fee, transaction_meta.amount AS amount,
       transaction_meta.size AS size,
       blockchain.height AS height, blockchain.utctimestamp AS utctimestamp
FROM transactions
JOIN transaction_meta ON transaction_meta.hash = transactions.hash
JOIN blockchain ON blockchain.hash = transactions.block_hash
WHERE transactions.hash = ?`

	rows, err := d.db.QueryxContext(ctx, d.rebind(query), hash)
	if err != nil {
		return details, fmt.Errorf("query transaction: %w", err)
	}
	scanned, err := scanRows(rows)
	if err != nil {
		return details, err
	}
	if len(scanned) == 0 {
		return details, fmt.Errorf("transaction %s: %w", hash, ErrNotFound)
	}

	r := scanned[0]
	tx, err := codec.DecodeTransaction(r.blob("data"))
	if err != nil {
		return details, fmt.Errorf("decode mirrored transaction: %w", err)
	}

	decoded := model.SyncTransaction{
		Hash:       tx.Hash,
		PublicKey:  tx.PublicKey,
		PaymentID:  tx.PaymentID,
		UnlockTime: tx.UnlockTime,
	}
	for _, in := range tx.Inputs {
		if key, ok := in.(model.KeyInput); ok {
			decoded.Inputs = append(decoded.Inputs, model.SyncInput{Amount: key.Amount, KeyImage: key.KeyImage})
		}
	}
	for idx, o := range tx.Outputs {
		decoded.Outputs = append(decoded.Outputs, model.SyncOutput{Index: uint64(idx), Amount: o.Amount, Key: o.Key})
	}

	details = TransactionDetails{
		Transaction: decoded,
		Meta: model.PoolTransaction{
			Hash:   r.str("hash"),
			Fee:    r.uint("fee"),
			Size:   r.uint("size"),
			Amount: r.uint("amount"),
		},
		Coinbase: r.flag("coinbase"),
		Block: model.SyncBlock{
			Hash:      r.str("block_hash"),
			Height:    r.uint("height"),
			Timestamp: r.uint("utctimestamp"),
		},
	}
	return details, nil
}

// RawTransaction returns the hex blob of a mirrored transaction.
func (d *DB) RawTransaction(ctx context.Context, hash string) (blob string, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("raw_transaction", err, started)
	}()

	rows, err := d.db.QueryxContext(ctx, d.rebind(`SELECT data FROM transactions WHERE hash = ?`), hash)
	if err != nil {
		return "", fmt.Errorf("query raw transaction: %w", err)
	}
	scanned, err := scanRows(rows)
	if err != nil {
		return "", err
	}
	if len(scanned) == 0 {
		return "", fmt.Errorf("transaction %s: %w", hash, ErrNotFound)
	}
	return hex.EncodeToString(scanned[0].blob("data")), nil
}

// TransactionsStatus partitions the given hashes by where the mirror knows
// them: pool, block, or nowhere.
func (d *DB) TransactionsStatus(ctx context.Context, hashes []string) (status model.TransactionsStatus, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("transactions_status", err, started)
	}()

	if len(hashes) == 0 {
		return status, nil
	}

	inPool, err := d.hashesPresent(ctx, `SELECT hash FROM transaction_pool WHERE hash IN (?)`, hashes)
	if err != nil {
		return status, err
	}
	inBlock, err := d.hashesPresent(ctx, `SELECT hash FROM transactions WHERE hash IN (?)`, hashes)
	if err != nil {
		return status, err
	}

	for _, h := range hashes {
		switch {
		case inPool[h]:
			status.InPool = append(status.InPool, h)
		case inBlock[h]:
			status.InBlock = append(status.InBlock, h)
		default:
			status.NotFound = append(status.NotFound, h)
		}
	}
	return status, nil
}

func (d *DB) hashesPresent(ctx context.Context, query string, hashes []string) (map[string]bool, error) {
	q, args, err := sqlx.In(query, hashes)
	if err != nil {
		return nil, fmt.Errorf("build hash lookup: %w", err)
	}
	rows, err := d.db.QueryxContext(ctx, d.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("query hash lookup: %w", err)
	}
	scanned, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(scanned))
	for _, r := range scanned {
		present[r.str("hash")] = true
	}
	return present, nil
}
