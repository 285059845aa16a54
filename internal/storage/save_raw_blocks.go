package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/goodnatureofminers/chainmirror-backend/internal/model"
)

type blockRows struct {
	blocks     [][]any
	blockchain [][]any
	txns       [][]any
	txnMeta    [][]any
	inputs     [][]any
	outputs    [][]any
	paymentIDs [][]any
}

func buildBlockRows(blocks []model.Block) blockRows {
	var r blockRows
	for _, blk := range blocks {
		r.blocks = append(r.blocks, []any{blk.Hash, blk.Blob})
		r.blockchain = append(r.blockchain, []any{blk.Height, blk.Hash, blk.Timestamp})
		for _, tx := range blk.Transactions {
			r.txns = append(r.txns, []any{tx.Hash, blk.Hash, tx.Coinbase, tx.Blob})
			r.txnMeta = append(r.txnMeta, []any{tx.Hash, tx.Fee, tx.Amount, tx.Size()})
			for _, in := range tx.Inputs {
				if key, ok := in.(model.KeyInput); ok {
					r.inputs = append(r.inputs, []any{tx.Hash, key.KeyImage})
				}
			}
			for idx, out := range tx.Outputs {
				r.outputs = append(r.outputs, []any{tx.Hash, idx, out.Amount, out.Key})
			}
			if tx.PaymentID != "" {
				r.paymentIDs = append(r.paymentIDs, []any{tx.Hash, tx.PaymentID})
			}
		}
	}
	return r
}

// SaveRawBlocks persists an ordered list of decoded raw blocks. The chain is
// first rewound to the lowest height in the batch so re-ingesting an
// overlapping range is idempotent, then every row group is inserted in one
// transaction. Returned heights are sorted ascending.
func (d *DB) SaveRawBlocks(ctx context.Context, blocks []model.Block) (heights []uint64, hashes []string, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("save_raw_blocks", err, started)
	}()

	if len(blocks) == 0 {
		return nil, nil, nil
	}

	lowest := blocks[0].Height
	for _, blk := range blocks {
		if blk.Height < lowest {
			lowest = blk.Height
		}
		heights = append(heights, blk.Height)
		hashes = append(hashes, blk.Hash)
	}
	sort.Slice(heights, func(i, j int) bool { return heights[i] < heights[j] })

	if err = d.rewind(ctx, lowest); err != nil {
		return nil, nil, fmt.Errorf("rewind to %d: %w", lowest, err)
	}

	rows := buildBlockRows(blocks)
	err = d.withTx(ctx, func(tx *sqlx.Tx) error {
		return insertBlockRows(ctx, tx, rows)
	})
	if err != nil {
		return nil, nil, err
	}
	return heights, hashes, nil
}

// SaveRawBlock persists a single decoded block without rewinding, as the
// offload worker does. If the block hash is already present the call
// short-circuits and reports exists=true.
func (d *DB) SaveRawBlock(ctx context.Context, blk model.Block) (exists bool, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("save_raw_block", err, started)
	}()

	if _, lookupErr := d.HeightFromHash(ctx, blk.Hash); lookupErr == nil {
		return true, nil
	} else if !errors.Is(lookupErr, ErrNotFound) {
		return false, lookupErr
	}

	rows := buildBlockRows([]model.Block{blk})
	err = d.withTx(ctx, func(tx *sqlx.Tx) error {
		return insertBlockRows(ctx, tx, rows)
	})
	return false, err
}

func insertBlockRows(ctx context.Context, tx *sqlx.Tx, rows blockRows) error {
	inserts := []struct {
		table   string
		columns string
		rows    [][]any
	}{
		{"blocks", "(hash, data)", rows.blocks},
		{"blockchain", "(height, hash, utctimestamp)", rows.blockchain},
		{"transactions", "(hash, block_hash, coinbase, data)", rows.txns},
		{"transaction_meta", "(hash, fee, amount, size)", rows.txnMeta},
		{"transaction_inputs", "(hash, keyImage)", rows.inputs},
		{"transaction_outputs", "(hash, idx, amount, outputKey)", rows.outputs},
		{"transaction_paymentids", "(hash, paymentId)", rows.paymentIDs},
	}

	for _, ins := range inserts {
		if err := insertChunked(ctx, tx, ins.table, ins.columns, ins.rows); err != nil {
			return err
		}
	}
	return nil
}

// insertChunked issues multi-row INSERT statements in chunks of
// insertChunkRows value rows.
func insertChunked(ctx context.Context, tx *sqlx.Tx, table, columns string, rows [][]any) error {
	for _, chunk := range chunks(rows, insertChunkRows) {
		placeholders := make([]byte, 0, len(chunk)*8)
		args := make([]any, 0, len(chunk)*len(chunk[0]))
		single := valuesPlaceholder(len(chunk[0]))
		for i, r := range chunk {
			if i > 0 {
				placeholders = append(placeholders, ',')
			}
			placeholders = append(placeholders, single...)
			args = append(args, r...)
		}

		query := fmt.Sprintf("INSERT INTO %s %s VALUES %s", table, columns, placeholders)
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}
	return nil
}

func valuesPlaceholder(columns int) string {
	out := make([]byte, 0, columns*2+2)
	out = append(out, '(')
	for i := 0; i < columns; i++ {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, '?')
	}
	return string(append(out, ')'))
}
