package storage

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/goodnatureofminers/chainmirror-backend/internal/model"
)

// Indexes returns the per-transaction global output indexes for every
// transaction mirrored in the height range [start, end].
func (d *DB) Indexes(ctx context.Context, start, end uint64) (indexes []model.TransactionIndexes, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("indexes", err, started)
	}()

	const query = `
SELECT transactions.hash AS hash, transaction_outputs.idx AS idx,
       transaction_outputs.globalIdx AS globalIdx
FROM transactions
JOIN blockchain ON blockchain.hash = transactions.block_hash
JOIN transaction_outputs ON transaction_outputs.hash = transactions.hash
WHERE blockchain.height >= ? AND blockchain.height <= ?
ORDER BY transactions.hash, transaction_outputs.idx`

	rows, err := d.db.QueryxContext(ctx, d.rebind(query), start, end)
	if err != nil {
		return nil, fmt.Errorf("query output indexes: %w", err)
	}
	scanned, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	byHash := map[string]int{}
	for _, r := range scanned {
		hash := r.str("hash")
		pos, ok := byHash[hash]
		if !ok {
			pos = len(indexes)
			byHash[hash] = pos
			indexes = append(indexes, model.TransactionIndexes{Hash: hash})
		}
		globalIdx, _ := r.uintOK("globalIdx")
		indexes[pos].Indexes = append(indexes[pos].Indexes, globalIdx)
	}
	return indexes, nil
}

// RandomIndexes draws, for each amount, count distinct global indexes in
// [0, maxGlobalIdx(amount)] and returns the matching (index, key) pairs in
// ascending index order. An amount whose index space is not strictly larger
// than count fails the call.
func (d *DB) RandomIndexes(ctx context.Context, amounts []uint64, count uint64) (outs []model.RandomOutputs, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("random_indexes", err, started)
	}()

	for _, amount := range amounts {
		maxIdx, found, maxErr := d.maxGlobalIndex(ctx, amount)
		if maxErr != nil {
			return nil, maxErr
		}
		if !found || maxIdx <= count {
			return nil, fmt.Errorf("amount %d has only %d mixable outputs, need more than %d", amount, maxIdx, count)
		}

		picks := drawDistinct(maxIdx, count)
		query, args, inErr := sqlx.In(`
SELECT globalIdx, outputKey
FROM transaction_outputs
WHERE amount = ? AND globalIdx IN (?)
ORDER BY globalIdx ASC`, amount, picks)
		if inErr != nil {
			return nil, fmt.Errorf("build random index query: %w", inErr)
		}
		rows, qErr := d.db.QueryxContext(ctx, d.rebind(query), args...)
		if qErr != nil {
			return nil, fmt.Errorf("query random indexes: %w", qErr)
		}
		scanned, sErr := scanRows(rows)
		if sErr != nil {
			return nil, sErr
		}

		out := model.RandomOutputs{Amount: amount}
		for _, r := range scanned {
			out.Outputs = append(out.Outputs, model.RandomOutput{
				GlobalIndex: r.uint("globalIdx"),
				Key:         r.str("outputKey"),
			})
		}
		outs = append(outs, out)
	}
	return outs, nil
}

func (d *DB) maxGlobalIndex(ctx context.Context, amount uint64) (uint64, bool, error) {
	rows, err := d.db.QueryxContext(ctx,
		d.rebind(`SELECT MAX(globalIdx) AS maxIdx FROM transaction_outputs WHERE amount = ?`), amount)
	if err != nil {
		return 0, false, fmt.Errorf("query max global index: %w", err)
	}
	scanned, err := scanRows(rows)
	if err != nil {
		return 0, false, err
	}
	if len(scanned) == 0 {
		return 0, false, nil
	}
	maxIdx, ok := scanned[0].uintOK("maxIdx")
	return maxIdx, ok, nil
}

func drawDistinct(maxIdx, count uint64) []uint64 {
	seen := make(map[uint64]struct{}, count)
	picks := make([]uint64, 0, count)
	for uint64(len(picks)) < count {
		p := uint64(rand.Int63n(int64(maxIdx + 1)))
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		picks = append(picks, p)
	}
	sort.Slice(picks, func(i, j int) bool { return picks[i] < picks[j] })
	return picks
}
