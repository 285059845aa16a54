package storage

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goodnatureofminers/chainmirror-backend/internal/model"
)

func seedGlobalIndexes(t *testing.T, db *DB, blocks []model.Block) {
	t.Helper()

	var entries []model.TransactionIndexes
	next := map[uint64]uint64{}
	for _, blk := range blocks {
		for _, tx := range blk.Transactions {
			entry := model.TransactionIndexes{Hash: tx.Hash}
			for _, out := range tx.Outputs {
				entry.Indexes = append(entry.Indexes, next[out.Amount])
				next[out.Amount]++
			}
			entries = append(entries, entry)
		}
	}
	require.NoError(t, db.SaveOutputGlobalIndexes(context.Background(), entries))
}

func TestSaveOutputGlobalIndexes_PopulatesAllOutputs(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	blocks := seedChain(t, db, 0, 4, 1)
	seedGlobalIndexes(t, db, blocks)

	rows, err := db.db.Queryx(`SELECT COUNT(*) AS cnt FROM transaction_outputs WHERE globalIdx IS NULL`)
	require.NoError(t, err)
	scanned, err := scanRows(rows)
	require.NoError(t, err)
	assert.Zero(t, scanned[0].uint("cnt"))
}

func TestIndexes_GroupsPerTransactionInOutputOrder(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	blocks := seedChain(t, db, 0, 4, 1)
	seedGlobalIndexes(t, db, blocks)

	indexes, err := db.Indexes(context.Background(), 1, 3)
	require.NoError(t, err)

	// Three blocks, two transactions each.
	require.Len(t, indexes, 6)
	byHash := map[string][]uint64{}
	for _, entry := range indexes {
		byHash[entry.Hash] = entry.Indexes
	}
	// User outputs carry amounts 60 and 30; each gets a per-amount counter.
	userTx := testHash("txn", 2000)
	require.Contains(t, byHash, userTx)
	assert.Len(t, byHash[userTx], 2)
}

func TestRandomIndexes(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	blocks := seedChain(t, db, 0, 19, 1)
	seedGlobalIndexes(t, db, blocks)

	// Amount 60 has 20 outputs with global indexes 0..19.
	outs, err := db.RandomIndexes(context.Background(), []uint64{60}, 5)
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, uint64(60), outs[0].Amount)
	require.Len(t, outs[0].Outputs, 5)

	indexes := make([]uint64, 0, 5)
	seen := map[uint64]struct{}{}
	for _, o := range outs[0].Outputs {
		indexes = append(indexes, o.GlobalIndex)
		seen[o.GlobalIndex] = struct{}{}
		assert.NotEmpty(t, o.Key)
	}
	assert.Len(t, seen, 5, "indexes must be distinct")
	assert.True(t, sort.SliceIsSorted(indexes, func(i, j int) bool { return indexes[i] < indexes[j] }))
}

func TestRandomIndexes_OutOfRange(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	blocks := seedChain(t, db, 0, 4, 1)
	seedGlobalIndexes(t, db, blocks)

	// Amount 60 has max global index 4; asking for 5 mixins must fail.
	_, err := db.RandomIndexes(context.Background(), []uint64{60}, 5)
	require.Error(t, err)

	// Unknown amounts fail too.
	_, err = db.RandomIndexes(context.Background(), []uint64{424242}, 1)
	require.Error(t, err)
}
