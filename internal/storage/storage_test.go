package storage

import (
	"context"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goodnatureofminers/chainmirror-backend/internal/model"
)

type nopMetrics struct{}

func (nopMetrics) Observe(string, error, time.Time) {}

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := openSQLiteMemory(nopMetrics{})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	require.NoError(t, db.InitSchema(context.Background()))
	return db
}

func testHash(kind string, n uint64) string {
	return fmt.Sprintf("%s%0*d", kind, 64-len(kind), n)
}

// testBlock builds a decoded block fixture at the given height with one
// coinbase transaction and txCount user transactions.
func testBlock(height uint64, txCount int) model.Block {
	blk := model.Block{
		Hash:      testHash("block", height),
		PrevHash:  testHash("block", height-1),
		Height:    height,
		Timestamp: 1700000000 + height*30,
		Blob:      []byte(fmt.Sprintf("block-blob-%d", height)),
	}

	coinbase := model.Transaction{
		Hash:     testHash("miner", height),
		Coinbase: true,
		Amount:   100,
		Inputs:   []model.TransactionInput{model.CoinbaseInput{BlockIndex: height}},
		Outputs:  []model.TransactionOutput{{Amount: 100, Key: testHash("minerkey", height)}},
		Blob:     []byte(fmt.Sprintf("miner-blob-%d", height)),
	}
	blk.Transactions = append(blk.Transactions, coinbase)

	for i := 0; i < txCount; i++ {
		n := height*1000 + uint64(i)
		blk.Transactions = append(blk.Transactions, model.Transaction{
			Hash:      testHash("txn", n),
			Fee:       10,
			Amount:    90,
			PaymentID: testHash("payment", n),
			Inputs: []model.TransactionInput{
				model.KeyInput{Amount: 100, KeyImage: testHash("image", n), KeyOffsets: []uint64{1}},
			},
			Outputs: []model.TransactionOutput{
				{Amount: 60, Key: testHash("outkey", n*2)},
				{Amount: 30, Key: testHash("outkey", n*2+1)},
			},
			Blob: []byte(fmt.Sprintf("txn-blob-%d", n)),
		})
	}
	return blk
}

func testHeader(blk model.Block) model.BlockHeader {
	return model.BlockHeader{
		Hash:              blk.Hash,
		PrevHash:          blk.PrevHash,
		Height:            blk.Height,
		Timestamp:         blk.Timestamp,
		Difficulty:        1000 + blk.Height,
		Nonce:             blk.Height * 7,
		Size:              blk.Size(),
		Reward:            100,
		BaseReward:        100,
		TransactionsCount: uint64(len(blk.Transactions)),
	}
}

func seedChain(t *testing.T, db *DB, from, to uint64, txCount int) []model.Block {
	t.Helper()

	var blocks []model.Block
	var headers []model.BlockHeader
	for h := from; h <= to; h++ {
		blk := testBlock(h, txCount)
		blocks = append(blocks, blk)
		headers = append(headers, testHeader(blk))
	}

	_, _, err := db.SaveRawBlocks(context.Background(), blocks)
	require.NoError(t, err)
	require.NoError(t, db.SaveBlocksMeta(context.Background(), headers))
	return blocks
}

func mustHexDecode(t *testing.T, s string) []byte {
	t.Helper()

	out, err := hex.DecodeString(s)
	require.NoError(t, err)
	return out
}

func countRows(t *testing.T, db *DB, table string) int {
	t.Helper()

	rows, err := db.db.Queryx("SELECT COUNT(*) AS cnt FROM " + table)
	require.NoError(t, err)
	scanned, err := scanRows(rows)
	require.NoError(t, err)
	require.Len(t, scanned, 1)
	return int(scanned[0].uint("cnt"))
}

func TestInitSchema_Idempotent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	require.NoError(t, db.InitSchema(context.Background()))
	require.NoError(t, db.InitSchema(context.Background()))

	seedChain(t, db, 0, 3, 1)
	assert.Equal(t, 4, countRows(t, db, "blockchain"))
}

func TestChunks(t *testing.T) {
	t.Parallel()

	items := make([]int, 60)
	got := chunks(items, 25)
	require.Len(t, got, 3)
	assert.Len(t, got[0], 25)
	assert.Len(t, got[1], 25)
	assert.Len(t, got[2], 10)

	assert.Empty(t, chunks([]int{}, 25))
	assert.Len(t, chunks(make([]int, 25), 25), 1)
}

func TestMutatingMethodsNotAvailable(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	assert.ErrorIs(t, db.BlockTemplate(), ErrMethodNotAvailable)
	assert.ErrorIs(t, db.SubmitBlock(), ErrMethodNotAvailable)
	assert.ErrorIs(t, db.SubmitTransaction(), ErrMethodNotAvailable)
}
