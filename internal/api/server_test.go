package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/chainmirror-backend/internal/config"
	"github.com/goodnatureofminers/chainmirror-backend/internal/model"
	"github.com/goodnatureofminers/chainmirror-backend/internal/storage"
)

type nopMetrics struct{}

func (nopMetrics) Observe(string, error, time.Time) {}

func testHash(kind string, n uint64) string {
	return fmt.Sprintf("%s%0*d", kind, 64-len(kind), n)
}

func newTestServer(t *testing.T) (*Server, *storage.DB) {
	t.Helper()

	cfg := config.Config{SQLitePath: filepath.Join(t.TempDir(), "mirror.sqlite3")}
	store, err := storage.Open(cfg, nopMetrics{})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	require.NoError(t, store.InitSchema(context.Background()))

	return NewServer(store, "fee-address", 42, zap.NewNop()), store
}

func seedMirror(t *testing.T, store *storage.DB, top uint64) {
	t.Helper()

	var blocks []model.Block
	var headers []model.BlockHeader
	for h := uint64(0); h <= top; h++ {
		blk := model.Block{
			Hash:      testHash("block", h),
			PrevHash:  testHash("block", h-1),
			Height:    h,
			Timestamp: 1700000000 + h*30,
			Blob:      []byte(fmt.Sprintf("blob-%d", h)),
			Transactions: []model.Transaction{{
				Hash:     testHash("miner", h),
				Coinbase: true,
				Amount:   100,
				Inputs:   []model.TransactionInput{model.CoinbaseInput{BlockIndex: h}},
				Outputs:  []model.TransactionOutput{{Amount: 100, Key: testHash("key", h)}},
				Blob:     []byte(fmt.Sprintf("miner-%d", h)),
			}},
		}
		blocks = append(blocks, blk)
		headers = append(headers, model.BlockHeader{
			Hash:              blk.Hash,
			PrevHash:          blk.PrevHash,
			Height:            h,
			Difficulty:        900 + h,
			TransactionsCount: 1,
		})
	}

	_, _, err := store.SaveRawBlocks(context.Background(), blocks)
	require.NoError(t, err)
	require.NoError(t, store.SaveBlocksMeta(context.Background(), headers))
	require.NoError(t, store.SaveInformation(context.Background(),
		[]byte(fmt.Sprintf(`{"networkHeight":%d}`, top+1))))
	require.NoError(t, store.SavePeers(context.Background(), []byte(`{"peers":["1.2.3.4:11897"]}`)))
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echoHeaderContentType, "application/json")
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

const echoHeaderContentType = "Content-Type"

func TestGetInfo_Overlay(t *testing.T) {
	t.Parallel()

	s, store := newTestServer(t)
	seedMirror(t, store, 5)

	rec := doRequest(s, http.MethodGet, "/info", "")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, true, doc["isCacheApi"])
	assert.Equal(t, float64(5), doc["height"])
	assert.Equal(t, float64(5), doc["networkHeight"])
	assert.Equal(t, true, doc["synced"])
}

func TestGetFee(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/fee", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"address":"fee-address","amount":42,"status":"OK"}`, rec.Body.String())
}

func TestGetBlock(t *testing.T) {
	t.Parallel()

	s, store := newTestServer(t)
	seedMirror(t, store, 5)

	rec := doRequest(s, http.MethodGet, "/block/3", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var header model.BlockHeader
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &header))
	assert.Equal(t, uint64(3), header.Height)
	assert.Equal(t, testHash("block", 3), header.Hash)

	rec = doRequest(s, http.MethodGet, "/block/"+testHash("unknown", 1), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetHeight(t *testing.T) {
	t.Parallel()

	s, store := newTestServer(t)
	seedMirror(t, store, 5)

	rec := doRequest(s, http.MethodGet, "/height", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"height":5,"network_height":6}`, rec.Body.String())
}

func TestPostRawSync(t *testing.T) {
	t.Parallel()

	s, store := newTestServer(t)
	seedMirror(t, store, 5)

	body := fmt.Sprintf(`{"blockHashCheckpoints":[%q],"count":2}`, testHash("block", 2))
	rec := doRequest(s, http.MethodPost, "/rawsync", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.RawSyncResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Synced)
	require.Len(t, resp.Blocks, 2)
}

func TestPostTransactionsStatus(t *testing.T) {
	t.Parallel()

	s, store := newTestServer(t)
	seedMirror(t, store, 2)

	body := fmt.Sprintf(`{"transactionHashes":[%q,%q]}`, testHash("miner", 1), testHash("unknown", 7))
	rec := doRequest(s, http.MethodPost, "/transaction/status", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var status model.TransactionsStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, []string{testHash("miner", 1)}, status.InBlock)
	assert.Equal(t, []string{testHash("unknown", 7)}, status.NotFound)
}

func TestMutatingEndpointsNotAvailable(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)

	for _, path := range []string{"/block", "/blocktemplate", "/transaction"} {
		rec := doRequest(s, http.MethodPost, path, `{}`)
		assert.Equal(t, http.StatusNotImplemented, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "method not available")
	}
}

func TestGetPeers(t *testing.T) {
	t.Parallel()

	s, store := newTestServer(t)
	seedMirror(t, store, 1)

	rec := doRequest(s, http.MethodGet, "/peers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"peers":["1.2.3.4:11897"]}`, rec.Body.String())
}
