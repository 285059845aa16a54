// Package collector runs the synchronization engine: the periodic control
// loop that keeps the mirror a consistent prefix of the upstream chain.
package collector

import (
	"context"
	"time"

	"github.com/goodnatureofminers/chainmirror-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Store is the storage-layer surface the engine drives.
	Store interface {
		InitSchema(ctx context.Context) error
		CheckConsistency(ctx context.Context) (bool, []string, error)
		HeightFromHash(ctx context.Context, hash string) (uint64, error)
		HashesForSync(ctx context.Context) ([]string, error)
		HaveGenesis(ctx context.Context) (bool, error)
		SaveRawBlocks(ctx context.Context, blocks []model.Block) ([]uint64, []string, error)
		SaveBlocksMeta(ctx context.Context, headers []model.BlockHeader) error
		SaveOutputGlobalIndexes(ctx context.Context, indexes []model.TransactionIndexes) error
		SaveTransactionPool(ctx context.Context, txns []model.Transaction) error
		SaveInformation(ctx context.Context, info []byte) error
		SavePeers(ctx context.Context, peers []byte) error
		Rewind(ctx context.Context, height uint64) error
		Close() error
	}

	// Node is the upstream daemon surface the engine pulls from.
	Node interface {
		Info(ctx context.Context) (model.Info, error)
		Peers(ctx context.Context) (model.Peers, error)
		RawTransactionPool(ctx context.Context) ([]string, error)
		RawBlock(ctx context.Context, term string) (model.RawBlock, error)
		Block(ctx context.Context, term string) (model.BlockHeader, error)
		BlockHeaders(ctx context.Context, height uint64) ([]model.BlockHeader, error)
		Indexes(ctx context.Context, start, end uint64) ([]model.TransactionIndexes, error)
		RawSync(ctx context.Context, req model.RawSyncRequest) (model.RawSyncResponse, error)
	}

	// Metrics records engine-level metrics.
	Metrics interface {
		ObserveTick(kind string, err error, started time.Time)
		SetBatchSize(size uint64)
		SetChainHeight(height uint64)
	}
)
