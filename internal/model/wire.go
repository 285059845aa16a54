package model

import "encoding/json"

// RawBlock is the hex envelope the upstream daemon returns for a block: the
// block blob plus the blobs of its non-coinbase transactions.
type RawBlock struct {
	Block        string   `json:"block"`
	Transactions []string `json:"transactions"`
}

// BlockHeader mirrors the upstream header JSON. It carries the fields that
// are not derivable from the raw block blob alone.
type BlockHeader struct {
	Hash                         string  `json:"hash"`
	PrevHash                     string  `json:"prevHash"`
	Height                       uint64  `json:"height"`
	Timestamp                    uint64  `json:"timestamp"`
	Depth                        uint64  `json:"depth"`
	BaseReward                   uint64  `json:"baseReward"`
	Difficulty                   uint64  `json:"difficulty"`
	MajorVersion                 uint32  `json:"majorVersion"`
	MinorVersion                 uint32  `json:"minorVersion"`
	Nonce                        uint64  `json:"nonce"`
	Size                         uint64  `json:"blockSize"`
	AlreadyGeneratedCoins        uint64  `json:"alreadyGeneratedCoins"`
	AlreadyGeneratedTransactions uint64  `json:"alreadyGeneratedTransactions"`
	Reward                       uint64  `json:"reward"`
	SizeMedian                   uint64  `json:"sizeMedian"`
	TotalFeeAmount               uint64  `json:"totalFeeAmount"`
	TransactionsCumulativeSize   uint64  `json:"transactionsCumulativeSize"`
	TransactionsCount            uint64  `json:"numTxes"`
	Orphan                       bool    `json:"orphan_status"`
	Penalty                      float64 `json:"penalty"`
}

// TransactionIndexes pairs a transaction hash with the global output
// indexes of its outputs, in output order.
type TransactionIndexes struct {
	Hash    string   `json:"transactionHash"`
	Indexes []uint64 `json:"globalOutputIndexes"`
}

// RawSyncRequest is the checkpointed bulk-pull request.
type RawSyncRequest struct {
	Checkpoints  []string `json:"blockHashCheckpoints,omitempty"`
	Height       uint64   `json:"height,omitempty"`
	Timestamp    uint64   `json:"timestamp,omitempty"`
	SkipCoinbase bool     `json:"skipCoinbaseTransactions,omitempty"`
	Count        uint64   `json:"count,omitempty"`
}

// RawSyncResponse carries the pulled raw blocks. Synced is set exactly when
// Blocks is empty, in which case TopBlock summarizes the chain tip.
type RawSyncResponse struct {
	Blocks   []RawBlock `json:"blocks"`
	Synced   bool       `json:"synced"`
	TopBlock *TopBlock  `json:"topBlock,omitempty"`
}

// TopBlock is the chain-tip summary attached to an empty sync response.
type TopBlock struct {
	Hash   string `json:"hash"`
	Height uint64 `json:"height"`
}

// PoolChanges reports the pool delta against a caller-known state.
type PoolChanges struct {
	Added   []PoolTransaction `json:"addedTxs"`
	Deleted []string          `json:"deletedTxsIds"`
	Synced  bool              `json:"isTailBlockActual"`
}

// PoolTransaction is one mirrored transaction-pool row.
type PoolTransaction struct {
	Hash   string `json:"hash"`
	Fee    uint64 `json:"fee"`
	Size   uint64 `json:"size"`
	Amount uint64 `json:"amount"`
}

// TransactionsStatus partitions a set of hashes by where they live.
type TransactionsStatus struct {
	InPool   []string `json:"transactionsInPool"`
	InBlock  []string `json:"transactionsInBlock"`
	NotFound []string `json:"transactionsUnknown"`
}

// RandomOutput is one (globalIndex, key) pair drawn for mixing.
type RandomOutput struct {
	GlobalIndex uint64 `json:"global_amount_index"`
	Key         string `json:"out_key"`
}

// RandomOutputs groups drawn outputs per requested amount.
type RandomOutputs struct {
	Amount  uint64         `json:"amount"`
	Outputs []RandomOutput `json:"outs"`
}

// ChainStats is one row of the recent-chain statistics read.
type ChainStats struct {
	Height     uint64 `json:"height"`
	Timestamp  uint64 `json:"timestamp"`
	Difficulty uint64 `json:"difficulty"`
	Nonce      uint64 `json:"nonce"`
	Size       uint64 `json:"size"`
	TxnCount   uint64 `json:"nbr_of_txes"`
}

// Fee is the mirrored node-fee advertisement.
type Fee struct {
	Address string `json:"address"`
	Amount  uint64 `json:"amount"`
	Status  string `json:"status"`
}

// SyncBlock is one decoded block of a sync response.
type SyncBlock struct {
	Hash         string            `json:"blockHash"`
	Height       uint64            `json:"height"`
	Timestamp    uint64            `json:"timestamp"`
	Transactions []SyncTransaction `json:"transactions"`
}

// SyncTransaction is the decoded per-transaction view used by wallets.
type SyncTransaction struct {
	Hash       string       `json:"hash"`
	PublicKey  string       `json:"txPublicKey"`
	PaymentID  string       `json:"paymentId,omitempty"`
	UnlockTime uint64       `json:"unlockTime"`
	Inputs     []SyncInput  `json:"inputs"`
	Outputs    []SyncOutput `json:"outputs"`
}

// SyncInput is a decoded key input of a sync transaction.
type SyncInput struct {
	Amount   uint64 `json:"amount"`
	KeyImage string `json:"keyImage"`
}

// SyncOutput is a decoded key output of a sync transaction.
type SyncOutput struct {
	Index  uint64 `json:"index"`
	Amount uint64 `json:"amount"`
	Key    string `json:"key"`
}

// SyncResponse is the decoded form of RawSyncResponse.
type SyncResponse struct {
	Blocks   []SyncBlock `json:"blocks"`
	Synced   bool        `json:"synced"`
	TopBlock *TopBlock   `json:"topBlock,omitempty"`
}

// Info and Peers pass through the mirror as raw JSON documents.
type (
	Info  = json.RawMessage
	Peers = json.RawMessage
)
