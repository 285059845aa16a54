// Package model holds the decoded chain entities and the wire DTOs
// exchanged with the upstream node daemon.
package model

// Block is a fully decoded raw block together with its ordered
// transaction list. Transactions[0] is always the coinbase transaction.
type Block struct {
	Hash         string
	PrevHash     string
	Height       uint64
	MajorVersion uint8
	MinorVersion uint8
	Timestamp    uint64
	Nonce        uint32
	Transactions []Transaction
	Blob         []byte
}

// Size returns the aggregate serialized size of the block and its
// transactions.
func (b Block) Size() uint64 {
	size := uint64(len(b.Blob))
	for i, tx := range b.Transactions {
		if i == 0 {
			// The coinbase transaction is serialized inside the block blob.
			continue
		}
		size += uint64(len(tx.Blob))
	}
	return size
}

// Transaction is a decoded transaction. Inputs and Outputs carry only the
// typed variants the mirror persists; coinbase inputs are represented but
// never stored as key images.
type Transaction struct {
	Hash       string
	Fee        uint64
	Amount     uint64
	Coinbase   bool
	UnlockTime uint64
	PaymentID  string
	PublicKey  string
	Inputs     []TransactionInput
	Outputs    []TransactionOutput
	Blob       []byte
}

// Size returns the serialized size of the transaction blob.
func (t Transaction) Size() uint64 {
	return uint64(len(t.Blob))
}

// TransactionInput is either a coinbase input or a key input.
type TransactionInput interface {
	inputTag() byte
}

// CoinbaseInput is the miner-reward input carrying the block height.
type CoinbaseInput struct {
	BlockIndex uint64
}

func (CoinbaseInput) inputTag() byte { return 0xff }

// KeyInput spends previously created key outputs.
type KeyInput struct {
	Amount     uint64
	KeyImage   string
	KeyOffsets []uint64
}

func (KeyInput) inputTag() byte { return 0x02 }

// TransactionOutput is a key-type output.
type TransactionOutput struct {
	Amount uint64
	Key    string
}
