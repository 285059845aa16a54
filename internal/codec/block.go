package codec

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/goodnatureofminers/chainmirror-backend/internal/model"
)

// DecodeBlock decodes a raw block envelope into a structured block. The
// transaction list starts with the decoded coinbase transaction followed by
// the envelope's transaction blobs in upstream order. Any transaction that
// fails to decode fails the whole block.
func DecodeBlock(raw model.RawBlock) (model.Block, error) {
	blob, err := hex.DecodeString(raw.Block)
	if err != nil {
		return model.Block{}, fmt.Errorf("decode block blob: %w", err)
	}

	r := newReader(blob)
	var blk model.Block
	blk.Blob = blob

	major, err := r.varint()
	if err != nil {
		return blk, fmt.Errorf("block major version: %w", err)
	}
	minor, err := r.varint()
	if err != nil {
		return blk, fmt.Errorf("block minor version: %w", err)
	}
	timestamp, err := r.varint()
	if err != nil {
		return blk, fmt.Errorf("block timestamp: %w", err)
	}
	prevHash, err := r.bytes(hashSize)
	if err != nil {
		return blk, fmt.Errorf("block previous hash: %w", err)
	}
	nonceBytes, err := r.bytes(4)
	if err != nil {
		return blk, fmt.Errorf("block nonce: %w", err)
	}

	blk.MajorVersion = uint8(major)
	blk.MinorVersion = uint8(minor)
	blk.Timestamp = timestamp
	blk.PrevHash = hex.EncodeToString(prevHash)
	blk.Nonce = binary.LittleEndian.Uint32(nonceBytes)
	headerEnd := r.pos

	minerStart := r.pos
	minerTx, err := decodeTransactionPrefix(r)
	if err != nil {
		return blk, fmt.Errorf("decode coinbase transaction: %w", err)
	}
	minerBlob := blob[minerStart:r.pos]
	minerTx.Blob = minerBlob
	minerTx.Hash = hashHex(minerBlob)
	if !minerTx.Coinbase {
		return blk, fmt.Errorf("first transaction of block is not coinbase")
	}
	blk.Height = coinbaseHeight(minerTx)

	hashCount, err := r.varint()
	if err != nil {
		return blk, fmt.Errorf("block transaction hash count: %w", err)
	}
	txHashes := make([][]byte, 0, hashCount+1)
	txHashes = append(txHashes, fastHash(minerBlob))
	for i := uint64(0); i < hashCount; i++ {
		h, err := r.bytes(hashSize)
		if err != nil {
			return blk, fmt.Errorf("block transaction hash %d: %w", i, err)
		}
		txHashes = append(txHashes, h)
	}

	blk.Hash = blockHash(blob[:headerEnd], txHashes)
	blk.Transactions = append(blk.Transactions, minerTx)

	if uint64(len(raw.Transactions)) != hashCount {
		return blk, fmt.Errorf("block carries %d transaction blobs, header lists %d", len(raw.Transactions), hashCount)
	}
	for i, txHex := range raw.Transactions {
		txBlob, err := hex.DecodeString(txHex)
		if err != nil {
			return blk, fmt.Errorf("decode transaction %d blob: %w", i, err)
		}
		tx, err := DecodeTransaction(txBlob)
		if err != nil {
			return blk, fmt.Errorf("decode transaction %d: %w", i, err)
		}
		blk.Transactions = append(blk.Transactions, tx)
	}

	return blk, nil
}

// blockHash computes the canonical block identifier: Keccak-256 over the
// length-prefixed hashing blob (header, transaction tree root, count).
func blockHash(header []byte, txHashes [][]byte) string {
	blob := make([]byte, 0, len(header)+hashSize+10)
	blob = append(blob, header...)
	blob = append(blob, treeHash(txHashes)...)
	blob = appendVarint(blob, uint64(len(txHashes)))

	prefixed := appendVarint(make([]byte, 0, len(blob)+5), uint64(len(blob)))
	prefixed = append(prefixed, blob...)
	return hashHex(prefixed)
}

func coinbaseHeight(tx model.Transaction) uint64 {
	for _, in := range tx.Inputs {
		if cb, ok := in.(model.CoinbaseInput); ok {
			return cb.BlockIndex
		}
	}
	return 0
}

func appendVarint(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}
