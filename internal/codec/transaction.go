package codec

import (
	"encoding/hex"
	"fmt"

	"github.com/goodnatureofminers/chainmirror-backend/internal/model"
)

const (
	inputTagCoinbase = 0xff
	inputTagKey      = 0x02
	outputTagKey     = 0x02

	extraTagPadding   = 0x00
	extraTagPublicKey = 0x01
	extraTagNonce     = 0x02

	extraNoncePaymentID = 0x00
)

// DecodeTransaction decodes a serialized transaction blob. The returned
// transaction caches its hash (Keccak-256 of the blob) and keeps the blob
// for persistence.
func DecodeTransaction(blob []byte) (model.Transaction, error) {
	r := newReader(blob)
	tx, err := decodeTransactionPrefix(r)
	if err != nil {
		return model.Transaction{}, err
	}

	tx.Blob = blob
	tx.Hash = hashHex(blob)
	return tx, nil
}

func decodeTransactionPrefix(r *reader) (model.Transaction, error) {
	var tx model.Transaction

	if _, err := r.varint(); err != nil {
		return tx, fmt.Errorf("transaction version: %w", err)
	}
	unlock, err := r.varint()
	if err != nil {
		return tx, fmt.Errorf("transaction unlock time: %w", err)
	}
	tx.UnlockTime = unlock

	inputCount, err := r.varint()
	if err != nil {
		return tx, fmt.Errorf("transaction input count: %w", err)
	}
	var inputSum uint64
	for i := uint64(0); i < inputCount; i++ {
		tag, err := r.byte()
		if err != nil {
			return tx, fmt.Errorf("input %d tag: %w", i, err)
		}
		switch tag {
		case inputTagCoinbase:
			blockIndex, err := r.varint()
			if err != nil {
				return tx, fmt.Errorf("input %d block index: %w", i, err)
			}
			tx.Coinbase = true
			tx.Inputs = append(tx.Inputs, model.CoinbaseInput{BlockIndex: blockIndex})
		case inputTagKey:
			in, err := decodeKeyInput(r)
			if err != nil {
				return tx, fmt.Errorf("input %d: %w", i, err)
			}
			inputSum += in.Amount
			tx.Inputs = append(tx.Inputs, in)
		default:
			return tx, fmt.Errorf("input %d has unknown tag 0x%02x", i, tag)
		}
	}

	outputCount, err := r.varint()
	if err != nil {
		return tx, fmt.Errorf("transaction output count: %w", err)
	}
	var outputSum uint64
	for i := uint64(0); i < outputCount; i++ {
		amount, err := r.varint()
		if err != nil {
			return tx, fmt.Errorf("output %d amount: %w", i, err)
		}
		tag, err := r.byte()
		if err != nil {
			return tx, fmt.Errorf("output %d tag: %w", i, err)
		}
		if tag != outputTagKey {
			return tx, fmt.Errorf("output %d has unknown tag 0x%02x", i, tag)
		}
		key, err := r.bytes(hashSize)
		if err != nil {
			return tx, fmt.Errorf("output %d key: %w", i, err)
		}
		outputSum += amount
		tx.Outputs = append(tx.Outputs, model.TransactionOutput{
			Amount: amount,
			Key:    hex.EncodeToString(key),
		})
	}

	extraSize, err := r.varint()
	if err != nil {
		return tx, fmt.Errorf("transaction extra size: %w", err)
	}
	extra, err := r.bytes(int(extraSize))
	if err != nil {
		return tx, fmt.Errorf("transaction extra: %w", err)
	}
	tx.PublicKey, tx.PaymentID = parseExtra(extra)

	tx.Amount = outputSum
	if !tx.Coinbase && inputSum > outputSum {
		tx.Fee = inputSum - outputSum
	}
	return tx, nil
}

func decodeKeyInput(r *reader) (model.KeyInput, error) {
	var in model.KeyInput

	amount, err := r.varint()
	if err != nil {
		return in, fmt.Errorf("amount: %w", err)
	}
	offsetCount, err := r.varint()
	if err != nil {
		return in, fmt.Errorf("key offset count: %w", err)
	}
	offsets := make([]uint64, 0, offsetCount)
	for i := uint64(0); i < offsetCount; i++ {
		offset, err := r.varint()
		if err != nil {
			return in, fmt.Errorf("key offset %d: %w", i, err)
		}
		offsets = append(offsets, offset)
	}
	keyImage, err := r.bytes(hashSize)
	if err != nil {
		return in, fmt.Errorf("key image: %w", err)
	}

	in.Amount = amount
	in.KeyOffsets = offsets
	in.KeyImage = hex.EncodeToString(keyImage)
	return in, nil
}

// parseExtra walks the tx_extra field for the transaction public key and an
// embedded payment ID. Unknown tags terminate the walk; extra is best
// effort by design of the wire format.
func parseExtra(extra []byte) (publicKey, paymentID string) {
	r := newReader(extra)
	for r.remaining() > 0 {
		tag, err := r.byte()
		if err != nil {
			return
		}
		switch tag {
		case extraTagPadding:
			continue
		case extraTagPublicKey:
			key, err := r.bytes(hashSize)
			if err != nil {
				return
			}
			if publicKey == "" {
				publicKey = hex.EncodeToString(key)
			}
		case extraTagNonce:
			size, err := r.varint()
			if err != nil {
				return
			}
			nonce, err := r.bytes(int(size))
			if err != nil {
				return
			}
			if len(nonce) == hashSize+1 && nonce[0] == extraNoncePaymentID && paymentID == "" {
				paymentID = hex.EncodeToString(nonce[1:])
			}
		default:
			return
		}
	}
	return
}
