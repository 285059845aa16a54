package codec

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

const hashSize = 32

func fastHash(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

func hashHex(data []byte) string {
	return hex.EncodeToString(fastHash(data))
}

// treeHash folds an ordered list of hashes into the chain's merkle-style
// root. A single hash is its own root; two hashes fold directly; larger
// lists fold the tail pairs onto a power-of-two boundary first.
func treeHash(hashes [][]byte) []byte {
	switch len(hashes) {
	case 0:
		return make([]byte, hashSize)
	case 1:
		return hashes[0]
	case 2:
		return fastHash(append(append([]byte{}, hashes[0]...), hashes[1]...))
	}

	cnt := 1
	for cnt*2 < len(hashes) {
		cnt *= 2
	}

	tmp := make([][]byte, cnt)
	fixed := 2*cnt - len(hashes)
	copy(tmp, hashes[:fixed])
	for i, j := fixed, fixed; j < cnt; i, j = i+2, j+1 {
		tmp[j] = fastHash(append(append([]byte{}, hashes[i]...), hashes[i+1]...))
	}

	for cnt > 2 {
		cnt /= 2
		for i, j := 0, 0; j < cnt; i, j = i+2, j+1 {
			tmp[j] = fastHash(append(append([]byte{}, tmp[i]...), tmp[i+1]...))
		}
	}
	return fastHash(append(append([]byte{}, tmp[0]...), tmp[1]...))
}
