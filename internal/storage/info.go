package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/goodnatureofminers/chainmirror-backend/internal/model"
)

// Info returns the mirrored /info document with the live fields overwritten
// from the mirror's own view of the chain.
func (d *DB) Info(ctx context.Context) (info model.Info, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("info", err, started)
	}()

	data, err := d.information(ctx, informationKeyInfo)
	if err != nil {
		return nil, err
	}

	doc := map[string]any{}
	if err = json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode stored info: %w", err)
	}

	top, err := d.topBlock(ctx)
	if err != nil {
		return nil, err
	}
	header, err := d.blockHeaderByHash(ctx, top.Hash)
	if err != nil {
		return nil, err
	}
	txCount, err := d.nonCoinbaseTransactionCount(ctx)
	if err != nil {
		return nil, err
	}

	networkHeight := asJSONUint(doc["networkHeight"])
	if networkHeight > 0 {
		networkHeight--
	}

	doc["isCacheApi"] = true
	doc["height"] = top.Height
	doc["networkHeight"] = networkHeight
	doc["synced"] = top.Height == networkHeight
	doc["difficulty"] = header.Difficulty
	doc["hashrate"] = uint64(math.Round(float64(header.Difficulty) / 30))
	doc["lastBlockIndex"] = top.Height
	doc["majorVersion"] = header.MajorVersion
	doc["minorVersion"] = header.MinorVersion
	doc["transactionsSize"] = txCount

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode info: %w", err)
	}
	return out, nil
}

// Peers returns the mirrored /peers document as stored.
func (d *DB) Peers(ctx context.Context) (peers model.Peers, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("peers", err, started)
	}()
	return d.information(ctx, informationKeyPeers)
}

// Height reports the mirrored top height together with the upstream network
// height as last observed.
func (d *DB) Height(ctx context.Context) (height, networkHeight uint64, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("height", err, started)
	}()

	top, err := d.topBlock(ctx)
	if err != nil {
		return 0, 0, err
	}

	if data, infoErr := d.information(ctx, informationKeyInfo); infoErr == nil {
		doc := map[string]any{}
		if json.Unmarshal(data, &doc) == nil {
			networkHeight = asJSONUint(doc["networkHeight"])
		}
	}
	return top.Height, networkHeight, nil
}

func (d *DB) nonCoinbaseTransactionCount(ctx context.Context) (uint64, error) {
	rows, err := d.db.QueryxContext(ctx,
		d.rebind(`SELECT COUNT(hash) AS cnt FROM transactions WHERE coinbase = ?`), false)
	if err != nil {
		return 0, fmt.Errorf("query transaction count: %w", err)
	}
	scanned, err := scanRows(rows)
	if err != nil {
		return 0, err
	}
	if len(scanned) == 0 {
		return 0, nil
	}
	return scanned[0].uint("cnt"), nil
}

func asJSONUint(v any) uint64 {
	switch t := v.(type) {
	case float64:
		if t < 0 {
			return 0
		}
		return uint64(t)
	case json.Number:
		u, _ := t.Int64()
		if u < 0 {
			return 0
		}
		return uint64(u)
	default:
		return 0
	}
}
