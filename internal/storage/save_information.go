package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const (
	informationKeyInfo  = "info"
	informationKeyPeers = "peers"
)

// SaveInformation upserts the JSON-encoded upstream /info document.
func (d *DB) SaveInformation(ctx context.Context, info []byte) (err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("save_information", err, started)
	}()
	return d.upsertInformation(ctx, informationKeyInfo, info)
}

// SavePeers upserts the JSON-encoded upstream /peers document.
func (d *DB) SavePeers(ctx context.Context, peers []byte) (err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("save_peers", err, started)
	}()
	return d.upsertInformation(ctx, informationKeyPeers, peers)
}

func (d *DB) upsertInformation(ctx context.Context, key string, data []byte) error {
	return d.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM information WHERE idx = ?`), key); err != nil {
			return fmt.Errorf("delete information %s: %w", key, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO information (idx, data) VALUES (?, ?)`), key, data); err != nil {
			return fmt.Errorf("insert information %s: %w", key, err)
		}
		return nil
	})
}

func (d *DB) information(ctx context.Context, key string) ([]byte, error) {
	rows, err := d.db.QueryxContext(ctx, d.rebind(`SELECT data FROM information WHERE idx = ?`), key)
	if err != nil {
		return nil, fmt.Errorf("query information %s: %w", key, err)
	}
	scanned, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	if len(scanned) == 0 {
		return nil, fmt.Errorf("information %s: %w", key, ErrNotFound)
	}
	return scanned[0].blob("data"), nil
}
