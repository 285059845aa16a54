package storage

import (
	"context"
	"fmt"
	"time"
)

// CheckConsistency returns the hashes of blocks that have no header row
// yet. An empty result means the mirror is consistent.
func (d *DB) CheckConsistency(ctx context.Context) (ok bool, inconsistent []string, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("check_consistency", err, started)
	}()

	const query = `
SELECT blocks.hash AS hash
FROM blocks
LEFT JOIN block_meta ON block_meta.hash = blocks.hash
WHERE block_meta.size IS NULL`

	rows, err := d.db.QueryxContext(ctx, query)
	if err != nil {
		return false, nil, fmt.Errorf("query consistency: %w", err)
	}
	scanned, err := scanRows(rows)
	if err != nil {
		return false, nil, err
	}

	for _, r := range scanned {
		inconsistent = append(inconsistent, r.str("hash"))
	}
	return len(inconsistent) == 0, inconsistent, nil
}
