package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
)

// HashesForSync produces the checkpoint list sent to the upstream: the 11
// topmost hashes descending, then hashes at exponentially widening offsets
// below (2^1, 2^2, ... subtracted from the lowest included height while the
// result stays positive), and finally the genesis hash. An empty chain
// yields an empty list.
func (d *DB) HashesForSync(ctx context.Context) (hashes []string, err error) {
	started := time.Now()
	defer func() {
		d.metrics.Observe("hashes_for_sync", err, started)
	}()

	top, err := d.topBlock(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	heights := checkpointHeights(top.Height)

	query, args, err := sqlx.In(`SELECT height, hash FROM blockchain WHERE height IN (?)`, heights)
	if err != nil {
		return nil, fmt.Errorf("build checkpoint query: %w", err)
	}
	rows, err := d.db.QueryxContext(ctx, d.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query checkpoint hashes: %w", err)
	}
	scanned, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	byHeight := make(map[uint64]string, len(scanned))
	for _, r := range scanned {
		byHeight[r.uint("height")] = r.str("hash")
	}
	for _, h := range heights {
		if hash, ok := byHeight[h]; ok {
			hashes = append(hashes, hash)
		}
	}
	return hashes, nil
}

// checkpointHeights lists the checkpoint heights for a chain tip,
// descending, deduplicated, genesis last.
func checkpointHeights(top uint64) []uint64 {
	seen := map[uint64]struct{}{}
	var heights []uint64
	add := func(h uint64) {
		if _, ok := seen[h]; ok {
			return
		}
		seen[h] = struct{}{}
		heights = append(heights, h)
	}

	h := top
	for i := 0; i < 11; i++ {
		add(h)
		if h == 0 {
			break
		}
		h--
	}

	low := heights[len(heights)-1]
	for n := uint(1); ; n++ {
		offset := uint64(1) << n
		if offset >= low {
			break
		}
		low -= offset
		add(low)
	}

	add(0)

	sort.Slice(heights, func(i, j int) bool { return heights[i] > heights[j] })
	return heights
}
