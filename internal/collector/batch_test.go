package collector

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBatchCollector(t *testing.T, size uint64) *Collector {
	t.Helper()

	ctrl := gomock.NewController(t)
	metrics := NewMockMetrics(ctrl)
	metrics.EXPECT().SetBatchSize(gomock.Any()).AnyTimes()

	c, err := New(NewMockStore(ctrl), NewMockNode(ctrl), metrics, zap.NewNop())
	require.NoError(t, err)
	c.batchSize = size
	return c
}

func TestReduceBlockBatchSize(t *testing.T) {
	t.Parallel()

	c := newBatchCollector(t, defaultBatchSize)

	var got []uint64
	for i := 0; i < 8; i++ {
		c.reduceBlockBatchSize()
		got = append(got, c.batchSize)
	}

	// Halving with ceiling saturates at 2.
	assert.Equal(t, []uint64{50, 25, 13, 7, 4, 2, 2, 2}, got)
}

func TestIncreaseBlockBatchSize(t *testing.T) {
	t.Parallel()

	c := newBatchCollector(t, 6)

	var got []uint64
	for i := 0; i < 14; i++ {
		c.increaseBlockBatchSize()
		got = append(got, c.batchSize)
	}

	// Quarter-growth with ceiling steps back up and saturates at the
	// default.
	assert.Equal(t, []uint64{8, 10, 13, 17, 22, 28, 35, 44, 55, 69, 87, 100, 100, 100}, got)
}

func TestBatchSizeSaturation(t *testing.T) {
	t.Parallel()

	c := newBatchCollector(t, defaultBatchSize)
	c.increaseBlockBatchSize()
	assert.Equal(t, uint64(defaultBatchSize), c.batchSize)

	c.batchSize = minBatchSize
	c.reduceBlockBatchSize()
	assert.Equal(t, uint64(minBatchSize), c.batchSize)

	c.batchSize = 3
	c.reduceBlockBatchSize()
	assert.Equal(t, uint64(2), c.batchSize)
}
