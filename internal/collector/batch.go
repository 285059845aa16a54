package collector

// increaseBlockBatchSize regrows the batch by a quarter (ceiling) after a
// successful sync tick, saturating at the default.
func (c *Collector) increaseBlockBatchSize() {
	if c.batchSize == c.defaultBatchSize {
		return
	}
	next := (c.batchSize*5 + 3) / 4
	if next > c.defaultBatchSize {
		next = c.defaultBatchSize
	}
	c.batchSize = next
	c.metrics.SetBatchSize(c.batchSize)
}

// reduceBlockBatchSize halves the batch (ceiling) after a failed sync tick,
// saturating at 2.
func (c *Collector) reduceBlockBatchSize() {
	if c.batchSize == minBatchSize {
		return
	}
	next := (c.batchSize + 1) / 2
	if next < minBatchSize {
		next = minBatchSize
	}
	c.batchSize = next
	c.metrics.SetBatchSize(c.batchSize)
}
