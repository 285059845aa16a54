package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestObserveWrappers(t *testing.T) {
	t.Parallel()

	started := time.Now()

	// The wrappers must accept both outcomes without panicking on label
	// cardinality.
	Storage{}.Observe("save_raw_blocks", nil, started)
	Storage{}.Observe("save_raw_blocks", errors.New("boom"), started)
	NodeRPC{}.Observe("raw_sync", nil, started)
	NodeRPC{}.Observe("raw_sync", errors.New("boom"), started)
	Collector{}.ObserveTick("sync", nil, started)
	Collector{}.ObserveTick("info", errors.New("boom"), started)
	Collector{}.SetBatchSize(100)
	Collector{}.SetChainHeight(250)
}

func TestStatusOf(t *testing.T) {
	t.Parallel()

	if got := statusOf(nil); got != "success" {
		t.Errorf("statusOf(nil) = %q", got)
	}
	if got := statusOf(errors.New("x")); got != "error" {
		t.Errorf("statusOf(err) = %q", got)
	}
}
