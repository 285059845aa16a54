// Package workerpool provides simple concurrent processing utilities.
package workerpool

import (
	"context"
	"sync"
)

// Map runs a worker pool over the provided work items and collects one
// result per item, preserving input order. The first error cancels the
// remaining work and is returned.
func Map[T, R any](
	ctx context.Context,
	workerCount int,
	items []T,
	process func(context.Context, T) (R, error),
) ([]R, error) {
	if workerCount < 1 {
		workerCount = 1
	}

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type task struct {
		idx  int
		item T
	}

	tasks := make(chan task, workerCount)
	errs := make(chan error, workerCount)
	results := make([]R, len(items))

	wg := sync.WaitGroup{}
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case tk, ok := <-tasks:
					if !ok {
						return
					}
					res, err := process(ctx, tk.item)
					if err != nil {
						select {
						case errs <- err:
						default:
						}
						cancel()
						return
					}
					results[tk.idx] = res
				}
			}
		}()
	}

	go func() {
		defer close(tasks)
		for i, item := range items {
			select {
			case <-ctx.Done():
				return
			case tasks <- task{idx: i, item: item}:
			}
		}
	}()

	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
