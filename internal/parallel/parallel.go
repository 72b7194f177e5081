// Package parallel runs bounded fan-out work whose results keep input order.
package parallel

import (
	"context"
	"runtime"
	"sync"
)

// Result pairs a value with the error produced for the same input.
type Result[R any] struct {
	Value R
	Err   error
}

// Concurrency normalizes a configured worker count: values below one mean
// one worker per CPU.
func Concurrency(n int) int {
	if n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// Map applies fn to every item using at most concurrency goroutines.
// results[i] always belongs to items[i]. Items not started before ctx is
// cancelled get ctx.Err().
func Map[T any, R any](ctx context.Context, items []T, concurrency int, fn func(context.Context, T) (R, error)) []Result[R] {
	if len(items) == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(items) {
		concurrency = len(items)
	}

	sem := make(chan struct{}, concurrency)
	results := make([]Result[R], len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[i] = Result[R]{Err: ctx.Err()}
				return
			}
			defer func() { <-sem }()
			if err := ctx.Err(); err != nil {
				results[i] = Result[R]{Err: err}
				return
			}
			v, err := fn(ctx, item)
			results[i] = Result[R]{Value: v, Err: err}
		}(i, item)
	}
	wg.Wait()
	return results
}
