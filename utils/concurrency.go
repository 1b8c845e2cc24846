package utils

import (
	"context"
	"sync"

	"github.com/CPU-commits/Intranet_BXams/res"
	"golang.org/x/sync/semaphore"
)

// Concurrency runs do for every index in [0, count) with at most semWeight
// calls in flight. The first error reported through setError stops the
// scheduling of pending indexes and is returned once running calls finish.
func Concurrency(
	semWeight int64,
	count int,
	do func(index int, setError func(errRes *res.ErrorRes)),
) *res.ErrorRes {
	var wg sync.WaitGroup
	var once sync.Once
	var firstErr *res.ErrorRes

	sem := semaphore.NewWeighted(semWeight)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setError := func(errRes *res.ErrorRes) {
		if errRes == nil {
			return
		}
		once.Do(func() {
			firstErr = errRes
			cancel()
		})
	}

	for i := 0; i < count; i++ {
		if ctx.Err() != nil {
			break
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			// Cancelled by setError
			break
		}
		wg.Add(1)
		go func(index int) {
			defer wg.Done()
			defer sem.Release(1)
			do(index, setError)
		}(i)
	}
	wg.Wait()
	return firstErr
}
