package experiment

import (
	"context"
	"sync"
)

// Batch runs one session per seed concurrently. Each session owns its
// widget, so nothing is shared between goroutines but the registry.
type Batch struct {
	base      Config
	numRuns   int
	seedStart int64
	registry  *Registry
}

func NewBatch(base Config, numRuns int, seedStart int64, registry *Registry) *Batch {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Batch{base: base, numRuns: numRuns, seedStart: seedStart, registry: registry}
}

func (b *Batch) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, b.numRuns)
	errs := make([]error, b.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < b.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfg := b.base
			cfg.Seed = b.seedStart + int64(idx)

			e := New(cfg, b.registry)
			if err := e.Setup(); err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = e.Run(ctx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
