// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package resolver

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/luxfi/log"
	"golang.org/x/sync/singleflight"
)

const firstUseKey = "first-use"

// cache holds the latest decoded snapshot of one resource.
//
// Fetching and decoding happen without holding the lock; only publishing the
// new snapshot is exclusive, so readers keep being served the previous
// snapshot while a refresh is in flight. Refreshes are numbered when they
// start and a refresh never replaces a snapshot published by a later one.
type cache[T any] struct {
	name    string
	log     log.Logger
	metrics *metrics
	fetch   func(context.Context) (*T, error)

	// started numbers refreshes in the order they begin
	started atomic.Uint64
	// firstUse coalesces concurrent refreshes triggered by an empty cache
	firstUse singleflight.Group

	lock       sync.RWMutex
	snapshot   *T
	generation uint64
}

func newCache[T any](
	name string,
	logger log.Logger,
	metrics *metrics,
	fetch func(context.Context) (*T, error),
) *cache[T] {
	return &cache[T]{
		name:    name,
		log:     logger,
		metrics: metrics,
		fetch:   fetch,
	}
}

// refresh fetches a new snapshot and publishes it. On failure the cached
// snapshot is left untouched.
func (c *cache[T]) refresh(ctx context.Context) (*T, error) {
	start := time.Now()
	generation := c.started.Add(1)

	snapshot, err := c.fetch(ctx)
	if err != nil {
		c.metrics.observe(outcomeFailure, start)
		c.log.Warn("failed to refresh",
			log.String("resource", c.name),
			log.Uint64("generation", generation),
			log.Err(err),
		)
		return nil, err
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	if generation < c.generation {
		c.metrics.observe(outcomeStale, start)
		c.log.Debug("discarding refresh superseded by a later one",
			log.String("resource", c.name),
			log.Uint64("generation", generation),
			log.Uint64("published", c.generation),
		)
		return c.snapshot, nil
	}

	c.snapshot = snapshot
	c.generation = generation
	c.metrics.observe(outcomeSuccess, start)
	c.log.Debug("refreshed",
		log.String("resource", c.name),
		log.Uint64("generation", generation),
	)
	return snapshot, nil
}

// get returns the cached snapshot, refreshing first if nothing was ever
// published.
//
// Concurrent callers share a single first refresh. The shared refresh is not
// canceled with any one caller's ctx; each caller stops waiting for it when
// its own ctx is done.
func (c *cache[T]) get(ctx context.Context) (*T, error) {
	if snapshot := c.current(); snapshot != nil {
		return snapshot, nil
	}

	refreshCtx := context.WithoutCancel(ctx)
	results := c.firstUse.DoChan(firstUseKey, func() (any, error) {
		// a refresh may have completed while waiting for the group
		if snapshot := c.current(); snapshot != nil {
			return snapshot, nil
		}
		return c.refresh(refreshCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-results:
		if result.Err != nil {
			return nil, result.Err
		}
		return result.Val.(*T), nil
	}
}

func (c *cache[T]) current() *T {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.snapshot
}
