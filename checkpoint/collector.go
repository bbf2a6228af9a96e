// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package checkpoint

import (
	"context"

	"github.com/luxfi/log"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentFetches = 16

// Source serves the checkpoints a single validator has signed.
type Source interface {
	// Fetch returns the validator's signed checkpoint at index.
	Fetch(ctx context.Context, index uint32) (*SignedCheckpoint, error)
}

// Collector gathers signatures over a checkpoint from validator sources.
type Collector struct {
	log     log.Logger
	sources []Source
}

// NewCollector returns a Collector querying sources.
func NewCollector(logger log.Logger, sources ...Source) *Collector {
	return &Collector{
		log:     logger,
		sources: sources,
	}
}

// Collect fetches every source's signature at target's index concurrently
// and aggregates those over target, in source order. Sources that fail or
// signed a different checkpoint are skipped.
//
// Returns ctx's error if it is done before every source answered.
func (c *Collector) Collect(ctx context.Context, target CheckpointWithMessage) (*MultisigSignedCheckpoint, error) {
	fetched := make([]*SignedCheckpoint, len(c.sources))

	var eg errgroup.Group
	eg.SetLimit(maxConcurrentFetches)
	for i, source := range c.sources {
		eg.Go(func() error {
			signed, err := source.Fetch(ctx, target.Index)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				c.log.Debug("failed to fetch signed checkpoint",
					log.Int("source", i),
					log.Uint32("index", target.Index),
					log.Err(err),
				)
				return nil
			}
			fetched[i] = signed
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	matching := make([]SignedCheckpoint, 0, len(fetched))
	for i, signed := range fetched {
		if signed == nil {
			continue
		}
		if signed.Checkpoint != target {
			c.log.Debug("dropping signature over another checkpoint",
				log.Int("source", i),
				log.Stringer("checkpoint", signed.Checkpoint),
				log.Stringer("target", target),
			)
			continue
		}
		matching = append(matching, *signed)
	}
	return Aggregate(matching)
}
