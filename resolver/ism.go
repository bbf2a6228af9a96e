// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package resolver

import (
	"context"

	"github.com/luxfi/log"
	"github.com/luxfi/metric"

	cardano "github.com/eigerco/hyperlane-monorepo-sub001"
	"github.com/eigerco/hyperlane-monorepo-sub001/datum"
)

// MultisigISM resolves the validator set and threshold per origin domain.
type MultisigISM struct {
	cache *cache[cardano.MultisigTrustConfig]
}

// NewMultisigISM returns a MultisigISM reading the resource named by config.
func NewMultisigISM(
	logger log.Logger,
	locator *cardano.Locator,
	decoder *datum.Decoder,
	registerer metric.Registerer,
	namespace string,
	config Config,
) (*MultisigISM, error) {
	metrics, err := newMetrics(registerer, namespace, config.Name)
	if err != nil {
		return nil, err
	}

	s := source{
		config:  config,
		locator: locator,
	}
	predicate := decodes(datum.TrustConfigSchema)
	fetch := func(ctx context.Context) (*cardano.MultisigTrustConfig, error) {
		payload, err := s.payload(ctx, predicate)
		if err != nil {
			return nil, err
		}
		return decoder.TrustConfig(config.Name, payload)
	}
	return &MultisigISM{
		cache: newCache(config.Name, logger, metrics, fetch),
	}, nil
}

// Refresh replaces the cached trust config with the one currently on chain.
// On failure the previous snapshot keeps being served.
func (m *MultisigISM) Refresh(ctx context.Context) error {
	_, err := m.cache.refresh(ctx)
	return err
}

// Config returns the cached trust config, fetching it on first use.
// The returned value must not be modified.
func (m *MultisigISM) Config(ctx context.Context) (*cardano.MultisigTrustConfig, error) {
	return m.cache.get(ctx)
}

// GetValidatorsAndThreshold returns the validators and threshold configured
// for the origin domain. An unknown domain yields no validators and a zero
// threshold.
func (m *MultisigISM) GetValidatorsAndThreshold(ctx context.Context, domain uint32) ([]cardano.ValidatorKey, uint32, error) {
	config, err := m.cache.get(ctx)
	if err != nil {
		return nil, 0, err
	}
	validators, threshold := config.ValidatorsAndThreshold(domain)
	return validators, threshold, nil
}
