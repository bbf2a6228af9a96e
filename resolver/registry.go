// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package resolver

import (
	"context"
	"slices"

	"github.com/luxfi/log"
	"github.com/luxfi/metric"

	cardano "github.com/eigerco/hyperlane-monorepo-sub001"
	"github.com/eigerco/hyperlane-monorepo-sub001/datum"
)

type registrySnapshot struct {
	state        *cardano.RegistryState
	byScriptHash map[string]cardano.RecipientRegistration
}

// Registry resolves recipient registrations by script hash.
type Registry struct {
	name  string
	cache *cache[registrySnapshot]
}

// NewRegistry returns a Registry reading the resource named by config.
func NewRegistry(
	logger log.Logger,
	locator *cardano.Locator,
	decoder *datum.Decoder,
	registerer metric.Registerer,
	namespace string,
	config Config,
) (*Registry, error) {
	metrics, err := newMetrics(registerer, namespace, config.Name)
	if err != nil {
		return nil, err
	}

	s := source{
		config:  config,
		locator: locator,
	}
	predicate := decodes(datum.RegistrySchema)
	fetch := func(ctx context.Context) (*registrySnapshot, error) {
		payload, err := s.payload(ctx, predicate)
		if err != nil {
			return nil, err
		}
		state, err := decoder.Registry(config.Name, payload)
		if err != nil {
			return nil, err
		}
		return &registrySnapshot{
			state:        state,
			byScriptHash: state.Index(),
		}, nil
	}
	return &Registry{
		name:  config.Name,
		cache: newCache(config.Name, logger, metrics, fetch),
	}, nil
}

// Refresh replaces the cached registry with the one currently on chain.
// On failure the previous snapshot keeps being served.
func (r *Registry) Refresh(ctx context.Context) error {
	_, err := r.cache.refresh(ctx)
	return err
}

// GetRegistration returns the registration of the recipient script.
//
// Returns cardano.ErrRecipientNotFound if the script is not registered.
func (r *Registry) GetRegistration(ctx context.Context, scriptHash cardano.Hash) (cardano.RecipientRegistration, error) {
	snapshot, err := r.cache.get(ctx)
	if err != nil {
		return cardano.RecipientRegistration{}, err
	}
	registration, ok := snapshot.byScriptHash[scriptHash.String()]
	if !ok {
		return cardano.RecipientRegistration{}, cardano.NewError(cardano.ErrRecipientNotFound, r.name, "", nil)
	}
	return registration, nil
}

// GetAllRegistrations returns every registration in on-chain order.
func (r *Registry) GetAllRegistrations(ctx context.Context) ([]cardano.RecipientRegistration, error) {
	snapshot, err := r.cache.get(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(snapshot.state.Registrations), nil
}

// Owner returns the key hash allowed to update the registry.
func (r *Registry) Owner(ctx context.Context) (cardano.Hash, error) {
	snapshot, err := r.cache.get(ctx)
	if err != nil {
		return cardano.Hash{}, err
	}
	return snapshot.state.Owner, nil
}
