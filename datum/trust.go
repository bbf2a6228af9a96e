// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package datum

import (
	cardano "github.com/eigerco/hyperlane-monorepo-sub001"
	"github.com/eigerco/hyperlane-monorepo-sub001/plutus"
)

// TrustConfigSchema decodes the multisig ISM datum:
//
//	Constr 0 [validators: assoc<domain, list<key>>, thresholds: assoc<domain, int>, owner: hash]
//
// A domain entry with a malformed key is dropped as a whole, leaving the
// domain without validators.
func TrustConfigSchema(v plutus.Value, path string, r *Report) (*cardano.MultisigTrustConfig, error) {
	fields, err := constr(v, path, 0, 3)
	if err != nil {
		return nil, err
	}

	validatorsPath := field(path, "validators")
	validatorEntries, err := entries(fields[0], validatorsPath, r)
	if err != nil {
		return nil, err
	}
	thresholdsPath := field(path, "thresholds")
	thresholdEntries, err := entries(fields[1], thresholdsPath, r)
	if err != nil {
		return nil, err
	}
	owner, err := hash(fields[2], field(path, "owner"))
	if err != nil {
		return nil, err
	}

	config := &cardano.MultisigTrustConfig{
		Validators: make(map[uint32][]cardano.ValidatorKey, len(validatorEntries)),
		Thresholds: make(map[uint32]uint32, len(thresholdEntries)),
		Owner:      owner,
	}
	for _, entry := range collect(pairValues(validatorEntries), validatorsPath, r, validatorEntry) {
		config.Validators[entry.domain] = entry.keys
	}
	for _, entry := range collect(pairValues(thresholdEntries), thresholdsPath, r, thresholdEntry) {
		config.Thresholds[entry.domain] = entry.threshold
	}
	return config, nil
}

type domainValidators struct {
	domain uint32
	keys   []cardano.ValidatorKey
}

type domainThreshold struct {
	domain    uint32
	threshold uint32
}

// pairValues lets association entries go through collect.
func pairValues(pairs []plutus.Pair) []plutus.Value {
	values := make([]plutus.Value, 0, len(pairs))
	for _, pair := range pairs {
		values = append(values, plutus.List{pair.Key, pair.Value})
	}
	return values
}

func validatorEntry(v plutus.Value, path string) (domainValidators, error) {
	pair, err := tuple(v, path)
	if err != nil {
		return domainValidators{}, err
	}
	domain, err := uint32Value(pair.Key, field(path, "domain"))
	if err != nil {
		return domainValidators{}, err
	}
	keysPath := field(path, "keys")
	items, err := list(pair.Value, keysPath)
	if err != nil {
		return domainValidators{}, err
	}

	keys := make([]cardano.ValidatorKey, 0, len(items))
	for i, item := range items {
		key, err := validatorKey(item, element(keysPath, i))
		if err != nil {
			return domainValidators{}, err
		}
		keys = append(keys, key)
	}
	return domainValidators{domain: domain, keys: keys}, nil
}

func thresholdEntry(v plutus.Value, path string) (domainThreshold, error) {
	pair, err := tuple(v, path)
	if err != nil {
		return domainThreshold{}, err
	}
	domain, err := uint32Value(pair.Key, field(path, "domain"))
	if err != nil {
		return domainThreshold{}, err
	}
	threshold, err := uint32Value(pair.Value, field(path, "threshold"))
	if err != nil {
		return domainThreshold{}, err
	}
	return domainThreshold{domain: domain, threshold: threshold}, nil
}
