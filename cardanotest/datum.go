// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package cardanotest provides fixtures and an in-memory chain for tests.
package cardanotest

import (
	"encoding/hex"
	"slices"

	cardano "github.com/eigerco/hyperlane-monorepo-sub001"
	"github.com/eigerco/hyperlane-monorepo-sub001/plutus"
)

// HashOf returns a hash made of 28 copies of b.
func HashOf(b byte) cardano.Hash {
	var h cardano.Hash
	for i := range h {
		h[i] = b
	}
	return h
}

// KeyOf returns a validator key made of 32 copies of b.
func KeyOf(b byte) cardano.ValidatorKey {
	var k cardano.ValidatorKey
	for i := range k {
		k[i] = b
	}
	return k
}

// TrustConfigValue encodes config as the multisig ISM datum. Domains are
// emitted in ascending order as a list of pair constructors.
func TrustConfigValue(config *cardano.MultisigTrustConfig) plutus.Value {
	validators := plutus.List{}
	for _, domain := range sortedKeys(config.Validators) {
		keys := plutus.List{}
		for _, key := range config.Validators[domain] {
			keys = append(keys, plutus.Bytes(key[:]))
		}
		validators = append(validators, plutus.NewConstr(0, plutus.NewUint(uint64(domain)), keys))
	}

	thresholds := plutus.List{}
	for _, domain := range sortedKeys(config.Thresholds) {
		thresholds = append(thresholds, plutus.NewConstr(0,
			plutus.NewUint(uint64(domain)),
			plutus.NewUint(uint64(config.Thresholds[domain])),
		))
	}

	return plutus.NewConstr(0, validators, thresholds, plutus.Bytes(config.Owner[:]))
}

// RegistryValue encodes state as the recipient registry datum.
func RegistryValue(state *cardano.RegistryState) plutus.Value {
	registrations := plutus.List{}
	for _, registration := range state.Registrations {
		registrations = append(registrations, RegistrationValue(registration))
	}
	return plutus.NewConstr(0, registrations, plutus.Bytes(state.Owner[:]))
}

// RegistrationValue encodes a single registration.
func RegistrationValue(reg cardano.RecipientRegistration) plutus.Value {
	inputs := plutus.List{}
	for _, input := range reg.AdditionalInputs {
		inputs = append(inputs, plutus.NewConstr(0,
			plutus.Bytes(input.Name),
			LocatorValue(input.Locator),
			plutus.Bool(input.MustBeSpent),
		))
	}

	var reference plutus.Value = plutus.None()
	if reg.ReferenceLocator != nil {
		reference = plutus.Some(LocatorValue(*reg.ReferenceLocator))
	}

	return plutus.NewConstr(0,
		plutus.Bytes(reg.ScriptHash[:]),
		plutus.Bytes(reg.Owner[:]),
		LocatorValue(reg.StateLocator),
		reference,
		inputs,
		kindValue(reg.Kind),
		optionalHash(reg.CustomVerifier),
	)
}

// LocatorValue encodes a resource locator. It panics on invalid hex.
func LocatorValue(locator cardano.ResourceLocator) plutus.Value {
	return plutus.NewConstr(0,
		plutus.Bytes(mustHex(locator.PolicyID)),
		plutus.Bytes(mustHex(locator.AssetName)),
	)
}

func kindValue(kind cardano.RecipientKind) plutus.Value {
	switch kind := kind.(type) {
	case cardano.TokenReceiver:
		var vault plutus.Value = plutus.None()
		if kind.VaultLocator != nil {
			vault = plutus.Some(LocatorValue(*kind.VaultLocator))
		}
		return plutus.NewConstr(1, vault, optionalHash(kind.MintingPolicy))
	case cardano.DeferredRecipient:
		return plutus.NewConstr(2, plutus.Bytes(kind.MessagePolicy[:]))
	default:
		return plutus.NewConstr(0)
	}
}

func optionalHash(h *cardano.Hash) plutus.Value {
	if h == nil {
		return plutus.None()
	}
	return plutus.Some(plutus.Bytes(h[:]))
}

// Hex returns the hex encoded compact binary form of v. It panics on error.
func Hex(v plutus.Value) string {
	s, err := plutus.EncodeHex(v)
	if err != nil {
		panic(err)
	}
	return s
}

// JSON returns the JSON projection of v. It panics on error.
func JSON(v plutus.Value) string {
	b, err := plutus.MarshalJSON(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func sortedKeys[V any](m map[uint32]V) []uint32 {
	keys := make([]uint32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
