// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package datum

import (
	"encoding/hex"
	"unicode/utf8"

	cardano "github.com/eigerco/hyperlane-monorepo-sub001"
	"github.com/eigerco/hyperlane-monorepo-sub001/plutus"
)

const (
	kindGeneric       = 0
	kindTokenReceiver = 1
	kindDeferred      = 2
)

// RegistrySchema decodes the recipient registry datum:
//
//	Constr 0 [registrations: list<registration>, owner: hash]
//
// Malformed registrations are dropped.
func RegistrySchema(v plutus.Value, path string, r *Report) (*cardano.RegistryState, error) {
	fields, err := constr(v, path, 0, 2)
	if err != nil {
		return nil, err
	}

	registrationsPath := field(path, "registrations")
	items, err := list(fields[0], registrationsPath)
	if err != nil {
		return nil, err
	}
	owner, err := hash(fields[1], field(path, "owner"))
	if err != nil {
		return nil, err
	}

	registrations := collect(items, registrationsPath, r, func(v plutus.Value, path string) (cardano.RecipientRegistration, error) {
		return RegistrationSchema(v, path, r)
	})
	return &cardano.RegistryState{
		Registrations: registrations,
		Owner:         owner,
	}, nil
}

// RegistrationSchema decodes a single recipient registration:
//
//	Constr 0 [
//	  script_hash: hash,
//	  owner: hash,
//	  state_locator: locator,
//	  reference_locator: option<locator>,
//	  additional_inputs: list<additional_input>,
//	  recipient_kind: kind,
//	  custom_verifier: option<hash>,
//	]
func RegistrationSchema(v plutus.Value, path string, r *Report) (cardano.RecipientRegistration, error) {
	var reg cardano.RecipientRegistration
	fields, err := constr(v, path, 0, 7)
	if err != nil {
		return reg, err
	}

	if reg.ScriptHash, err = hash(fields[0], field(path, "script_hash")); err != nil {
		return reg, err
	}
	if reg.Owner, err = hash(fields[1], field(path, "owner")); err != nil {
		return reg, err
	}
	if reg.StateLocator, err = resourceLocator(fields[2], field(path, "state_locator")); err != nil {
		return reg, err
	}
	if reg.ReferenceLocator, err = option(fields[3], field(path, "reference_locator"), resourceLocator); err != nil {
		return reg, err
	}

	inputsPath := field(path, "additional_inputs")
	inputs, err := list(fields[4], inputsPath)
	if err != nil {
		return reg, err
	}
	reg.AdditionalInputs = collect(inputs, inputsPath, r, additionalInput)

	if reg.Kind, err = recipientKind(fields[5], field(path, "recipient_kind")); err != nil {
		return reg, err
	}
	if reg.CustomVerifier, err = option(fields[6], field(path, "custom_verifier"), hash); err != nil {
		return reg, err
	}
	return reg, nil
}

// ResourceLocatorSchema decodes Constr 0 [policy_id: hash, asset_name: bytes].
func ResourceLocatorSchema(v plutus.Value, path string, _ *Report) (cardano.ResourceLocator, error) {
	return resourceLocator(v, path)
}

func resourceLocator(v plutus.Value, path string) (cardano.ResourceLocator, error) {
	fields, err := constr(v, path, 0, 2)
	if err != nil {
		return cardano.ResourceLocator{}, err
	}
	policyID, err := hash(fields[0], field(path, "policy_id"))
	if err != nil {
		return cardano.ResourceLocator{}, err
	}
	assetNamePath := field(path, "asset_name")
	assetName, err := byteString(fields[1], assetNamePath)
	if err != nil {
		return cardano.ResourceLocator{}, err
	}
	if len(assetName) > maxAssetNameLen {
		return cardano.ResourceLocator{}, invalid(assetNamePath, "asset name is %d bytes, at most %d allowed", len(assetName), maxAssetNameLen)
	}
	return cardano.ResourceLocator{
		PolicyID:  policyID.String(),
		AssetName: hex.EncodeToString(assetName),
	}, nil
}

func additionalInput(v plutus.Value, path string) (cardano.AdditionalInput, error) {
	fields, err := constr(v, path, 0, 3)
	if err != nil {
		return cardano.AdditionalInput{}, err
	}
	namePath := field(path, "name")
	name, err := byteString(fields[0], namePath)
	if err != nil {
		return cardano.AdditionalInput{}, err
	}
	if !utf8.Valid(name) {
		return cardano.AdditionalInput{}, invalid(namePath, "name is not valid utf-8")
	}
	locator, err := resourceLocator(fields[1], field(path, "locator"))
	if err != nil {
		return cardano.AdditionalInput{}, err
	}
	mustBeSpent, err := boolean(fields[2], field(path, "must_be_spent"))
	if err != nil {
		return cardano.AdditionalInput{}, err
	}
	return cardano.AdditionalInput{
		Name:        string(name),
		Locator:     locator,
		MustBeSpent: mustBeSpent,
	}, nil
}

func recipientKind(v plutus.Value, path string) (cardano.RecipientKind, error) {
	c, ok := v.(plutus.Constr)
	if !ok {
		return nil, invalid(path, "expected recipient kind, got %s", plutus.Kind(v))
	}

	switch c.Index {
	case kindGeneric:
		return cardano.GenericRecipient{}, nil
	case kindTokenReceiver:
		fields, err := constr(v, path, kindTokenReceiver, 2)
		if err != nil {
			return nil, err
		}
		vault, err := option(fields[0], field(path, "vault_locator"), resourceLocator)
		if err != nil {
			return nil, err
		}
		mintingPolicy, err := option(fields[1], field(path, "minting_policy"), hash)
		if err != nil {
			return nil, err
		}
		return cardano.TokenReceiver{
			VaultLocator:  vault,
			MintingPolicy: mintingPolicy,
		}, nil
	case kindDeferred:
		fields, err := constr(v, path, kindDeferred, 1)
		if err != nil {
			return nil, err
		}
		messagePolicy, err := hash(fields[0], field(path, "message_policy"))
		if err != nil {
			return nil, err
		}
		return cardano.DeferredRecipient{MessagePolicy: messagePolicy}, nil
	default:
		return nil, invalid(path, "unknown recipient kind %d", c.Index)
	}
}
