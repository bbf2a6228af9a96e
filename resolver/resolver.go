// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package resolver serves the on-chain state of the multisig ISM and the
// recipient registry from an in-memory snapshot.
//
// A snapshot is pulled from the chain on the first query and replaced
// wholesale by every successful Refresh. Queries never wait on the network
// once a snapshot exists.
package resolver

import (
	"context"
	"strings"

	cardano "github.com/eigerco/hyperlane-monorepo-sub001"
	"github.com/eigerco/hyperlane-monorepo-sub001/datum"
)

// Config names the on-chain resource a resolver reads.
type Config struct {
	// Name labels logs, metrics and errors, e.g. "ism"
	Name string
	// Locator is the marker token of the state output
	Locator cardano.ResourceLocator
	// ScriptHash is the script whose address is scanned when the marker
	// lookup fails. A zero hash disables the fallback.
	ScriptHash cardano.Hash
}

type source struct {
	config  Config
	locator *cardano.Locator
}

// payload locates the state output and returns its payload.
func (s source) payload(ctx context.Context, predicate cardano.OutputPredicate) (string, error) {
	out, err := s.locator.Locate(ctx, s.config.Locator, s.config.ScriptHash, predicate)
	if err != nil {
		return "", err
	}
	return s.locator.Payload(ctx, out)
}

// decodes accepts fallback outputs whose inline payload decodes with schema.
// Outputs referencing their payload by hash are accepted unchecked.
func decodes[T any](schema datum.Schema[T]) cardano.OutputPredicate {
	return func(out cardano.ResolvedOutput) bool {
		if !out.HasPayload() {
			return false
		}
		if out.InlinePayload == nil || strings.TrimSpace(*out.InlinePayload) == "" {
			return true
		}
		_, _, err := datum.Decode(*out.InlinePayload, schema)
		return err == nil
	}
}
