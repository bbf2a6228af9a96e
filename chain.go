// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cardano

import "context"

// ChainAPI is the subset of a chain indexing API the adapter relies on.
//
// Implementations must return errors wrapping ErrNotFound when the requested
// object does not exist, and ErrTransport for any other failure.
type ChainAPI interface {
	// FindOutputByMarker returns the unspent output currently holding the
	// token identified by policyID and assetName.
	FindOutputByMarker(ctx context.Context, policyID, assetName string) (*ResolvedOutput, error)
	// ListOutputsAtAddress returns all unspent outputs locked at address.
	ListOutputsAtAddress(ctx context.Context, address string) ([]ResolvedOutput, error)
	// DeriveAddress returns the address of the script with the given hash.
	DeriveAddress(scriptHash Hash) (string, error)
	// FetchPayloadByHash returns the hex encoded payload with the given hash.
	FetchPayloadByHash(ctx context.Context, hash string) (string, error)
}

// OutputPredicate selects candidate outputs during a fallback lookup.
type OutputPredicate func(ResolvedOutput) bool

// HasPayload selects outputs that carry a payload.
func HasPayload(o ResolvedOutput) bool {
	return o.HasPayload()
}
