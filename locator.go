// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cardano

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxfi/log"
)

// Locator finds the output that carries the state of a logical resource.
//
// A resource is first looked up through its marker token. Deployments that
// do not mint a marker are served by scanning the outputs at the script's
// address instead.
type Locator struct {
	log   log.Logger
	chain ChainAPI
}

// NewLocator returns a Locator backed by chain.
func NewLocator(logger log.Logger, chain ChainAPI) *Locator {
	return &Locator{
		log:   logger,
		chain: chain,
	}
}

// Locate returns the output holding the state named by resource. If the
// marker lookup fails, the first output at the address of fallback that
// satisfies predicate is returned.
//
// Returns ErrNotFound if neither lookup yields an output, or ErrTransport if
// the chain API failed and no output could be found.
func (l *Locator) Locate(
	ctx context.Context,
	resource ResourceLocator,
	fallback Hash,
	predicate OutputPredicate,
) (*ResolvedOutput, error) {
	var primaryErr error
	if resource.IsZero() {
		primaryErr = ErrNotFound
	} else {
		out, err := l.chain.FindOutputByMarker(ctx, resource.PolicyID, resource.AssetName)
		if err == nil && out != nil {
			return out, nil
		}
		if err == nil {
			err = ErrNotFound
		}
		primaryErr = err

		l.log.Debug("marker lookup failed, scanning script address",
			log.Stringer("resource", resource),
			log.Stringer("scriptHash", fallback),
			log.Err(err),
		)
	}

	if fallback.IsZero() {
		return nil, locateError(resource, primaryErr, nil)
	}

	out, fallbackErr := l.scan(ctx, fallback, predicate)
	if fallbackErr == nil {
		return out, nil
	}
	return nil, locateError(resource, primaryErr, fallbackErr)
}

func (l *Locator) scan(ctx context.Context, scriptHash Hash, predicate OutputPredicate) (*ResolvedOutput, error) {
	address, err := l.chain.DeriveAddress(scriptHash)
	if err != nil {
		return nil, fmt.Errorf("failed to derive address of %s: %w", scriptHash, err)
	}

	outputs, err := l.chain.ListOutputsAtAddress(ctx, address)
	if err != nil {
		return nil, err
	}

	for i := range outputs {
		if predicate == nil || predicate(outputs[i]) {
			out := outputs[i]
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

// locateError picks the error to surface once both lookups failed: a
// transport failure wins over a plain miss so outages are not reported as
// missing deployments.
func locateError(resource ResourceLocator, primaryErr, fallbackErr error) error {
	for _, err := range []error{fallbackErr, primaryErr} {
		if err != nil && !errors.Is(err, ErrNotFound) {
			return NewError(ErrTransport, resource.String(), "", err)
		}
	}
	return NewError(ErrNotFound, resource.String(), "", errors.New("no state output"))
}

// Payload returns the hex encoded payload attached to out, fetching it by
// hash when it is not inlined.
func (l *Locator) Payload(ctx context.Context, out *ResolvedOutput) (string, error) {
	switch {
	case out.InlinePayload != nil && *out.InlinePayload != "":
		return *out.InlinePayload, nil
	case out.PayloadHash != nil && *out.PayloadHash != "":
		payload, err := l.chain.FetchPayloadByHash(ctx, *out.PayloadHash)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return "", NewError(ErrNotFound, out.String(), "payload", err)
			}
			return "", NewError(ErrTransport, out.String(), "payload", err)
		}
		return payload, nil
	default:
		return "", NewError(ErrInvalidDatum, out.String(), "payload", errors.New("output carries no payload"))
	}
}
