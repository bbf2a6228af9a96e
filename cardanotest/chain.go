// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cardanotest

import (
	"context"
	"fmt"
	"sync"

	cardano "github.com/eigerco/hyperlane-monorepo-sub001"
)

var _ cardano.ChainAPI = (*Chain)(nil)

// Chain is an in-memory cardano.ChainAPI.
//
// OnFetch, if set, is called at the start of every marker lookup and address
// scan; tests use it to hold a refresh in flight.
type Chain struct {
	OnFetch func(ctx context.Context)

	lock      sync.Mutex
	markers   map[string]cardano.ResolvedOutput
	addresses map[string][]cardano.ResolvedOutput
	payloads  map[string]string
	err       error
	lookups   int
}

// NewChain returns an empty Chain.
func NewChain() *Chain {
	return &Chain{
		markers:   make(map[string]cardano.ResolvedOutput),
		addresses: make(map[string][]cardano.ResolvedOutput),
		payloads:  make(map[string]string),
	}
}

// SetMarker makes out the holder of the marker token of resource.
func (c *Chain) SetMarker(resource cardano.ResourceLocator, out cardano.ResolvedOutput) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.markers[resource.Unit()] = out
}

// SetInlinePayload replaces the marker output of resource with one carrying
// payload inline.
func (c *Chain) SetInlinePayload(resource cardano.ResourceLocator, payload string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	n := len(c.markers)
	c.markers[resource.Unit()] = cardano.ResolvedOutput{
		TxID:          fmt.Sprintf("%064x", n+1),
		InlinePayload: &payload,
	}
}

// AddOutput adds out to the outputs locked by scriptHash.
func (c *Chain) AddOutput(scriptHash cardano.Hash, out cardano.ResolvedOutput) {
	c.lock.Lock()
	defer c.lock.Unlock()

	address := scriptAddress(scriptHash)
	c.addresses[address] = append(c.addresses[address], out)
}

// SetPayload stores payload under hash.
func (c *Chain) SetPayload(hash, payload string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.payloads[hash] = payload
}

// SetErr makes every network call fail with err wrapped as a transport
// failure. A nil err restores normal operation.
func (c *Chain) SetErr(err error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.err = err
}

// Lookups returns the number of marker lookups served.
func (c *Chain) Lookups() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.lookups
}

func (c *Chain) FindOutputByMarker(ctx context.Context, policyID, assetName string) (*cardano.ResolvedOutput, error) {
	if c.OnFetch != nil {
		c.OnFetch(ctx)
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	c.lookups++
	if c.err != nil {
		return nil, fmt.Errorf("%w: %w", cardano.ErrTransport, c.err)
	}
	out, ok := c.markers[cardano.ResourceLocator{PolicyID: policyID, AssetName: assetName}.Unit()]
	if !ok {
		return nil, fmt.Errorf("marker %s%s: %w", policyID, assetName, cardano.ErrNotFound)
	}
	return &out, nil
}

func (c *Chain) ListOutputsAtAddress(ctx context.Context, address string) ([]cardano.ResolvedOutput, error) {
	if c.OnFetch != nil {
		c.OnFetch(ctx)
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	if c.err != nil {
		return nil, fmt.Errorf("%w: %w", cardano.ErrTransport, c.err)
	}
	outputs := make([]cardano.ResolvedOutput, len(c.addresses[address]))
	copy(outputs, c.addresses[address])
	return outputs, nil
}

func (*Chain) DeriveAddress(scriptHash cardano.Hash) (string, error) {
	return scriptAddress(scriptHash), nil
}

func (c *Chain) FetchPayloadByHash(_ context.Context, hash string) (string, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.err != nil {
		return "", fmt.Errorf("%w: %w", cardano.ErrTransport, c.err)
	}
	payload, ok := c.payloads[hash]
	if !ok {
		return "", fmt.Errorf("payload %s: %w", hash, cardano.ErrNotFound)
	}
	return payload, nil
}

func scriptAddress(scriptHash cardano.Hash) string {
	return "script1" + scriptHash.String()
}
