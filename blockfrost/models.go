// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package blockfrost

import (
	cardano "github.com/eigerco/hyperlane-monorepo-sub001"
)

// Amount is a quantity of a unit, lovelace or a native asset. Quantities are
// decimal strings.
type Amount struct {
	Unit     string `json:"unit"`
	Quantity string `json:"quantity"`
}

// UTxO is an unspent output as returned by the address endpoints.
type UTxO struct {
	Address             string   `json:"address"`
	TxHash              string   `json:"tx_hash"`
	OutputIndex         uint32   `json:"output_index"`
	Amount              []Amount `json:"amount"`
	Block               string   `json:"block"`
	DataHash            *string  `json:"data_hash"`
	InlineDatum         *string  `json:"inline_datum"`
	ReferenceScriptHash *string  `json:"reference_script_hash"`
}

// Output converts u into the chain-agnostic form. An inline datum takes
// precedence over the datum hash, which is always set alongside it.
func (u UTxO) Output() cardano.ResolvedOutput {
	out := cardano.ResolvedOutput{
		TxID:        u.TxHash,
		OutputIndex: u.OutputIndex,
	}
	switch {
	case u.InlineDatum != nil && *u.InlineDatum != "":
		out.InlinePayload = u.InlineDatum
	case u.DataHash != nil && *u.DataHash != "":
		out.PayloadHash = u.DataHash
	}
	return out
}

// AssetAddress is a holder of an asset.
type AssetAddress struct {
	Address  string `json:"address"`
	Quantity string `json:"quantity"`
}

// DatumCBOR is the body of the datum endpoint.
type DatumCBOR struct {
	CBOR string `json:"cbor"`
}

// apiError is the body of a failed request.
type apiError struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}
