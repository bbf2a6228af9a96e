// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package blockfrost

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"

	cardano "github.com/eigerco/hyperlane-monorepo-sub001"
)

const (
	// header of an enterprise address with a script payment credential
	scriptEnterpriseHeader = 0x70

	mainnetID = 1
	testnetID = 0

	mainnetHRP = "addr"
	testnetHRP = "addr_test"
)

var errUnknownNetwork = errors.New("unknown network")

// Network is a ledger network served by the API.
type Network string

const (
	Mainnet Network = "mainnet"
	Preprod Network = "preprod"
	Preview Network = "preview"
)

// BaseURL returns the public API endpoint of n.
func (n Network) BaseURL() string {
	return fmt.Sprintf("https://cardano-%s.blockfrost.io/api/v0", n)
}

// Valid reports whether n is a known network.
func (n Network) Valid() bool {
	switch n {
	case Mainnet, Preprod, Preview:
		return true
	default:
		return false
	}
}

func (n Network) id() byte {
	if n == Mainnet {
		return mainnetID
	}
	return testnetID
}

func (n Network) hrp() string {
	if n == Mainnet {
		return mainnetHRP
	}
	return testnetHRP
}

// ScriptAddress returns the bech32 enterprise address of the script on n.
func ScriptAddress(n Network, scriptHash cardano.Hash) (string, error) {
	if !n.Valid() {
		return "", fmt.Errorf("%w: %q", errUnknownNetwork, n)
	}

	raw := make([]byte, 0, 1+cardano.HashLen)
	raw = append(raw, scriptEnterpriseHeader|n.id())
	raw = append(raw, scriptHash[:]...)

	data, err := bech32.ConvertBits(raw, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(n.hrp(), data)
}
