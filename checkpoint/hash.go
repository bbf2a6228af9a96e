// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package checkpoint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/luxfi/crypto"
	"github.com/luxfi/crypto/blake2b"
	"github.com/luxfi/ids"
)

var errUnknownHashFamily = errors.New("unknown hash family")

// HashFamily selects the 256-bit hash used for digests. A checkpoint is only
// ever hashed within a single family.
type HashFamily uint8

const (
	// Keccak256 is the family of EVM-style validators.
	Keccak256 HashFamily = iota + 1
	// Blake2b256 is the family of ledger-native validators.
	Blake2b256
)

// ParseHashFamily parses "keccak256" or "blake2b256".
func ParseHashFamily(s string) (HashFamily, error) {
	switch strings.ToLower(s) {
	case "keccak256":
		return Keccak256, nil
	case "blake2b256":
		return Blake2b256, nil
	default:
		return 0, fmt.Errorf("%w: %q", errUnknownHashFamily, s)
	}
}

// Valid reports whether f is a known family.
func (f HashFamily) Valid() bool {
	return f == Keccak256 || f == Blake2b256
}

// Sum hashes the concatenation of parts.
func (f HashFamily) Sum(parts ...[]byte) (ids.ID, error) {
	var out ids.ID
	switch f {
	case Keccak256:
		copy(out[:], crypto.Keccak256(parts...))
	case Blake2b256:
		// New256 only fails on keys longer than 64 bytes
		h, _ := blake2b.New256(nil)
		for _, part := range parts {
			_, _ = h.Write(part)
		}
		h.Sum(out[:0])
	default:
		return ids.Empty, fmt.Errorf("%w: %s", errUnknownHashFamily, f)
	}
	return out, nil
}

func (f HashFamily) String() string {
	switch f {
	case Keccak256:
		return "keccak256"
	case Blake2b256:
		return "blake2b256"
	default:
		return fmt.Sprintf("HashFamily(%d)", uint8(f))
	}
}
