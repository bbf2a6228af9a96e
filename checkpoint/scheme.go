// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package checkpoint

import (
	"crypto/ecdsa"
	"crypto/rand"
	"errors"

	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/luxfi/crypto"
	"github.com/luxfi/ids"

	cardano "github.com/eigerco/hyperlane-monorepo-sub001"
)

const (
	secp256k1SignatureLen = 65
	// recovery ids on the wire are offset by 27
	secp256k1RecoveryOffset = 27
	addressLen              = 20
)

var (
	_ Scheme = Secp256k1{}
	_ Scheme = Ed25519{}

	_ Signer = (*Secp256k1Signer)(nil)
	_ Signer = (*Ed25519Signer)(nil)

	errInvalidSignatureLength = errors.New("invalid signature length")
	errInvalidRecoveryID      = errors.New("invalid recovery id")

	eip191Prefix = []byte("\x19Ethereum Signed Message:\n32")
)

// Scheme matches signatures over a signing digest to validator keys. A
// scheme is bound to the hash family its validators sign with.
type Scheme interface {
	Family() HashFamily
	// Signer returns the key in validators that produced sig over digest.
	Signer(digest ids.ID, sig []byte, validators []cardano.ValidatorKey) (cardano.ValidatorKey, bool)
}

// Signer produces validator signatures over checkpoints.
type Signer interface {
	Key() cardano.ValidatorKey
	Sign(c CheckpointWithMessage) (SignedCheckpoint, error)
}

// Secp256k1 is the scheme of EVM validators. Validators sign the EIP-191
// personal message hash of the keccak256 digest and are identified by their
// 20-byte address, left padded to 32 bytes.
type Secp256k1 struct{}

func (Secp256k1) Family() HashFamily {
	return Keccak256
}

func (Secp256k1) Signer(digest ids.ID, sig []byte, validators []cardano.ValidatorKey) (cardano.ValidatorKey, bool) {
	key, err := recoverSecp256k1(digest, sig)
	if err != nil {
		return cardano.ValidatorKey{}, false
	}
	for _, validator := range validators {
		if validator == key {
			return key, true
		}
	}
	return cardano.ValidatorKey{}, false
}

func eip191Hash(digest ids.ID) []byte {
	return crypto.Keccak256(eip191Prefix, digest[:])
}

func recoverSecp256k1(digest ids.ID, sig []byte) (cardano.ValidatorKey, error) {
	if len(sig) != secp256k1SignatureLen {
		return cardano.ValidatorKey{}, errInvalidSignatureLength
	}

	normalized := make([]byte, secp256k1SignatureLen)
	copy(normalized, sig)
	if normalized[64] >= secp256k1RecoveryOffset {
		normalized[64] -= secp256k1RecoveryOffset
	}
	if normalized[64] > 1 {
		return cardano.ValidatorKey{}, errInvalidRecoveryID
	}

	pub, err := crypto.SigToPub(eip191Hash(digest), normalized)
	if err != nil {
		return cardano.ValidatorKey{}, err
	}
	return AddressKey(crypto.PubkeyToAddress(*pub).Bytes()), nil
}

// AddressKey left pads a 20-byte address into a validator key.
func AddressKey(address []byte) cardano.ValidatorKey {
	var key cardano.ValidatorKey
	copy(key[cardano.ValidatorKeyLen-addressLen:], address)
	return key
}

// Secp256k1Signer signs checkpoints with a secp256k1 key.
type Secp256k1Signer struct {
	key *ecdsa.PrivateKey
}

// NewSecp256k1Signer returns a signer for key.
func NewSecp256k1Signer(key *ecdsa.PrivateKey) *Secp256k1Signer {
	return &Secp256k1Signer{key: key}
}

// GenerateSecp256k1Signer returns a signer for a fresh random key.
func GenerateSecp256k1Signer() (*Secp256k1Signer, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return NewSecp256k1Signer(key), nil
}

func (s *Secp256k1Signer) Key() cardano.ValidatorKey {
	return AddressKey(crypto.PubkeyToAddress(s.key.PublicKey).Bytes())
}

func (s *Secp256k1Signer) Sign(c CheckpointWithMessage) (SignedCheckpoint, error) {
	digest, err := SigningDigest(c, Keccak256)
	if err != nil {
		return SignedCheckpoint{}, err
	}
	sig, err := crypto.Sign(eip191Hash(digest), s.key)
	if err != nil {
		return SignedCheckpoint{}, err
	}
	sig[64] += secp256k1RecoveryOffset
	return SignedCheckpoint{
		Checkpoint: c,
		Signature:  sig,
	}, nil
}

// Ed25519 is the scheme of ledger-native validators. Validators sign the
// blake2b256 digest directly and are identified by their public key.
type Ed25519 struct{}

func (Ed25519) Family() HashFamily {
	return Blake2b256
}

func (Ed25519) Signer(digest ids.ID, sig []byte, validators []cardano.ValidatorKey) (cardano.ValidatorKey, bool) {
	if len(sig) != ed25519.SignatureSize {
		return cardano.ValidatorKey{}, false
	}
	for _, validator := range validators {
		if ed25519.Verify(ed25519.PublicKey(validator[:]), digest[:], sig) {
			return validator, true
		}
	}
	return cardano.ValidatorKey{}, false
}

// Ed25519Signer signs checkpoints with an ed25519 key.
type Ed25519Signer struct {
	key ed25519.PrivateKey
}

// NewEd25519Signer returns a signer for key.
func NewEd25519Signer(key ed25519.PrivateKey) *Ed25519Signer {
	return &Ed25519Signer{key: key}
}

// GenerateEd25519Signer returns a signer for a fresh random key.
func GenerateEd25519Signer() (*Ed25519Signer, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return NewEd25519Signer(key), nil
}

func (s *Ed25519Signer) Key() cardano.ValidatorKey {
	var key cardano.ValidatorKey
	copy(key[:], s.key.Public().(ed25519.PublicKey))
	return key
}

func (s *Ed25519Signer) Sign(c CheckpointWithMessage) (SignedCheckpoint, error) {
	digest, err := SigningDigest(c, Blake2b256)
	if err != nil {
		return SignedCheckpoint{}, err
	}
	return SignedCheckpoint{
		Checkpoint: c,
		Signature:  ed25519.Sign(s.key, digest[:]),
	}, nil
}
