// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package checkpoint

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxfi/log"
	"github.com/luxfi/math/set"

	cardano "github.com/eigerco/hyperlane-monorepo-sub001"
)

var (
	// ErrQuorumNotReached is returned when fewer distinct validators than
	// the threshold signed a checkpoint.
	ErrQuorumNotReached = errors.New("quorum not reached")
	// ErrDomainMismatch is returned when a checkpoint was produced by a
	// mailbox of another domain than the message origin.
	ErrDomainMismatch = errors.New("checkpoint domain mismatch")

	errNilCheckpoint      = errors.New("nil checkpoint")
	errInvalidScheme      = errors.New("scheme has an unknown hash family")
	errNilValidatorSource = errors.New("nil validator source")
)

// ValidatorSource provides the validator set and threshold of an origin
// domain.
type ValidatorSource interface {
	GetValidatorsAndThreshold(ctx context.Context, domain uint32) ([]cardano.ValidatorKey, uint32, error)
}

// Quorum is the outcome of evaluating a multisig checkpoint.
type Quorum struct {
	Threshold uint32
	// Signers are the distinct validators with a valid signature, in the
	// order their first signature was submitted
	Signers []cardano.ValidatorKey
}

// Reached reports whether enough validators signed. A zero threshold is
// never reached.
func (q Quorum) Reached() bool {
	return q.Threshold > 0 && uint64(len(q.Signers)) >= uint64(q.Threshold)
}

// Verifier authorizes messages by checking multisig checkpoints against the
// validator sets of their origin domain.
type Verifier struct {
	log    log.Logger
	source ValidatorSource
	scheme Scheme
}

// NewVerifier returns a Verifier matching signatures with scheme.
func NewVerifier(logger log.Logger, source ValidatorSource, scheme Scheme) (*Verifier, error) {
	if source == nil {
		return nil, errNilValidatorSource
	}
	if scheme == nil || !scheme.Family().Valid() {
		return nil, errInvalidScheme
	}
	return &Verifier{
		log:    logger,
		source: source,
		scheme: scheme,
	}, nil
}

// Verify evaluates signed against the validators of origin. Signatures that
// do not verify, or that belong to a validator already counted, are ignored.
//
// Returns ErrQuorumNotReached along with the partial quorum if too few
// validators signed.
func (v *Verifier) Verify(ctx context.Context, origin uint32, signed *MultisigSignedCheckpoint) (Quorum, error) {
	if signed == nil {
		return Quorum{}, errNilCheckpoint
	}
	if signed.Checkpoint.MailboxDomain != origin {
		return Quorum{}, fmt.Errorf("%w: checkpoint of domain %d, message from %d",
			ErrDomainMismatch,
			signed.Checkpoint.MailboxDomain,
			origin,
		)
	}

	validators, threshold, err := v.source.GetValidatorsAndThreshold(ctx, origin)
	if err != nil {
		return Quorum{}, err
	}

	digest, err := SigningDigest(signed.Checkpoint, v.scheme.Family())
	if err != nil {
		return Quorum{}, err
	}
	counted := set.NewSet[cardano.ValidatorKey](len(validators))
	quorum := Quorum{Threshold: threshold}
	for i, sig := range signed.Signatures {
		key, ok := v.scheme.Signer(digest, sig, validators)
		if !ok {
			v.log.Debug("ignoring signature of unknown validator",
				log.Uint32("origin", origin),
				log.Int("index", i),
				log.Binary("signature", sig),
			)
			continue
		}
		if counted.Contains(key) {
			continue
		}
		counted.Add(key)
		quorum.Signers = append(quorum.Signers, key)
	}

	if !quorum.Reached() {
		return quorum, fmt.Errorf("%w: %d of %d validators signed %s",
			ErrQuorumNotReached,
			len(quorum.Signers),
			threshold,
			signed.Checkpoint,
		)
	}
	return quorum, nil
}
