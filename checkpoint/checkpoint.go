// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package checkpoint builds the digests validators sign over message
// checkpoints and evaluates multisig quorums over them.
package checkpoint

import (
	"encoding/binary"
	"fmt"

	"github.com/luxfi/ids"

	cardano "github.com/eigerco/hyperlane-monorepo-sub001"
)

// ProtocolTag is mixed into every domain separator.
const ProtocolTag = "HYPERLANE"

// Checkpoint commits to the root of the origin mailbox's message tree at
// a given index.
type Checkpoint struct {
	HookAddress   ids.ID `json:"hookAddress"`
	MailboxDomain uint32 `json:"mailboxDomain"`
	Root          ids.ID `json:"root"`
	Index         uint32 `json:"index"`
}

// CheckpointWithMessage is a checkpoint bound to the id of the message
// being delivered.
type CheckpointWithMessage struct {
	Checkpoint
	MessageID ids.ID `json:"messageId"`
}

func (c CheckpointWithMessage) String() string {
	return fmt.Sprintf("%d/%d/%x", c.MailboxDomain, c.Index, c.MessageID[:])
}

// SignedCheckpoint is one validator's signature over a checkpoint.
type SignedCheckpoint struct {
	Checkpoint CheckpointWithMessage
	Signature  []byte
}

// MultisigSignedCheckpoint is a checkpoint with the signatures of several
// validators, in submission order.
type MultisigSignedCheckpoint struct {
	Checkpoint CheckpointWithMessage
	Signatures [][]byte
}

// DomainSeparator returns H(hook ‖ be32(domain) ‖ ProtocolTag).
func DomainSeparator(family HashFamily, hook ids.ID, domain uint32) (ids.ID, error) {
	return family.Sum(
		hook[:],
		binary.BigEndian.AppendUint32(nil, domain),
		[]byte(ProtocolTag),
	)
}

// SigningDigest returns the digest validators sign for c:
//
//	H(DomainSeparator(hook, domain) ‖ root ‖ be32(index) ‖ message_id)
//
// Both hashes use family, which must be valid.
func SigningDigest(c CheckpointWithMessage, family HashFamily) (ids.ID, error) {
	separator, err := DomainSeparator(family, c.HookAddress, c.MailboxDomain)
	if err != nil {
		return ids.Empty, err
	}
	return family.Sum(
		separator[:],
		c.Root[:],
		binary.BigEndian.AppendUint32(nil, c.Index),
		c.MessageID[:],
	)
}

// Aggregate combines signatures over the same checkpoint, keeping their
// order. Duplicates are kept.
//
// Returns cardano.ErrEmptySignatures if signed is empty, or
// cardano.ErrInconsistentCheckpoints if any element signs a checkpoint other
// than the first one.
func Aggregate(signed []SignedCheckpoint) (*MultisigSignedCheckpoint, error) {
	if len(signed) == 0 {
		return nil, cardano.ErrEmptySignatures
	}

	first := signed[0].Checkpoint
	signatures := make([][]byte, 0, len(signed))
	for i, s := range signed {
		if s.Checkpoint != first {
			return nil, fmt.Errorf("%w: element %d signs %s, expected %s",
				cardano.ErrInconsistentCheckpoints,
				i,
				s.Checkpoint,
				first,
			)
		}
		signatures = append(signatures, s.Signature)
	}
	return &MultisigSignedCheckpoint{
		Checkpoint: first,
		Signatures: signatures,
	}, nil
}
