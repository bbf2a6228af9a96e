// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cardano

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// HashLen is the length of script hashes, policy ids and owner key hashes.
	HashLen = 28
	// ValidatorKeyLen is the length of a validator key.
	ValidatorKeyLen = 32
)

var (
	_ RecipientKind = GenericRecipient{}
	_ RecipientKind = TokenReceiver{}
	_ RecipientKind = DeferredRecipient{}
)

// Hash is a 28-byte blake2b-224 hash identifying a script, a minting policy
// or a key.
type Hash [HashLen]byte

// ParseHash parses a hex encoded 28-byte hash. A 0x prefix is accepted.
func ParseHash(s string) (Hash, error) {
	var h Hash
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return h, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	if len(b) != HashLen {
		return h, fmt.Errorf("invalid hash length %d, expected %d", len(b), HashLen)
	}
	copy(h[:], b)
	return h, nil
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	parsed, err := ParseHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// IsZero reports whether h is the zero hash.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// ValidatorKey is the 32-byte identity a validator signs checkpoints with.
type ValidatorKey [ValidatorKeyLen]byte

// ParseValidatorKey parses a hex encoded 32-byte validator key. A 0x prefix
// is accepted.
func ParseValidatorKey(s string) (ValidatorKey, error) {
	var k ValidatorKey
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return k, fmt.Errorf("invalid validator key %q: %w", s, err)
	}
	if len(b) != ValidatorKeyLen {
		return k, fmt.Errorf("invalid validator key length %d, expected %d", len(b), ValidatorKeyLen)
	}
	copy(k[:], b)
	return k, nil
}

func (k ValidatorKey) String() string {
	return hex.EncodeToString(k[:])
}

// ResourceLocator identifies a logical resource by the marker token the
// output holding its state carries. AssetName may be empty.
type ResourceLocator struct {
	PolicyID  string `json:"policyId" yaml:"policy_id"`
	AssetName string `json:"assetName" yaml:"asset_name"`
}

// Unit returns the concatenated policy id and asset name, the identifier
// chain indexers use for native assets.
func (r ResourceLocator) Unit() string {
	return strings.ToLower(r.PolicyID + r.AssetName)
}

// IsZero reports whether no marker token is configured.
func (r ResourceLocator) IsZero() bool {
	return r.PolicyID == ""
}

func (r ResourceLocator) String() string {
	if r.AssetName == "" {
		return r.PolicyID
	}
	return r.PolicyID + "." + r.AssetName
}

// ResolvedOutput is an unspent output located on chain. At most one of
// InlinePayload and PayloadHash is expected to be set.
type ResolvedOutput struct {
	TxID          string  `json:"txId"`
	OutputIndex   uint32  `json:"outputIndex"`
	InlinePayload *string `json:"inlinePayload,omitempty"`
	PayloadHash   *string `json:"payloadHash,omitempty"`
}

// HasPayload reports whether the output carries a payload, inline or by hash.
func (o ResolvedOutput) HasPayload() bool {
	return (o.InlinePayload != nil && *o.InlinePayload != "") ||
		(o.PayloadHash != nil && *o.PayloadHash != "")
}

func (o ResolvedOutput) String() string {
	return fmt.Sprintf("%s#%d", o.TxID, o.OutputIndex)
}

// MultisigTrustConfig is the validator set and threshold per origin domain
// the multisig ISM enforces.
type MultisigTrustConfig struct {
	Validators map[uint32][]ValidatorKey
	Thresholds map[uint32]uint32
	Owner      Hash
}

// ValidatorsAndThreshold returns a copy of the validators configured for
// domain along with the threshold. Unknown domains have no validators and a
// zero threshold, which never authorizes anything.
func (c *MultisigTrustConfig) ValidatorsAndThreshold(domain uint32) ([]ValidatorKey, uint32) {
	if c == nil {
		return []ValidatorKey{}, 0
	}

	validators := c.Validators[domain]
	out := make([]ValidatorKey, len(validators))
	copy(out, validators)
	return out, c.Thresholds[domain]
}

// Domains returns the domains that have validators configured.
func (c *MultisigTrustConfig) Domains() []uint32 {
	domains := make([]uint32, 0, len(c.Validators))
	for domain := range c.Validators {
		domains = append(domains, domain)
	}
	return domains
}

// AdditionalInput is an extra output a recipient needs referenced or spent
// when a message is delivered to it.
type AdditionalInput struct {
	Name        string          `json:"name"`
	Locator     ResourceLocator `json:"locator"`
	MustBeSpent bool            `json:"mustBeSpent"`
}

// RecipientKind describes how a recipient consumes delivered messages.
type RecipientKind interface {
	fmt.Stringer

	isRecipientKind()
}

// GenericRecipient handles messages in its own script.
type GenericRecipient struct{}

func (GenericRecipient) isRecipientKind() {}

func (GenericRecipient) String() string { return "generic" }

// TokenReceiver is a token bridge recipient that releases from a vault or
// mints through a policy.
type TokenReceiver struct {
	VaultLocator  *ResourceLocator `json:"vaultLocator,omitempty"`
	MintingPolicy *Hash            `json:"mintingPolicy,omitempty"`
}

func (TokenReceiver) isRecipientKind() {}

func (TokenReceiver) String() string { return "token_receiver" }

// DeferredRecipient stores messages to be processed later, gated by a
// message policy.
type DeferredRecipient struct {
	MessagePolicy Hash `json:"messagePolicy"`
}

func (DeferredRecipient) isRecipientKind() {}

func (DeferredRecipient) String() string { return "deferred" }

// RecipientRegistration is the registry entry of a message recipient script.
type RecipientRegistration struct {
	ScriptHash       Hash
	Owner            Hash
	StateLocator     ResourceLocator
	ReferenceLocator *ResourceLocator
	AdditionalInputs []AdditionalInput
	Kind             RecipientKind
	CustomVerifier   *Hash
}

// RegistryState is the decoded state of the recipient registry.
type RegistryState struct {
	Registrations []RecipientRegistration
	Owner         Hash
}

// Index maps the hex script hash of each registration to the registration.
// Later duplicates overwrite earlier ones.
func (s *RegistryState) Index() map[string]RecipientRegistration {
	index := make(map[string]RecipientRegistration, len(s.Registrations))
	for _, registration := range s.Registrations {
		index[registration.ScriptHash.String()] = registration
	}
	return index
}
