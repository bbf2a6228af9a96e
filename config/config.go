// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config loads the adapter configuration from YAML.
package config

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	cardano "github.com/eigerco/hyperlane-monorepo-sub001"
	"github.com/eigerco/hyperlane-monorepo-sub001/blockfrost"
	"github.com/eigerco/hyperlane-monorepo-sub001/checkpoint"
	"github.com/eigerco/hyperlane-monorepo-sub001/resolver"
)

const (
	DefaultNamespace         = "hyperlane_cardano"
	DefaultRequestsPerSecond = 10
	DefaultBurst             = 50
	DefaultTimeout           = 30 * time.Second
	DefaultHashFamily        = "blake2b256"

	maxAssetNameLen = 32
)

var (
	errMissingProjectID = errors.New("chain.project_id is required")
	errMissingResource  = errors.New("either a marker policy or a script hash is required")
	errNegativeRate     = errors.New("chain.requests_per_second must not be negative")
	errAssetName        = errors.New("asset_name must be at most 32 hex encoded bytes")
)

// Config is the adapter configuration.
type Config struct {
	Chain            Chain    `yaml:"chain"`
	ISM              Resource `yaml:"ism"`
	Registry         Resource `yaml:"registry"`
	Verifier         Verifier `yaml:"verifier"`
	MetricsNamespace string   `yaml:"metrics_namespace"`
}

// Chain configures the chain API client.
type Chain struct {
	BaseURL           string             `yaml:"base_url"`
	ProjectID         string             `yaml:"project_id"`
	Network           blockfrost.Network `yaml:"network"`
	RequestsPerSecond float64            `yaml:"requests_per_second"`
	Burst             int                `yaml:"burst"`
	Timeout           time.Duration      `yaml:"timeout"`
}

// Resource locates an on-chain state output.
type Resource struct {
	PolicyID  string `yaml:"policy_id"`
	AssetName string `yaml:"asset_name"`
	// ScriptHash is scanned when the marker lookup fails
	ScriptHash string `yaml:"script_hash"`
}

// Verifier configures checkpoint verification.
type Verifier struct {
	HashFamily string `yaml:"hash_family"`
}

// Default returns the configuration used for unset values.
func Default() Config {
	return Config{
		Chain: Chain{
			Network:           blockfrost.Preprod,
			RequestsPerSecond: DefaultRequestsPerSecond,
			Burst:             DefaultBurst,
			Timeout:           DefaultTimeout,
		},
		Verifier: Verifier{
			HashFamily: DefaultHashFamily,
		},
		MetricsNamespace: DefaultNamespace,
	}
}

// Load reads the file at path over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	config := Default()
	if err := unmarshalStrict(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.Chain.ProjectID == "" {
		return errMissingProjectID
	}
	if !c.Chain.Network.Valid() {
		return fmt.Errorf("chain.network: unknown network %q", c.Chain.Network)
	}
	if c.Chain.RequestsPerSecond < 0 {
		return errNegativeRate
	}
	if _, err := c.ISMConfig(); err != nil {
		return fmt.Errorf("ism: %w", err)
	}
	if _, err := c.RegistryConfig(); err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	if _, err := c.HashFamily(); err != nil {
		return fmt.Errorf("verifier.hash_family: %w", err)
	}
	return nil
}

// ChainConfig returns the chain API client configuration.
func (c Config) ChainConfig() blockfrost.Config {
	return blockfrost.Config{
		BaseURL:           c.Chain.BaseURL,
		ProjectID:         c.Chain.ProjectID,
		Network:           c.Chain.Network,
		RequestsPerSecond: c.Chain.RequestsPerSecond,
		Burst:             c.Chain.Burst,
		Timeout:           c.Chain.Timeout,
	}
}

// ISMConfig returns the resolver configuration of the multisig ISM.
func (c Config) ISMConfig() (resolver.Config, error) {
	return c.ISM.resolverConfig("ism")
}

// RegistryConfig returns the resolver configuration of the recipient
// registry.
func (c Config) RegistryConfig() (resolver.Config, error) {
	return c.Registry.resolverConfig("registry")
}

// HashFamily returns the hash family checkpoints are verified with.
func (c Config) HashFamily() (checkpoint.HashFamily, error) {
	return checkpoint.ParseHashFamily(c.Verifier.HashFamily)
}

func (r Resource) resolverConfig(name string) (resolver.Config, error) {
	config := resolver.Config{
		Name: name,
		Locator: cardano.ResourceLocator{
			PolicyID:  r.PolicyID,
			AssetName: r.AssetName,
		},
	}
	if r.PolicyID == "" && r.ScriptHash == "" {
		return config, errMissingResource
	}
	if r.PolicyID != "" {
		if _, err := cardano.ParseHash(r.PolicyID); err != nil {
			return config, fmt.Errorf("policy_id: %w", err)
		}
	}
	if b, err := hex.DecodeString(r.AssetName); err != nil || len(b) > maxAssetNameLen {
		return config, errAssetName
	}
	if r.ScriptHash != "" {
		scriptHash, err := cardano.ParseHash(r.ScriptHash)
		if err != nil {
			return config, fmt.Errorf("script_hash: %w", err)
		}
		config.ScriptHash = scriptHash
	}
	return config, nil
}

func unmarshalStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
