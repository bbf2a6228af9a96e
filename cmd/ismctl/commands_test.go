// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	cardano "github.com/eigerco/hyperlane-monorepo-sub001"
	"github.com/eigerco/hyperlane-monorepo-sub001/blockfrost"
	"github.com/eigerco/hyperlane-monorepo-sub001/cardanotest"
	"github.com/eigerco/hyperlane-monorepo-sub001/checkpoint"
)

const (
	testPolicy = "a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1"
	testScript = "b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2b2"
	ismAsset   = "69736d"
	regAsset   = "726567"
	holder     = "addr_test1holder"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// writeConfig starts a fake chain API serving the ISM and registry state
// and returns a configuration file pointing at it.
func writeConfig(t *testing.T) string {
	t.Helper()

	trustConfig := &cardano.MultisigTrustConfig{
		Validators: map[uint32][]cardano.ValidatorKey{
			100: {cardanotest.KeyOf(0x01), cardanotest.KeyOf(0x02)},
		},
		Thresholds: map[uint32]uint32{100: 2},
		Owner:      cardanotest.HashOf(0xee),
	}
	registry := &cardano.RegistryState{
		Registrations: []cardano.RecipientRegistration{{
			ScriptHash:   cardanotest.HashOf(0x11),
			Owner:        cardanotest.HashOf(0xee),
			StateLocator: cardano.ResourceLocator{PolicyID: testPolicy, AssetName: "01"},
			Kind:         cardano.GenericRecipient{},
		}},
		Owner: cardanotest.HashOf(0xee),
	}
	payloads := map[string]string{
		ismAsset: cardanotest.Hex(cardanotest.TrustConfigValue(trustConfig)),
		regAsset: cardanotest.Hex(cardanotest.RegistryValue(registry)),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		for asset, payload := range payloads {
			unit := testPolicy + asset
			switch r.URL.Path {
			case "/assets/" + unit + "/addresses":
				_ = json.NewEncoder(w).Encode([]blockfrost.AssetAddress{{Address: holder, Quantity: "1"}})
				return
			case "/addresses/" + holder + "/utxos/" + unit:
				_ = json.NewEncoder(w).Encode([]blockfrost.UTxO{{TxHash: asset, InlineDatum: &payload}})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	config := `
chain:
  base_url: ` + server.URL + `
  project_id: preprodabc
  network: preprod
  requests_per_second: 0
ism:
  policy_id: ` + testPolicy + `
  asset_name: "` + ismAsset + `"
  script_hash: ` + testScript + `
registry:
  policy_id: ` + testPolicy + `
  asset_name: "` + regAsset + `"
  script_hash: ` + testScript + `
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(config), 0o600))
	return path
}

func TestValidatorsCommand(t *testing.T) {
	require := require.New(t)

	out, err := run(t, "validators", "--config", writeConfig(t), "--domain", "100")
	require.NoError(err)

	var got validatorsOutput
	require.NoError(json.Unmarshal([]byte(out), &got))
	require.Equal(uint32(100), got.Domain)
	require.Equal(uint32(2), got.Threshold)
	require.Equal([]string{
		cardanotest.KeyOf(0x01).String(),
		cardanotest.KeyOf(0x02).String(),
	}, got.Validators)
}

func TestRegistrationCommand(t *testing.T) {
	require := require.New(t)

	config := writeConfig(t)
	out, err := run(t, "registration", "--config", config, cardanotest.HashOf(0x11).String())
	require.NoError(err)
	require.Contains(out, `"kind": "generic"`)
	require.Contains(out, cardanotest.HashOf(0x11).String())

	_, err = run(t, "registration", "--config", config, cardanotest.HashOf(0x22).String())
	require.ErrorIs(err, cardano.ErrRecipientNotFound)

	_, err = run(t, "registration", "--config", config, "zz")
	require.Error(err)
}

func TestStatusCommand(t *testing.T) {
	require := require.New(t)

	out, err := run(t, "status", "--config", writeConfig(t))
	require.NoError(err)

	var got statusOutput
	require.NoError(json.Unmarshal([]byte(out), &got))
	require.Equal([]uint32{100}, got.Domains)
	require.Equal(1, got.Registrations)
	require.Equal(cardanotest.HashOf(0xee).String(), got.RegistryOwner)
}

func TestMetricsFlag(t *testing.T) {
	require := require.New(t)

	out, err := run(t, "status", "--config", writeConfig(t), "--metrics")
	require.NoError(err)
	require.Contains(out, `hyperlane_cardano_ism_resolver_refresh_count{outcome="success"} 1`)
	require.Contains(out, `hyperlane_cardano_registry_resolver_refresh_count{outcome="success"} 1`)
	require.Contains(out, `hyperlane_cardano_chain_api_request_count{op="asset_addresses"}`)
}

func TestMissingConfig(t *testing.T) {
	_, err := run(t, "registrations", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDigestCommand(t *testing.T) {
	require := require.New(t)

	hook := ids.GenerateTestID()
	root := ids.GenerateTestID()
	messageID := ids.GenerateTestID()
	out, err := run(t, "digest",
		"--hook", "0x"+hex.EncodeToString(hook[:]),
		"--domain", "7",
		"--root", hex.EncodeToString(root[:]),
		"--index", "42",
		"--message-id", hex.EncodeToString(messageID[:]),
		"--hash-family", "keccak256",
	)
	require.NoError(err)

	expected, err := checkpoint.SigningDigest(checkpoint.CheckpointWithMessage{
		Checkpoint: checkpoint.Checkpoint{
			HookAddress:   hook,
			MailboxDomain: 7,
			Root:          root,
			Index:         42,
		},
		MessageID: messageID,
	}, checkpoint.Keccak256)
	require.NoError(err)
	require.Equal("0x"+hex.EncodeToString(expected[:]), strings.TrimSpace(out))

	_, err = run(t, "digest",
		"--hook", "00",
		"--domain", "7",
		"--root", hex.EncodeToString(root[:]),
		"--index", "42",
		"--message-id", hex.EncodeToString(messageID[:]),
	)
	require.ErrorContains(err, "hook")
}
