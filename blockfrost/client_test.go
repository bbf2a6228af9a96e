// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package blockfrost

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"
	"github.com/stretchr/testify/require"

	cardano "github.com/eigerco/hyperlane-monorepo-sub001"
)

const (
	testProjectID = "preprodTestProject"
	testPolicy    = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testAsset     = "49534d"
	testAddress   = "addr_test1wq"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, pageSize int) *Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(projectIDHeader) != testProjectID {
			writeJSON(w, http.StatusForbidden, apiError{StatusCode: 403, Error: "Forbidden", Message: "Invalid project token."})
			return
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := New(log.NewNoOpLogger(), metric.NewRegistry(), "test", Config{
		BaseURL:   server.URL,
		ProjectID: testProjectID,
		Network:   Preprod,
		PageSize:  pageSize,
	})
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, apiError{StatusCode: 404, Error: "Not Found", Message: "The requested component has not been found."})
}

func ptr(s string) *string {
	return &s
}

func TestFindOutputByMarker(t *testing.T) {
	require := require.New(t)

	unit := testPolicy + testAsset
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/assets/" + unit + "/addresses":
			writeJSON(w, http.StatusOK, []AssetAddress{{Address: testAddress, Quantity: "1"}})
		case "/addresses/" + testAddress + "/utxos/" + unit:
			writeJSON(w, http.StatusOK, []UTxO{{
				Address:     testAddress,
				TxHash:      "ab01",
				OutputIndex: 2,
				Amount: []Amount{
					{Unit: "lovelace", Quantity: "2000000"},
					{Unit: unit, Quantity: "1"},
				},
				DataHash:    ptr("dd"),
				InlineDatum: ptr("d87980"),
			}})
		default:
			notFound(w)
		}
	}, 0)

	out, err := client.FindOutputByMarker(context.Background(), testPolicy, testAsset)
	require.NoError(err)
	require.Equal("ab01", out.TxID)
	require.Equal(uint32(2), out.OutputIndex)
	require.Equal("d87980", *out.InlinePayload)
	require.Nil(out.PayloadHash)
}

func TestFindOutputByMarkerNotFound(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "unknown asset",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				notFound(w)
			},
		},
		{
			name: "burnt asset",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusOK, []AssetAddress{})
			},
		},
		{
			name: "holder spent the output",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if strings.HasPrefix(r.URL.Path, "/assets/") {
					writeJSON(w, http.StatusOK, []AssetAddress{{Address: testAddress, Quantity: "1"}})
					return
				}
				writeJSON(w, http.StatusOK, []UTxO{})
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			client := newTestClient(t, test.handler, 0)
			_, err := client.FindOutputByMarker(context.Background(), testPolicy, testAsset)
			require.ErrorIs(t, err, cardano.ErrNotFound)
		})
	}
}

func TestTransportErrors(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		expected string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusInternalServerError, apiError{StatusCode: 500, Error: "Internal Server Error", Message: "upstream unavailable"})
			},
			expected: "upstream unavailable",
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			expected: "status 429",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("{"))
			},
			expected: "failed to decode response",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			client := newTestClient(t, test.handler, 0)
			_, err := client.FetchPayloadByHash(context.Background(), "dd")
			require.ErrorIs(err, cardano.ErrTransport)
			require.True(cardano.IsRetryable(err))
			require.Contains(err.Error(), test.expected)
		})
	}
}

func TestInvalidProjectID(t *testing.T) {
	require := require.New(t)

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, DatumCBOR{CBOR: "d87980"})
	}, 0)
	client.config.ProjectID = "wrong"

	_, err := client.FetchPayloadByHash(context.Background(), "dd")
	require.ErrorIs(err, cardano.ErrTransport)
	require.Contains(err.Error(), "Invalid project token.")
}

func TestListOutputsAtAddress(t *testing.T) {
	require := require.New(t)

	const total = 5
	var (
		lock  sync.Mutex
		pages []int
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		page, pageErr := strconv.Atoi(r.URL.Query().Get("page"))
		count, countErr := strconv.Atoi(r.URL.Query().Get("count"))
		if r.URL.Path != "/addresses/"+testAddress+"/utxos" || pageErr != nil || countErr != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		lock.Lock()
		pages = append(pages, page)
		lock.Unlock()

		utxos := []UTxO{}
		for i := (page - 1) * count; i < page*count && i < total; i++ {
			utxos = append(utxos, UTxO{TxHash: fmt.Sprintf("tx%d", i), DataHash: ptr("dd")})
		}
		writeJSON(w, http.StatusOK, utxos)
	}, 2)

	outputs, err := client.ListOutputsAtAddress(context.Background(), testAddress)
	require.NoError(err)
	require.Len(outputs, total)

	lock.Lock()
	require.Equal([]int{1, 2, 3}, pages)
	lock.Unlock()
	for i, out := range outputs {
		require.Equal(fmt.Sprintf("tx%d", i), out.TxID)
		require.Equal("dd", *out.PayloadHash)
		require.Nil(out.InlinePayload)
	}
}

func TestListOutputsAtUnusedAddress(t *testing.T) {
	require := require.New(t)

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		notFound(w)
	}, 0)

	outputs, err := client.ListOutputsAtAddress(context.Background(), testAddress)
	require.NoError(err)
	require.Empty(outputs)
}

func TestFetchPayloadByHash(t *testing.T) {
	require := require.New(t)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/scripts/datum/dd/cbor" {
			notFound(w)
			return
		}
		writeJSON(w, http.StatusOK, DatumCBOR{CBOR: "d87980"})
	}, 0)

	payload, err := client.FetchPayloadByHash(context.Background(), "dd")
	require.NoError(err)
	require.Equal("d87980", payload)

	_, err = client.FetchPayloadByHash(context.Background(), "ee")
	require.ErrorIs(err, cardano.ErrNotFound)
}

func TestRateLimitHonorsContext(t *testing.T) {
	require := require.New(t)

	client, err := New(log.NewNoOpLogger(), metric.NewRegistry(), "test", Config{
		BaseURL:           "http://127.0.0.1:1",
		Network:           Preview,
		RequestsPerSecond: 0.001,
		Burst:             1,
	})
	require.NoError(err)
	require.True(client.limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.FetchPayloadByHash(ctx, "dd")
	require.ErrorIs(err, cardano.ErrTransport)
	require.ErrorIs(err, context.Canceled)
}

func TestScriptAddress(t *testing.T) {
	var scriptHash cardano.Hash
	for i := range scriptHash {
		scriptHash[i] = byte(i)
	}

	tests := []struct {
		network        Network
		expectedHRP    string
		expectedHeader byte
	}{
		{network: Mainnet, expectedHRP: "addr", expectedHeader: 0x71},
		{network: Preprod, expectedHRP: "addr_test", expectedHeader: 0x70},
		{network: Preview, expectedHRP: "addr_test", expectedHeader: 0x70},
	}
	for _, test := range tests {
		t.Run(string(test.network), func(t *testing.T) {
			require := require.New(t)

			address, err := ScriptAddress(test.network, scriptHash)
			require.NoError(err)
			require.True(strings.HasPrefix(address, test.expectedHRP+"1"))

			hrp, data, err := bech32.Decode(address)
			require.NoError(err)
			require.Equal(test.expectedHRP, hrp)
			raw, err := bech32.ConvertBits(data, 5, 8, false)
			require.NoError(err)
			require.Equal(test.expectedHeader, raw[0])
			require.Equal(scriptHash[:], raw[1:])
		})
	}

	_, err := ScriptAddress("sanchonet", scriptHash)
	require.ErrorIs(t, err, errUnknownNetwork)
}

func TestNewRejectsUnknownNetwork(t *testing.T) {
	_, err := New(log.NewNoOpLogger(), metric.NewRegistry(), "test", Config{Network: "devnet"})
	require.ErrorIs(t, err, errUnknownNetwork)
}

func TestRequestMetrics(t *testing.T) {
	require := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, DatumCBOR{CBOR: "d87980"})
	}))
	t.Cleanup(server.Close)

	registry := metric.NewRegistry()
	client, err := New(log.NewNoOpLogger(), registry, "test", Config{
		BaseURL: server.URL,
		Network: Preprod,
	})
	require.NoError(err)

	// the same namespace cannot be registered twice
	_, err = New(log.NewNoOpLogger(), registry, "test", Config{Network: Preprod})
	require.Error(err)

	for range 3 {
		_, err := client.FetchPayloadByHash(context.Background(), "dd")
		require.NoError(err)
	}

	families, err := registry.Gather()
	require.NoError(err)
	var count float64
	for _, family := range families {
		if family.GetName() != "test_chain_api_request_count" {
			continue
		}
		for _, m := range family.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == opLabel && label.GetValue() == opDatum {
					count = m.GetCounter().GetValue()
				}
			}
		}
	}
	require.Equal(3.0, count)
}

func TestLocatorOverBlockfrost(t *testing.T) {
	require := require.New(t)

	var scriptHash cardano.Hash
	scriptHash[0] = 0x5c
	address, err := ScriptAddress(Preprod, scriptHash)
	require.NoError(err)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/addresses/" + address + "/utxos":
			writeJSON(w, http.StatusOK, []UTxO{
				{TxHash: "bare"},
				{TxHash: "state", DataHash: ptr("dd")},
			})
		case "/scripts/datum/dd/cbor":
			writeJSON(w, http.StatusOK, DatumCBOR{CBOR: "d87980"})
		default:
			// the marker was never minted
			notFound(w)
		}
	}, 0)

	l := cardano.NewLocator(log.NewNoOpLogger(), client)
	out, err := l.Locate(context.Background(), cardano.ResourceLocator{PolicyID: testPolicy}, scriptHash, cardano.HasPayload)
	require.NoError(err)
	require.Equal("state", out.TxID)

	payload, err := l.Payload(context.Background(), out)
	require.NoError(err)
	require.Equal("d87980", payload)
}
