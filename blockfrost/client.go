// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package blockfrost implements cardano.ChainAPI against the Blockfrost
// HTTP API.
package blockfrost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/luxfi/log"
	"github.com/luxfi/metric"
	"golang.org/x/time/rate"

	cardano "github.com/eigerco/hyperlane-monorepo-sub001"
)

const (
	projectIDHeader = "project_id"

	// DefaultPageSize is the largest page the API serves.
	DefaultPageSize = 100

	opLabel = "op"

	opAssetAddresses = "asset_addresses"
	opAddressUTxOs   = "address_utxos"
	opAssetUTxOs     = "address_asset_utxos"
	opDatum          = "datum"

	maxErrorBody = 4096
)

var _ cardano.ChainAPI = (*Client)(nil)

// Config configures a Client.
type Config struct {
	// BaseURL overrides the public endpoint of Network
	BaseURL   string
	ProjectID string
	Network   Network
	// RequestsPerSecond limits the request rate. Zero disables the limit.
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	PageSize          int
}

type metrics struct {
	requestTime  metric.GaugeVec
	requestCount metric.CounterVec
}

func newMetrics(registerer metric.Registerer, namespace string) (*metrics, error) {
	labels := []string{opLabel}
	m := &metrics{
		requestTime: metric.NewGaugeVec(
			metric.GaugeOpts{
				Namespace: namespace,
				Name:      "chain_api_request_time",
				Help:      "chain api request time (ns)",
			},
			labels,
		),
		requestCount: metric.NewCounterVec(
			metric.CounterOpts{
				Namespace: namespace,
				Name:      "chain_api_request_count",
				Help:      "chain api request count (n)",
			},
			labels,
		),
	}

	err := errors.Join(
		registerer.Register(m.requestTime),
		registerer.Register(m.requestCount),
	)
	return m, err
}

func (m *metrics) observe(op string, start time.Time) {
	labels := metric.Labels{opLabel: op}
	m.requestTime.With(labels).Add(float64(time.Since(start)))
	m.requestCount.With(labels).Inc()
}

// Client is a rate limited Blockfrost client.
type Client struct {
	log      log.Logger
	http     *http.Client
	baseURL  string
	config   Config
	limiter  *rate.Limiter
	metrics  *metrics
	pageSize int
}

// New returns a Client for config whose metrics are registered with
// registerer under namespace.
func New(
	logger log.Logger,
	registerer metric.Registerer,
	namespace string,
	config Config,
) (*Client, error) {
	if !config.Network.Valid() {
		return nil, fmt.Errorf("%w: %q", errUnknownNetwork, config.Network)
	}
	m, err := newMetrics(registerer, namespace)
	if err != nil {
		return nil, err
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = config.Network.BaseURL()
	}
	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}
	pageSize := config.PageSize
	if pageSize <= 0 || pageSize > DefaultPageSize {
		pageSize = DefaultPageSize
	}

	return &Client{
		log:      logger,
		http:     &http.Client{Timeout: config.Timeout},
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		config:   config,
		limiter:  rate.NewLimiter(limit, burst),
		metrics:  m,
		pageSize: pageSize,
	}, nil
}

// FindOutputByMarker returns the output holding the asset policyID.assetName.
func (c *Client) FindOutputByMarker(ctx context.Context, policyID, assetName string) (*cardano.ResolvedOutput, error) {
	unit := cardano.ResourceLocator{PolicyID: policyID, AssetName: assetName}.Unit()

	var holders []AssetAddress
	if err := c.get(ctx, opAssetAddresses, "/assets/"+url.PathEscape(unit)+"/addresses", nil, &holders); err != nil {
		return nil, err
	}
	if len(holders) == 0 {
		return nil, fmt.Errorf("asset %s has no holder: %w", unit, cardano.ErrNotFound)
	}
	if len(holders) > 1 {
		c.log.Warn("marker held by several addresses, using the first",
			log.String("unit", unit),
			log.Int("holders", len(holders)),
		)
	}

	address := holders[0].Address
	var utxos []UTxO
	path := "/addresses/" + url.PathEscape(address) + "/utxos/" + url.PathEscape(unit)
	if err := c.get(ctx, opAssetUTxOs, path, nil, &utxos); err != nil {
		return nil, err
	}
	if len(utxos) == 0 {
		return nil, fmt.Errorf("asset %s not found at %s: %w", unit, address, cardano.ErrNotFound)
	}
	out := utxos[0].Output()
	return &out, nil
}

// ListOutputsAtAddress returns every unspent output at address, walking all
// pages. An address that never received funds has no outputs.
func (c *Client) ListOutputsAtAddress(ctx context.Context, address string) ([]cardano.ResolvedOutput, error) {
	var outputs []cardano.ResolvedOutput
	for page := 1; ; page++ {
		query := url.Values{
			"page":  {strconv.Itoa(page)},
			"count": {strconv.Itoa(c.pageSize)},
		}
		var utxos []UTxO
		err := c.get(ctx, opAddressUTxOs, "/addresses/"+url.PathEscape(address)+"/utxos", query, &utxos)
		if errors.Is(err, cardano.ErrNotFound) {
			return outputs, nil
		}
		if err != nil {
			return nil, err
		}

		for _, utxo := range utxos {
			outputs = append(outputs, utxo.Output())
		}
		if len(utxos) < c.pageSize {
			return outputs, nil
		}
	}
}

// DeriveAddress returns the enterprise address of the script.
func (c *Client) DeriveAddress(scriptHash cardano.Hash) (string, error) {
	return ScriptAddress(c.config.Network, scriptHash)
}

// FetchPayloadByHash returns the hex encoded datum with the given hash.
func (c *Client) FetchPayloadByHash(ctx context.Context, hash string) (string, error) {
	var datum DatumCBOR
	if err := c.get(ctx, opDatum, "/scripts/datum/"+url.PathEscape(hash)+"/cbor", nil, &datum); err != nil {
		return "", err
	}
	return datum.CBOR, nil
}

// get issues a GET request and decodes the JSON body into out. A 404 is
// reported as cardano.ErrNotFound, any other failure as
// cardano.ErrTransport.
func (c *Client) get(ctx context.Context, op, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %s: %w", cardano.ErrTransport, op, err)
	}

	start := time.Now()
	defer c.metrics.observe(op, start)

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", cardano.ErrTransport, op, err)
	}
	req.Header.Set(projectIDHeader, c.config.ProjectID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			log.String("op", op),
			log.String("path", path),
			log.Err(err),
		)
		return fmt.Errorf("%w: %s: %w", cardano.ErrTransport, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", op, path, cardano.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		message := strings.TrimSpace(string(body))
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			message = apiErr.Message
		}
		c.log.Debug("unexpected response",
			log.String("op", op),
			log.String("path", path),
			log.Int("status", resp.StatusCode),
			log.UserString("message", message),
		)
		return fmt.Errorf("%w: %s: status %d: %s", cardano.ErrTransport, op, resp.StatusCode, message)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: failed to decode response: %w", cardano.ErrTransport, op, err)
	}
	return nil
}
