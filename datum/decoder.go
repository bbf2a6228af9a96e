// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package datum

import (
	"errors"

	"github.com/luxfi/log"
	"github.com/luxfi/metric"

	cardano "github.com/eigerco/hyperlane-monorepo-sub001"
)

const (
	schemaLabel = "schema"

	trustConfigSchemaName = "trust_config"
	registrySchemaName    = "registry"
)

type metrics struct {
	skipped  metric.CounterVec
	failures metric.CounterVec
}

func newMetrics(registerer metric.Registerer, namespace string) (metrics, error) {
	labels := []string{schemaLabel}
	m := metrics{
		skipped: metric.NewCounterVec(
			metric.CounterOpts{
				Namespace: namespace,
				Name:      "datum_skipped_elements",
				Help:      "number of collection elements dropped because they failed to decode (n)",
			},
			labels,
		),
		failures: metric.NewCounterVec(
			metric.CounterOpts{
				Namespace: namespace,
				Name:      "datum_decode_failures",
				Help:      "number of payloads that failed to decode (n)",
			},
			labels,
		),
	}

	err := errors.Join(
		registerer.Register(m.skipped),
		registerer.Register(m.failures),
	)
	return m, err
}

// Decoder decodes payloads of the adapter's resources and accounts for the
// elements it had to drop.
type Decoder struct {
	log     log.Logger
	metrics metrics
}

// NewDecoder returns a Decoder whose metrics are registered with registerer
// under namespace.
func NewDecoder(
	logger log.Logger,
	registerer metric.Registerer,
	namespace string,
) (*Decoder, error) {
	m, err := newMetrics(registerer, namespace)
	if err != nil {
		return nil, err
	}
	return &Decoder{
		log:     logger,
		metrics: m,
	}, nil
}

// TrustConfig decodes the multisig ISM datum of resource.
func (d *Decoder) TrustConfig(resource, raw string) (*cardano.MultisigTrustConfig, error) {
	config, report, err := Decode(raw, TrustConfigSchema)
	d.observe(resource, trustConfigSchemaName, report, err)
	if err != nil {
		return nil, withResource(err, resource)
	}
	return config, nil
}

// Registry decodes the recipient registry datum of resource.
func (d *Decoder) Registry(resource, raw string) (*cardano.RegistryState, error) {
	state, report, err := Decode(raw, RegistrySchema)
	d.observe(resource, registrySchemaName, report, err)
	if err != nil {
		return nil, withResource(err, resource)
	}
	return state, nil
}

func (d *Decoder) observe(resource, schema string, report *Report, err error) {
	labels := metric.Labels{schemaLabel: schema}
	if err != nil {
		d.metrics.failures.With(labels).Inc()
	}
	if report.Len() == 0 {
		return
	}

	d.metrics.skipped.With(labels).Add(float64(report.Len()))
	for _, skipped := range report.Skipped {
		d.log.Warn("dropped malformed collection element",
			log.UserString("resource", resource),
			log.String("schema", schema),
			log.String("field", skipped.Field),
			log.Int("index", skipped.Index),
			log.Err(skipped.Err),
		)
	}
}

func withResource(err error, resource string) error {
	var e *cardano.Error
	if errors.As(err, &e) && e.Resource == "" {
		e.Resource = resource
	}
	return err
}
