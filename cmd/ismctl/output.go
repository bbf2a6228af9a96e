// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/luxfi/metric"

	cardano "github.com/eigerco/hyperlane-monorepo-sub001"
)

type registrationOutput struct {
	ScriptHash       cardano.Hash              `json:"scriptHash"`
	Owner            cardano.Hash              `json:"owner"`
	StateLocator     cardano.ResourceLocator   `json:"stateLocator"`
	ReferenceLocator *cardano.ResourceLocator  `json:"referenceLocator,omitempty"`
	AdditionalInputs []cardano.AdditionalInput `json:"additionalInputs"`
	Kind             string                    `json:"kind"`
	KindDetails      cardano.RecipientKind     `json:"kindDetails,omitempty"`
	CustomVerifier   *cardano.Hash             `json:"customVerifier,omitempty"`
}

func newRegistrationOutput(r cardano.RecipientRegistration) registrationOutput {
	out := registrationOutput{
		ScriptHash:       r.ScriptHash,
		Owner:            r.Owner,
		StateLocator:     r.StateLocator,
		ReferenceLocator: r.ReferenceLocator,
		AdditionalInputs: r.AdditionalInputs,
		CustomVerifier:   r.CustomVerifier,
	}
	if out.AdditionalInputs == nil {
		out.AdditionalInputs = []cardano.AdditionalInput{}
	}
	if r.Kind != nil {
		out.Kind = r.Kind.String()
		if _, generic := r.Kind.(cardano.GenericRecipient); !generic {
			out.KindDetails = r.Kind
		}
	}
	return out
}

// writeMetrics prints every counter and gauge sample as one
// name{label="value"} value line.
func writeMetrics(w io.Writer, families []*metric.MetricFamily) error {
	for _, family := range families {
		for _, m := range family.GetMetric() {
			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				value = m.GetGauge().GetValue()
			default:
				continue
			}

			labels := make([]string, 0, len(m.GetLabel()))
			for _, label := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", label.GetName(), label.GetValue()))
			}
			if _, err := fmt.Fprintf(w, "%s{%s} %g\n", family.GetName(), strings.Join(labels, ","), value); err != nil {
				return err
			}
		}
	}
	return nil
}
