// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package datum decodes output payloads into typed records.
//
// Decoding is strict on the structure of a record: a wrong constructor, a
// missing field or a fixed-width field of the wrong length fails the whole
// decode with cardano.ErrInvalidDatum. Collections of composite records are
// tolerant: an element that fails to decode is dropped and recorded in the
// Report instead.
package datum

import (
	"strings"

	cardano "github.com/eigerco/hyperlane-monorepo-sub001"
	"github.com/eigerco/hyperlane-monorepo-sub001/plutus"
)

// Schema maps a value tree onto a record of type T. path is the location of
// v inside the payload, used in errors and reports.
type Schema[T any] func(v plutus.Value, path string, r *Report) (T, error)

// Skipped is a collection element that was dropped.
type Skipped struct {
	Field string
	Index int
	Err   error
}

// Report lists the elements dropped while decoding a payload.
type Report struct {
	Skipped []Skipped
}

func (r *Report) skip(path string, index int, err error) {
	if r == nil {
		return
	}
	r.Skipped = append(r.Skipped, Skipped{
		Field: path,
		Index: index,
		Err:   err,
	})
}

// Len returns the number of dropped elements.
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Skipped)
}

// Parse converts a raw payload into a value tree. JSON objects shaped like
// the JSON projection are parsed as such; anything else is treated as hex
// encoded compact binary.
func Parse(raw string) (plutus.Value, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, cardano.NewError(cardano.ErrDeserialization, "", "", errEmptyPayload)
	}

	var (
		v   plutus.Value
		err error
	)
	if plutus.LooksLikeJSON(trimmed) {
		v, err = plutus.UnmarshalJSON([]byte(trimmed))
	} else {
		v, err = plutus.DecodeHex(trimmed)
	}
	if err != nil {
		return nil, cardano.NewError(cardano.ErrDeserialization, "", "", err)
	}
	return v, nil
}

// Decode parses raw and maps it with schema.
func Decode[T any](raw string, schema Schema[T]) (T, *Report, error) {
	var zero T
	v, err := Parse(raw)
	if err != nil {
		return zero, nil, err
	}
	return DecodeValue(v, schema)
}

// DecodeValue maps an already parsed tree with schema.
func DecodeValue[T any](v plutus.Value, schema Schema[T]) (T, *Report, error) {
	var zero T
	report := &Report{}
	out, err := schema(v, "", report)
	if err != nil {
		return zero, report, err
	}
	return out, report, nil
}
