// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package datum

import (
	"errors"
	"fmt"

	cardano "github.com/eigerco/hyperlane-monorepo-sub001"
	"github.com/eigerco/hyperlane-monorepo-sub001/plutus"
)

const (
	optionSome = 0
	optionNone = 1

	boolFalse = 0
	boolTrue  = 1

	maxAssetNameLen = 32
)

func invalid(path string, format string, args ...any) error {
	return cardano.NewError(cardano.ErrInvalidDatum, "", path, fmt.Errorf(format, args...))
}

func field(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func element(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

// constr checks v is constructor index with at least minFields fields.
// Trailing fields are ignored.
func constr(v plutus.Value, path string, index uint64, minFields int) ([]plutus.Value, error) {
	c, ok := v.(plutus.Constr)
	if !ok {
		return nil, invalid(path, "expected constructor %d, got %s", index, plutus.Kind(v))
	}
	if c.Index != index {
		return nil, invalid(path, "expected constructor %d, got %d", index, c.Index)
	}
	if len(c.Fields) < minFields {
		return nil, invalid(path, "constructor %d has %d fields, expected at least %d", index, len(c.Fields), minFields)
	}
	return c.Fields, nil
}

func byteString(v plutus.Value, path string) ([]byte, error) {
	b, ok := v.(plutus.Bytes)
	if !ok {
		return nil, invalid(path, "expected bytes, got %s", plutus.Kind(v))
	}
	return b, nil
}

func fixedBytes(v plutus.Value, path string, size int) ([]byte, error) {
	b, err := byteString(v, path)
	if err != nil {
		return nil, err
	}
	if len(b) != size {
		return nil, invalid(path, "expected %d bytes, got %d", size, len(b))
	}
	return b, nil
}

func hash(v plutus.Value, path string) (cardano.Hash, error) {
	var h cardano.Hash
	b, err := fixedBytes(v, path, cardano.HashLen)
	if err != nil {
		return h, err
	}
	copy(h[:], b)
	return h, nil
}

func validatorKey(v plutus.Value, path string) (cardano.ValidatorKey, error) {
	var k cardano.ValidatorKey
	b, err := fixedBytes(v, path, cardano.ValidatorKeyLen)
	if err != nil {
		return k, err
	}
	copy(k[:], b)
	return k, nil
}

// uint32Value rejects negative and out of range integers instead of
// truncating them.
func uint32Value(v plutus.Value, path string) (uint32, error) {
	i, ok := v.(plutus.Int)
	if !ok {
		return 0, invalid(path, "expected int, got %s", plutus.Kind(v))
	}
	n, err := i.Uint32()
	if err != nil {
		return 0, cardano.NewError(cardano.ErrInvalidDatum, "", path, err)
	}
	return n, nil
}

func list(v plutus.Value, path string) ([]plutus.Value, error) {
	l, ok := v.(plutus.List)
	if !ok {
		return nil, invalid(path, "expected list, got %s", plutus.Kind(v))
	}
	return l, nil
}

func boolean(v plutus.Value, path string) (bool, error) {
	c, ok := v.(plutus.Constr)
	if !ok {
		return false, invalid(path, "expected bool, got %s", plutus.Kind(v))
	}
	switch c.Index {
	case boolFalse:
		return false, nil
	case boolTrue:
		return true, nil
	default:
		return false, invalid(path, "expected bool, got constructor %d", c.Index)
	}
}

// option decodes Some(x) as constructor 0 with one field and None as
// constructor 1, whichever projection the value came from.
func option[T any](v plutus.Value, path string, inner func(plutus.Value, string) (T, error)) (*T, error) {
	c, ok := v.(plutus.Constr)
	if !ok {
		return nil, invalid(path, "expected option, got %s", plutus.Kind(v))
	}
	switch c.Index {
	case optionSome:
		if len(c.Fields) < 1 {
			return nil, invalid(path, "option value is missing")
		}
		out, err := inner(c.Fields[0], field(path, "some"))
		if err != nil {
			return nil, err
		}
		return &out, nil
	case optionNone:
		return nil, nil
	default:
		return nil, invalid(path, "expected option, got constructor %d", c.Index)
	}
}

// collect decodes every item with fn. Items that fail to decode are recorded
// in r and dropped; the collection itself never fails.
func collect[T any](items []plutus.Value, path string, r *Report, fn func(plutus.Value, string) (T, error)) []T {
	out := make([]T, 0, len(items))
	for i, item := range items {
		itemPath := element(path, i)
		decoded, err := fn(item, itemPath)
		if err != nil {
			r.skip(itemPath, i, err)
			continue
		}
		out = append(out, decoded)
	}
	return out
}

// entries returns the key/value pairs of an association, encoded either as a
// map or as a list of 2-tuples. A tuple is a constructor 0 with two fields or
// a two element list. Malformed tuples are recorded in r and dropped.
func entries(v plutus.Value, path string, r *Report) ([]plutus.Pair, error) {
	switch v := v.(type) {
	case plutus.Map:
		return v, nil
	case plutus.List:
		return collect(v, path, r, tuple), nil
	default:
		return nil, invalid(path, "expected map or list of pairs, got %s", plutus.Kind(v))
	}
}

func tuple(v plutus.Value, path string) (plutus.Pair, error) {
	switch v := v.(type) {
	case plutus.Constr:
		if v.Index != 0 || len(v.Fields) != 2 {
			return plutus.Pair{}, invalid(path, "expected pair constructor, got constructor %d with %d fields", v.Index, len(v.Fields))
		}
		return plutus.Pair{Key: v.Fields[0], Value: v.Fields[1]}, nil
	case plutus.List:
		if len(v) != 2 {
			return plutus.Pair{}, invalid(path, "expected pair, got list of %d", len(v))
		}
		return plutus.Pair{Key: v[0], Value: v[1]}, nil
	default:
		return plutus.Pair{}, invalid(path, "expected pair, got %s", plutus.Kind(v))
	}
}

var errEmptyPayload = errors.New("empty payload")
