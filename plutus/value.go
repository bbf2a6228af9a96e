// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package plutus models the chain's structured data format as a closed set
// of variants and converts it to and from its two wire projections: the
// compact binary (CBOR) encoding and the JSON projection used by indexers.
package plutus

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"math/big"
)

var (
	_ Value = Constr{}
	_ Value = Bytes(nil)
	_ Value = Int{}
	_ Value = List(nil)
	_ Value = Map(nil)

	// ErrMalformed is returned when input is not a valid encoding.
	ErrMalformed = errors.New("malformed data")
	// ErrUnsupportedConstructor is returned for constructor indices that do
	// not fit the compact tag range.
	ErrUnsupportedConstructor = errors.New("unsupported constructor")
)

// MaxCompactIndex is the largest constructor index with a compact tag.
const MaxCompactIndex = 6

// Value is a node of a structured data tree. The set of implementations is
// closed: Constr, Bytes, Int, List and Map.
type Value interface {
	isValue()
}

// Constr is a tagged constructor application.
type Constr struct {
	Index  uint64
	Fields []Value
}

// Bytes is a byte string.
type Bytes []byte

// Int is an arbitrary precision integer.
type Int struct {
	v *big.Int
}

// List is an ordered sequence of values.
type List []Value

// Map is an ordered sequence of key/value pairs.
type Map []Pair

// Pair is an entry of a Map.
type Pair struct {
	Key   Value
	Value Value
}

func (Constr) isValue() {}
func (Bytes) isValue()  {}
func (Int) isValue()    {}
func (List) isValue()   {}
func (Map) isValue()    {}

// NewConstr returns the constructor application index(fields...).
func NewConstr(index uint64, fields ...Value) Constr {
	if fields == nil {
		fields = []Value{}
	}
	return Constr{Index: index, Fields: fields}
}

// NewInt returns an Int holding n.
func NewInt(n int64) Int {
	return Int{v: big.NewInt(n)}
}

// NewUint returns an Int holding n.
func NewUint(n uint64) Int {
	return Int{v: new(big.Int).SetUint64(n)}
}

// NewBigInt returns an Int holding a copy of n.
func NewBigInt(n *big.Int) Int {
	return Int{v: new(big.Int).Set(n)}
}

// Big returns a copy of the integer.
func (i Int) Big() *big.Int {
	if i.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(i.v)
}

// Uint32 returns the integer if it fits in a uint32.
func (i Int) Uint32() (uint32, error) {
	n, err := i.Uint64()
	if err != nil {
		return 0, err
	}
	if n > math.MaxUint32 {
		return 0, fmt.Errorf("integer %d overflows uint32", n)
	}
	return uint32(n), nil
}

// Uint64 returns the integer if it fits in a uint64.
func (i Int) Uint64() (uint64, error) {
	n := i.Big()
	if n.Sign() < 0 {
		return 0, fmt.Errorf("integer %s is negative", n)
	}
	if !n.IsUint64() {
		return 0, fmt.Errorf("integer %s overflows uint64", n)
	}
	return n.Uint64(), nil
}

func (i Int) String() string {
	return i.Big().String()
}

// Some encodes a present optional value.
func Some(v Value) Constr {
	return NewConstr(0, v)
}

// None encodes an absent optional value.
func None() Constr {
	return NewConstr(1)
}

// Bool encodes a boolean: False is constructor 0, True is constructor 1.
func Bool(b bool) Constr {
	if b {
		return NewConstr(1)
	}
	return NewConstr(0)
}

// Equal reports whether a and b are the same tree.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Constr:
		b, ok := b.(Constr)
		if !ok || a.Index != b.Index || len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if !Equal(a.Fields[i], b.Fields[i]) {
				return false
			}
		}
		return true
	case Bytes:
		b, ok := b.(Bytes)
		return ok && bytes.Equal(a, b)
	case Int:
		b, ok := b.(Int)
		return ok && a.Big().Cmp(b.Big()) == 0
	case List:
		b, ok := b.(List)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !Equal(a[i], b[i]) {
				return false
			}
		}
		return true
	case Map:
		b, ok := b.(Map)
		if !ok || len(a) != len(b) {
			return false
		}
		for i := range a {
			if !Equal(a[i].Key, b[i].Key) || !Equal(a[i].Value, b[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Kind names the variant of v, for error messages.
func Kind(v Value) string {
	switch v.(type) {
	case Constr:
		return "constructor"
	case Bytes:
		return "bytes"
	case Int:
		return "int"
	case List:
		return "list"
	case Map:
		return "map"
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("%T", v)
	}
}
