// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package plutus

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

const (
	majorUnsigned = 0
	majorNegative = 1
	majorBytes    = 2
	majorArray    = 4
	majorMap      = 5
	majorTag      = 6

	tagPositiveBignum = 2
	tagNegativeBignum = 3
	// constructor indices 0..6 are tagged 121..127
	tagCompactBase = 121
	tagCompactMax  = tagCompactBase + MaxCompactIndex

	additionalIndefinite = 31
	maxNestedLevels      = 64
)

var (
	decMode cbor.DecMode
	encMode cbor.EncMode
)

func init() {
	var err error
	decMode, err = cbor.DecOptions{
		MaxNestedLevels: maxNestedLevels,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	encMode, err = cbor.EncOptions{
		BigIntConvert: cbor.BigIntConvertShortest,
	}.EncMode()
	if err != nil {
		panic(err)
	}
}

// DecodeHex parses a hex encoded compact binary value. A 0x prefix is
// accepted.
func DecodeHex(s string) (Value, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid hex: %w", ErrMalformed, err)
	}
	return UnmarshalCBOR(b)
}

// UnmarshalCBOR parses a compact binary value. Trailing bytes are rejected.
func UnmarshalCBOR(b []byte) (Value, error) {
	var raw cbor.RawMessage
	if err := decMode.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return parseRaw(raw)
}

func parseRaw(raw cbor.RawMessage) (Value, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty item", ErrMalformed)
	}

	switch major := raw[0] >> 5; major {
	case majorUnsigned:
		var n uint64
		if err := decMode.Unmarshal(raw, &n); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return NewUint(n), nil
	case majorNegative:
		// -1-n is encoded as n under major type 1; read n as an unsigned
		// integer so the full 64-bit range survives.
		unsigned := make([]byte, len(raw))
		copy(unsigned, raw)
		unsigned[0] &= 0x1f
		var n uint64
		if err := decMode.Unmarshal(unsigned, &n); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		v := new(big.Int).SetUint64(n)
		v.Add(v, big.NewInt(1))
		return Int{v: v.Neg(v)}, nil
	case majorBytes:
		var b []byte
		if err := decMode.Unmarshal(raw, &b); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if b == nil {
			b = []byte{}
		}
		return Bytes(b), nil
	case majorArray:
		items, err := parseItems(raw)
		if err != nil {
			return nil, err
		}
		return List(items), nil
	case majorMap:
		return parseMap(raw)
	case majorTag:
		var tag cbor.RawTag
		if err := decMode.Unmarshal(raw, &tag); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		switch {
		case tag.Number >= tagCompactBase && tag.Number <= tagCompactMax:
			fields, err := parseItems(tag.Content)
			if err != nil {
				return nil, err
			}
			return Constr{Index: tag.Number - tagCompactBase, Fields: fields}, nil
		case tag.Number == tagPositiveBignum || tag.Number == tagNegativeBignum:
			var n big.Int
			if err := decMode.Unmarshal(raw, &n); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
			}
			return Int{v: &n}, nil
		default:
			return nil, fmt.Errorf("%w: tag %d", ErrUnsupportedConstructor, tag.Number)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported major type %d", ErrMalformed, major)
	}
}

func parseItems(raw cbor.RawMessage) ([]Value, error) {
	if len(raw) == 0 || raw[0]>>5 != majorArray {
		return nil, fmt.Errorf("%w: expected array", ErrMalformed)
	}

	var items []cbor.RawMessage
	if err := decMode.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	values := make([]Value, 0, len(items))
	for _, item := range items {
		v, err := parseRaw(item)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// parseMap keeps entries in wire order by re-reading the map body as an
// array of alternating keys and values.
func parseMap(raw cbor.RawMessage) (Value, error) {
	arg, headLen, indefinite, err := readHead(raw)
	if err != nil {
		return nil, err
	}

	var asArray []byte
	if indefinite {
		asArray = append([]byte{majorArray<<5 | additionalIndefinite}, raw[1:]...)
	} else {
		if arg > uint64(len(raw)) {
			return nil, fmt.Errorf("%w: map length %d exceeds input", ErrMalformed, arg)
		}
		asArray = appendHead(nil, majorArray, 2*arg)
		asArray = append(asArray, raw[headLen:]...)
	}

	items, err := parseItems(asArray)
	if err != nil {
		return nil, err
	}
	if len(items)%2 != 0 {
		return nil, fmt.Errorf("%w: odd number of map items", ErrMalformed)
	}

	pairs := make(Map, 0, len(items)/2)
	for i := 0; i < len(items); i += 2 {
		pairs = append(pairs, Pair{Key: items[i], Value: items[i+1]})
	}
	return pairs, nil
}

// readHead decodes the argument of the initial byte of an item.
func readHead(raw []byte) (uint64, int, bool, error) {
	if len(raw) == 0 {
		return 0, 0, false, fmt.Errorf("%w: empty item", ErrMalformed)
	}

	info := raw[0] & 0x1f
	switch {
	case info < 24:
		return uint64(info), 1, false, nil
	case info == additionalIndefinite:
		return 0, 1, true, nil
	case info > 27:
		return 0, 0, false, fmt.Errorf("%w: reserved additional info %d", ErrMalformed, info)
	}

	size := 1 << (info - 24)
	if len(raw) < 1+size {
		return 0, 0, false, fmt.Errorf("%w: truncated head", ErrMalformed)
	}
	var arg uint64
	switch size {
	case 1:
		arg = uint64(raw[1])
	case 2:
		arg = uint64(binary.BigEndian.Uint16(raw[1:3]))
	case 4:
		arg = uint64(binary.BigEndian.Uint32(raw[1:5]))
	default:
		arg = binary.BigEndian.Uint64(raw[1:9])
	}
	return arg, 1 + size, false, nil
}

func appendHead(dst []byte, major byte, arg uint64) []byte {
	m := major << 5
	switch {
	case arg < 24:
		return append(dst, m|byte(arg))
	case arg <= 0xff:
		return append(dst, m|24, byte(arg))
	case arg <= 0xffff:
		return binary.BigEndian.AppendUint16(append(dst, m|25), uint16(arg))
	case arg <= 0xffffffff:
		return binary.BigEndian.AppendUint32(append(dst, m|26), uint32(arg))
	default:
		return binary.BigEndian.AppendUint64(append(dst, m|27), arg)
	}
}

// EncodeHex returns the hex encoded compact binary form of v.
func EncodeHex(v Value) (string, error) {
	b, err := MarshalCBOR(v)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// MarshalCBOR returns the compact binary form of v. Arrays use definite
// lengths.
func MarshalCBOR(v Value) ([]byte, error) {
	switch v := v.(type) {
	case Constr:
		if v.Index > MaxCompactIndex {
			return nil, fmt.Errorf("%w: index %d", ErrUnsupportedConstructor, v.Index)
		}
		fields, err := marshalItems(v.Fields)
		if err != nil {
			return nil, err
		}
		return encMode.Marshal(cbor.Tag{
			Number:  tagCompactBase + v.Index,
			Content: fields,
		})
	case Bytes:
		b := []byte(v)
		if b == nil {
			b = []byte{}
		}
		return encMode.Marshal(b)
	case Int:
		return encMode.Marshal(v.Big())
	case List:
		items, err := marshalItems(v)
		if err != nil {
			return nil, err
		}
		return encMode.Marshal(items)
	case Map:
		out := appendHead(nil, majorMap, uint64(len(v)))
		for _, pair := range v {
			k, err := MarshalCBOR(pair.Key)
			if err != nil {
				return nil, err
			}
			val, err := MarshalCBOR(pair.Value)
			if err != nil {
				return nil, err
			}
			out = append(out, k...)
			out = append(out, val...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: cannot encode %s", ErrMalformed, Kind(v))
	}
}

func marshalItems(values []Value) ([]cbor.RawMessage, error) {
	items := make([]cbor.RawMessage, 0, len(values))
	for _, value := range values {
		b, err := MarshalCBOR(value)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, nil
}
