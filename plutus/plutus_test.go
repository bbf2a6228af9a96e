// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package plutus

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeHex(t *testing.T) {
	twoTo64 := new(big.Int).Lsh(big.NewInt(1), 64)

	tests := []struct {
		name     string
		hex      string
		expected Value
	}{
		{
			name:     "constructor definite",
			hex:      "d879820141ab",
			expected: NewConstr(0, NewInt(1), Bytes{0xab}),
		},
		{
			name:     "constructor indefinite",
			hex:      "d8799f0141abff",
			expected: NewConstr(0, NewInt(1), Bytes{0xab}),
		},
		{
			name:     "constructor 1 empty",
			hex:      "d87a80",
			expected: NewConstr(1),
		},
		{
			name:     "constructor 6",
			hex:      "d87f80",
			expected: NewConstr(6),
		},
		{
			name:     "0x prefix",
			hex:      "0xd87b80",
			expected: NewConstr(2),
		},
		{
			name:     "negative one",
			hex:      "20",
			expected: NewInt(-1),
		},
		{
			name:     "most negative 65 bit",
			hex:      "3bffffffffffffffff",
			expected: NewBigInt(new(big.Int).Neg(twoTo64)),
		},
		{
			name:     "positive bignum",
			hex:      "c249010000000000000000",
			expected: NewBigInt(twoTo64),
		},
		{
			name:     "list",
			hex:      "9f0102ff",
			expected: List{NewInt(1), NewInt(2)},
		},
		{
			name:     "map",
			hex:      "a20141aa0241bb",
			expected: Map{{Key: NewInt(1), Value: Bytes{0xaa}}, {Key: NewInt(2), Value: Bytes{0xbb}}},
		},
		{
			name:     "indefinite map keeps order",
			hex:      "bf0241bb0141aaff",
			expected: Map{{Key: NewInt(2), Value: Bytes{0xbb}}, {Key: NewInt(1), Value: Bytes{0xaa}}},
		},
		{
			name:     "empty bytes",
			hex:      "40",
			expected: Bytes{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			v, err := DecodeHex(tt.hex)
			require.NoError(err)
			require.True(Equal(tt.expected, v), "expected %#v, got %#v", tt.expected, v)
		})
	}
}

func TestDecodeHexErrors(t *testing.T) {
	tests := []struct {
		name        string
		hex         string
		expectedErr error
	}{
		{
			name:        "invalid hex",
			hex:         "zz",
			expectedErr: ErrMalformed,
		},
		{
			name:        "trailing bytes",
			hex:         "0101",
			expectedErr: ErrMalformed,
		},
		{
			name:        "truncated",
			hex:         "d87982",
			expectedErr: ErrMalformed,
		},
		{
			name:        "text string",
			hex:         "6161",
			expectedErr: ErrMalformed,
		},
		{
			name:        "alternate constructor range",
			hex:         "d9050080",
			expectedErr: ErrUnsupportedConstructor,
		},
		{
			name:        "general constructor form",
			hex:         "d866820780",
			expectedErr: ErrUnsupportedConstructor,
		},
		{
			name:        "constructor content is not an array",
			hex:         "d87901",
			expectedErr: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeHex(tt.hex)
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestMarshalCBOR(t *testing.T) {
	require := require.New(t)

	got, err := EncodeHex(NewConstr(0, NewInt(1), Bytes{0xab}))
	require.NoError(err)
	require.Equal("d879820141ab", got)

	got, err = EncodeHex(None())
	require.NoError(err)
	require.Equal("d87a80", got)

	_, err = MarshalCBOR(NewConstr(7))
	require.ErrorIs(err, ErrUnsupportedConstructor)
}

func TestUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		expected Value
	}{
		{
			name:     "constructor",
			json:     `{"constructor": 0, "fields": [{"int": 1}, {"bytes": "ab"}]}`,
			expected: NewConstr(0, NewInt(1), Bytes{0xab}),
		},
		{
			name:     "big int",
			json:     `{"int": 18446744073709551616}`,
			expected: NewBigInt(new(big.Int).Lsh(big.NewInt(1), 64)),
		},
		{
			name:     "list",
			json:     `{"list": [{"int": -3}]}`,
			expected: List{NewInt(-3)},
		},
		{
			name:     "map",
			json:     `{"map": [{"k": {"int": 1}, "v": {"bytes": ""}}]}`,
			expected: Map{{Key: NewInt(1), Value: Bytes{}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			v, err := UnmarshalJSON([]byte(tt.json))
			require.NoError(err)
			require.True(Equal(tt.expected, v), "expected %#v, got %#v", tt.expected, v)
		})
	}
}

func TestUnmarshalJSONErrors(t *testing.T) {
	tests := []struct {
		name        string
		json        string
		expectedErr error
	}{
		{
			name:        "not an object",
			json:        `[1]`,
			expectedErr: ErrMalformed,
		},
		{
			name:        "two leaf keys",
			json:        `{"int": 1, "bytes": "00"}`,
			expectedErr: ErrMalformed,
		},
		{
			name:        "float",
			json:        `{"int": 1.5}`,
			expectedErr: ErrMalformed,
		},
		{
			name:        "bad hex",
			json:        `{"bytes": "xyz"}`,
			expectedErr: ErrMalformed,
		},
		{
			name:        "constructor out of range",
			json:        `{"constructor": 9, "fields": []}`,
			expectedErr: ErrUnsupportedConstructor,
		},
		{
			name:        "negative constructor",
			json:        `{"constructor": -1, "fields": []}`,
			expectedErr: ErrMalformed,
		},
		{
			name:        "missing fields",
			json:        `{"constructor": 0}`,
			expectedErr: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalJSON([]byte(tt.json))
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

// Both projections of one tree must parse back to the same tree.
func TestProjectionsAgree(t *testing.T) {
	require := require.New(t)

	tree := NewConstr(0,
		List{
			NewConstr(0, NewInt(100), List{Bytes{0x01, 0x02}, Bytes{}}),
		},
		Map{{Key: NewUint(1<<40), Value: NewInt(-7)}},
		Some(Bytes{0xff}),
		None(),
		Bool(true),
	)

	binary, err := MarshalCBOR(tree)
	require.NoError(err)
	fromBinary, err := UnmarshalCBOR(binary)
	require.NoError(err)

	projection, err := MarshalJSON(tree)
	require.NoError(err)
	fromJSON, err := UnmarshalJSON(projection)
	require.NoError(err)

	require.True(Equal(tree, fromBinary))
	require.True(Equal(fromBinary, fromJSON))
}

func TestLooksLikeJSON(t *testing.T) {
	require := require.New(t)

	require.True(LooksLikeJSON(` {"constructor": 0, "fields": []}`))
	require.True(LooksLikeJSON(`{"int": 5}`))
	require.True(LooksLikeJSON(`{"list": []}`))
	require.False(LooksLikeJSON(`d87980`))
	require.False(LooksLikeJSON(`{"foo": 1}`))
	require.False(LooksLikeJSON(`{"constructor": `))
}

func TestIntConversions(t *testing.T) {
	require := require.New(t)

	n, err := NewUint(4294967295).Uint32()
	require.NoError(err)
	require.Equal(uint32(4294967295), n)

	_, err = NewUint(4294967296).Uint32()
	require.Error(err)

	_, err = NewInt(-1).Uint64()
	require.Error(err)
}
