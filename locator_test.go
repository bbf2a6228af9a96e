// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cardano_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/luxfi/log"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	cardano "github.com/eigerco/hyperlane-monorepo-sub001"
	"github.com/eigerco/hyperlane-monorepo-sub001/cardanomock"
	"github.com/eigerco/hyperlane-monorepo-sub001/cardanotest"
)

var (
	errOutage = errors.New("connection refused")

	testResource = cardano.ResourceLocator{
		PolicyID:  cardanotest.HashOf(0xaa).String(),
		AssetName: "49534d",
	}
	testScript = cardanotest.HashOf(0x5c)
)

func payload(s string) *string {
	return &s
}

func TestLocateMarker(t *testing.T) {
	require := require.New(t)

	chain := cardanotest.NewChain()
	marker := cardano.ResolvedOutput{TxID: "aa", InlinePayload: payload("d87980")}
	chain.SetMarker(testResource, marker)
	chain.AddOutput(testScript, cardano.ResolvedOutput{TxID: "bb", InlinePayload: payload("d87a80")})

	l := cardano.NewLocator(log.NewNoOpLogger(), chain)
	out, err := l.Locate(context.Background(), testResource, testScript, cardano.HasPayload)
	require.NoError(err)
	require.Equal(marker, *out)
}

func TestLocateFallback(t *testing.T) {
	tests := []struct {
		name     string
		resource cardano.ResourceLocator
		outputs  []cardano.ResolvedOutput
		expected string
	}{
		{
			name:     "marker missing",
			resource: testResource,
			outputs: []cardano.ResolvedOutput{
				{TxID: "bare"},
				{TxID: "state", InlinePayload: payload("d87980")},
				{TxID: "later", InlinePayload: payload("d87a80")},
			},
			expected: "state",
		},
		{
			name:     "no marker configured",
			resource: cardano.ResourceLocator{},
			outputs: []cardano.ResolvedOutput{
				{TxID: "hashed", PayloadHash: payload("ff")},
			},
			expected: "hashed",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			chain := cardanotest.NewChain()
			for _, out := range test.outputs {
				chain.AddOutput(testScript, out)
			}

			l := cardano.NewLocator(log.NewNoOpLogger(), chain)
			out, err := l.Locate(context.Background(), test.resource, testScript, cardano.HasPayload)
			require.NoError(err)
			require.Equal(test.expected, out.TxID)
		})
	}
}

func TestLocateNotFound(t *testing.T) {
	require := require.New(t)

	chain := cardanotest.NewChain()
	chain.AddOutput(testScript, cardano.ResolvedOutput{TxID: "bare"})

	l := cardano.NewLocator(log.NewNoOpLogger(), chain)
	_, err := l.Locate(context.Background(), testResource, testScript, cardano.HasPayload)
	require.ErrorIs(err, cardano.ErrNotFound)
	require.False(cardano.IsRetryable(err))

	_, err = l.Locate(context.Background(), testResource, cardano.Hash{}, nil)
	require.ErrorIs(err, cardano.ErrNotFound)
}

func TestLocateErrorPrecedence(t *testing.T) {
	type call struct {
		out *cardano.ResolvedOutput
		err error
	}
	tests := []struct {
		name     string
		primary  call
		scan     call
		expected error
	}{
		{
			name:     "primary outage, fallback empty",
			primary:  call{err: fmt.Errorf("%w: %w", cardano.ErrTransport, errOutage)},
			scan:     call{},
			expected: cardano.ErrTransport,
		},
		{
			name:     "primary miss, fallback outage",
			primary:  call{err: cardano.ErrNotFound},
			scan:     call{err: fmt.Errorf("%w: %w", cardano.ErrTransport, errOutage)},
			expected: cardano.ErrTransport,
		},
		{
			name:     "both miss",
			primary:  call{err: cardano.ErrNotFound},
			scan:     call{},
			expected: cardano.ErrNotFound,
		},
		{
			name:     "primary answers without an output",
			primary:  call{},
			scan:     call{},
			expected: cardano.ErrNotFound,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)
			ctrl := gomock.NewController(t)

			chain := cardanomock.NewChainAPI(ctrl)
			chain.EXPECT().FindOutputByMarker(gomock.Any(), testResource.PolicyID, testResource.AssetName).
				Return(test.primary.out, test.primary.err)
			chain.EXPECT().DeriveAddress(testScript).Return("addr_test1script", nil)
			var outputs []cardano.ResolvedOutput
			if test.scan.out != nil {
				outputs = append(outputs, *test.scan.out)
			}
			chain.EXPECT().ListOutputsAtAddress(gomock.Any(), "addr_test1script").
				Return(outputs, test.scan.err)

			l := cardano.NewLocator(log.NewNoOpLogger(), chain)
			_, err := l.Locate(context.Background(), testResource, testScript, cardano.HasPayload)
			require.ErrorIs(err, test.expected)
			require.Equal(test.expected, cardano.KindOf(err))
		})
	}
}

func TestLocateTransportRetryable(t *testing.T) {
	require := require.New(t)

	chain := cardanotest.NewChain()
	chain.SetErr(errOutage)

	l := cardano.NewLocator(log.NewNoOpLogger(), chain)
	_, err := l.Locate(context.Background(), testResource, testScript, cardano.HasPayload)
	require.ErrorIs(err, cardano.ErrTransport)
	require.ErrorIs(err, errOutage)
	require.True(cardano.IsRetryable(err))
}

func TestPayload(t *testing.T) {
	chain := cardanotest.NewChain()
	chain.SetPayload("h1", "d87980")

	tests := []struct {
		name        string
		out         cardano.ResolvedOutput
		expected    string
		expectedErr error
	}{
		{
			name:     "inline",
			out:      cardano.ResolvedOutput{InlinePayload: payload("d87a80"), PayloadHash: payload("h1")},
			expected: "d87a80",
		},
		{
			name:     "by hash",
			out:      cardano.ResolvedOutput{PayloadHash: payload("h1")},
			expected: "d87980",
		},
		{
			name:        "unknown hash",
			out:         cardano.ResolvedOutput{PayloadHash: payload("h2")},
			expectedErr: cardano.ErrNotFound,
		},
		{
			name:        "no payload",
			out:         cardano.ResolvedOutput{InlinePayload: payload("")},
			expectedErr: cardano.ErrInvalidDatum,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			l := cardano.NewLocator(log.NewNoOpLogger(), chain)
			got, err := l.Payload(context.Background(), &test.out)
			require.ErrorIs(err, test.expectedErr)
			require.Equal(test.expected, got)
		})
	}
}

func TestPayloadTransport(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	chain := cardanomock.NewChainAPI(ctrl)
	chain.EXPECT().FetchPayloadByHash(gomock.Any(), "h1").Return("", errOutage)

	l := cardano.NewLocator(log.NewNoOpLogger(), chain)
	_, err := l.Payload(context.Background(), &cardano.ResolvedOutput{PayloadHash: payload("h1")})
	require.ErrorIs(err, cardano.ErrTransport)

	var e *cardano.Error
	require.ErrorAs(err, &e)
	require.Equal("payload", e.Field)
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name     string
		err      *cardano.Error
		expected string
	}{
		{
			name:     "kind only",
			err:      cardano.NewError(cardano.ErrNotFound, "ism", "", nil),
			expected: "ism: not found",
		},
		{
			name:     "field and cause",
			err:      cardano.NewError(cardano.ErrInvalidDatum, "registry", "owner", errors.New("expected 28 bytes, got 1")),
			expected: "registry: owner: invalid datum: expected 28 bytes, got 1",
		},
		{
			name:     "cause names the kind",
			err:      cardano.NewError(cardano.ErrTransport, "", "", fmt.Errorf("%w: %w", cardano.ErrTransport, errOutage)),
			expected: "transport error: connection refused",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, test.err.Error())
		})
	}
}
