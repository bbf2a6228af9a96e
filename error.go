// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cardano

import (
	"errors"
	"strings"
)

var (
	// ErrTransport is returned when the chain API could not be reached or
	// answered with an unexpected failure. Callers decide whether to retry.
	ErrTransport = errors.New("transport error")
	// ErrNotFound is returned when the expected state output does not exist
	// (e.g. the contract has not been deployed yet).
	ErrNotFound = errors.New("not found")
	// ErrInvalidDatum is returned when a payload is well framed but does not
	// have the expected structure.
	ErrInvalidDatum = errors.New("invalid datum")
	// ErrDeserialization is returned when a payload could not be framed at all
	// (bad hex, truncated binary, malformed JSON projection).
	ErrDeserialization = errors.New("deserialization error")
	// ErrRecipientNotFound is returned by registry lookups that miss.
	ErrRecipientNotFound = errors.New("recipient not found")
	// ErrEmptySignatures is returned when aggregating zero signatures.
	ErrEmptySignatures = errors.New("empty signatures")
	// ErrInconsistentCheckpoints is returned when aggregating signatures over
	// different checkpoints.
	ErrInconsistentCheckpoints = errors.New("inconsistent checkpoints")
)

var kinds = []error{
	ErrTransport,
	ErrNotFound,
	ErrInvalidDatum,
	ErrDeserialization,
	ErrRecipientNotFound,
	ErrEmptySignatures,
	ErrInconsistentCheckpoints,
}

// Error attaches the resource and field being processed to one of the
// package's error kinds.
type Error struct {
	// Kind is one of the package sentinel errors
	Kind error
	// Resource names the logical resource, e.g. "ism" or "registry"
	Resource string
	// Field is the path of the offending field inside a datum, if any
	Field string
	// Err is the underlying cause, if any
	Err error
}

// NewError returns an *Error of the given kind.
func NewError(kind error, resource, field string, err error) *Error {
	return &Error{
		Kind:     kind,
		Resource: resource,
		Field:    field,
		Err:      err,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	var sb strings.Builder
	if e.Resource != "" {
		sb.WriteString(e.Resource)
		sb.WriteString(": ")
	}
	if e.Field != "" {
		sb.WriteString(e.Field)
		sb.WriteString(": ")
	}
	// the cause already names the kind when it was classified further down
	showKind := e.Kind != nil && (e.Err == nil || !errors.Is(e.Err, e.Kind))
	if showKind {
		sb.WriteString(e.Kind.Error())
	}
	if e.Err != nil {
		if showKind {
			sb.WriteString(": ")
		}
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e == nil {
		return nil
	}

	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the sentinel error classifying err, or nil if err does not
// belong to any known kind.
func KindOf(err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) && e.Kind != nil {
		return e.Kind
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// IsRetryable reports whether err is a transport failure. Structural and
// caller-input errors are never retryable.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransport)
}
