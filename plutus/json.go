// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package plutus

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

const (
	keyConstructor = "constructor"
	keyFields      = "fields"
	keyInt         = "int"
	keyBytes       = "bytes"
	keyList        = "list"
	keyMap         = "map"
	keyMapKey      = "k"
	keyMapValue    = "v"
)

// LooksLikeJSON reports whether s is a JSON object with one of the shapes of
// the JSON projection. It does not validate nested values.
func LooksLikeJSON(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return false
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return false
	}
	if _, ok := obj[keyConstructor]; ok {
		return true
	}
	if _, ok := obj[keyFields]; ok {
		return true
	}
	for _, key := range []string{keyInt, keyBytes, keyList, keyMap} {
		if _, ok := obj[key]; ok {
			return true
		}
	}
	return false
}

// UnmarshalJSON parses a value in the JSON projection.
func UnmarshalJSON(data []byte) (Value, error) {
	return parseJSON(json.RawMessage(bytes.TrimSpace(data)))
}

func parseJSON(raw json.RawMessage) (Value, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: expected object: %w", ErrMalformed, err)
	}

	if rawIndex, ok := obj[keyConstructor]; ok {
		return parseJSONConstr(rawIndex, obj[keyFields])
	}
	if _, ok := obj[keyFields]; ok {
		return nil, fmt.Errorf("%w: fields without constructor", ErrMalformed)
	}
	if len(obj) != 1 {
		return nil, fmt.Errorf("%w: expected a single leaf key, got %d keys", ErrMalformed, len(obj))
	}

	for key, value := range obj {
		switch key {
		case keyInt:
			n, err := parseJSONInt(value)
			if err != nil {
				return nil, err
			}
			return Int{v: n}, nil
		case keyBytes:
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				return nil, fmt.Errorf("%w: bytes: %w", ErrMalformed, err)
			}
			b, err := hex.DecodeString(s)
			if err != nil {
				return nil, fmt.Errorf("%w: bytes: %w", ErrMalformed, err)
			}
			return Bytes(b), nil
		case keyList:
			items, err := parseJSONItems(value)
			if err != nil {
				return nil, err
			}
			return List(items), nil
		case keyMap:
			return parseJSONMap(value)
		default:
			return nil, fmt.Errorf("%w: unknown key %q", ErrMalformed, key)
		}
	}
	return nil, fmt.Errorf("%w: empty object", ErrMalformed)
}

func parseJSONConstr(rawIndex, rawFields json.RawMessage) (Value, error) {
	index, err := parseJSONInt(rawIndex)
	if err != nil {
		return nil, fmt.Errorf("constructor: %w", err)
	}
	if index.Sign() < 0 || !index.IsUint64() {
		return nil, fmt.Errorf("%w: constructor index %s", ErrMalformed, index)
	}
	if index.Uint64() > MaxCompactIndex {
		return nil, fmt.Errorf("%w: index %s", ErrUnsupportedConstructor, index)
	}
	if rawFields == nil {
		return nil, fmt.Errorf("%w: constructor without fields", ErrMalformed)
	}

	fields, err := parseJSONItems(rawFields)
	if err != nil {
		return nil, err
	}
	return Constr{Index: index.Uint64(), Fields: fields}, nil
}

func parseJSONInt(raw json.RawMessage) (*big.Int, error) {
	s := strings.TrimSpace(string(raw))
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: invalid integer %q", ErrMalformed, s)
	}
	return n, nil
}

func parseJSONItems(raw json.RawMessage) ([]Value, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: expected array: %w", ErrMalformed, err)
	}

	values := make([]Value, 0, len(items))
	for _, item := range items {
		v, err := parseJSON(item)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func parseJSONMap(raw json.RawMessage) (Value, error) {
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: map: %w", ErrMalformed, err)
	}

	pairs := make(Map, 0, len(entries))
	for _, entry := range entries {
		rawKey, okKey := entry[keyMapKey]
		rawValue, okValue := entry[keyMapValue]
		if !okKey || !okValue {
			return nil, fmt.Errorf("%w: map entry without k/v", ErrMalformed)
		}
		k, err := parseJSON(rawKey)
		if err != nil {
			return nil, err
		}
		v, err := parseJSON(rawValue)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, Pair{Key: k, Value: v})
	}
	return pairs, nil
}

// MarshalJSON returns the JSON projection of v.
func MarshalJSON(v Value) ([]byte, error) {
	tree, err := toJSON(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(tree)
}

func toJSON(v Value) (any, error) {
	switch v := v.(type) {
	case Constr:
		fields, err := toJSONItems(v.Fields)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			keyConstructor: v.Index,
			keyFields:      fields,
		}, nil
	case Bytes:
		return map[string]any{keyBytes: hex.EncodeToString(v)}, nil
	case Int:
		return map[string]any{keyInt: json.RawMessage(v.Big().String())}, nil
	case List:
		items, err := toJSONItems(v)
		if err != nil {
			return nil, err
		}
		return map[string]any{keyList: items}, nil
	case Map:
		entries := make([]map[string]any, 0, len(v))
		for _, pair := range v {
			k, err := toJSON(pair.Key)
			if err != nil {
				return nil, err
			}
			val, err := toJSON(pair.Value)
			if err != nil {
				return nil, err
			}
			entries = append(entries, map[string]any{keyMapKey: k, keyMapValue: val})
		}
		return map[string]any{keyMap: entries}, nil
	default:
		return nil, fmt.Errorf("%w: cannot encode %s", ErrMalformed, Kind(v))
	}
}

func toJSONItems(values []Value) ([]any, error) {
	items := make([]any, 0, len(values))
	for _, value := range values {
		item, err := toJSON(value)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
