// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tftest

import (
	"encoding/json"
	"sort"

	"github.com/tidwall/gjson"
)

// document is the read-only mapping core shared by the JSON views. It holds
// a parsed top-level object plus the raw bytes it came from, and exposes
// key access, membership and iteration without copying or mutating the
// underlying structure.
type document struct {
	raw  []byte
	data map[string]any
}

func newDocument(raw []byte) (document, error) {
	d := document{raw: raw, data: map[string]any{}}
	if len(raw) == 0 {
		return d, nil
	}
	if err := json.Unmarshal(raw, &d.data); err != nil {
		return document{}, err
	}
	return d, nil
}

// docFromMap wraps an already-decoded object, re-encoding it lazily only
// when a path query needs raw bytes.
func docFromMap(data map[string]any) document {
	if data == nil {
		data = map[string]any{}
	}
	return document{data: data}
}

// Len returns the number of top-level keys.
func (d *document) Len() int { return len(d.data) }

// Keys returns the top-level keys in sorted order.
func (d *document) Keys() []string {
	keys := make([]string, 0, len(d.data))
	for k := range d.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Contains reports whether the document has a top-level key.
func (d *document) Contains(key string) bool {
	_, ok := d.data[key]
	return ok
}

// Value returns the value at a top-level key, or nil when absent.
func (d *document) Value(key string) any { return d.data[key] }

// Get drills into the document with a gjson path expression, e.g.
// "planned_values.root_module.resources.0.address".
func (d *document) Get(path string) gjson.Result {
	return gjson.GetBytes(d.bytes(), path)
}

// Raw returns the decoded top-level object.
func (d *document) Raw() map[string]any { return d.data }

func (d *document) bytes() []byte {
	if d.raw == nil {
		d.raw, _ = json.Marshal(d.data)
	}
	return d.raw
}

func (d *document) String() string { return string(d.bytes()) }

// mapValue returns the object at a top-level key, or an empty map when the
// key is absent or not an object. Older document formats omit some keys;
// absence is an empty collection, not an error.
func (d *document) mapValue(key string) map[string]any {
	if m, ok := d.data[key].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// sliceValue returns the array at a top-level key, or nil when absent.
func (d *document) sliceValue(key string) []any {
	if s, ok := d.data[key].([]any); ok {
		return s
	}
	return nil
}
