// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tftest

import "sort"

// Values is a read-only view over a terraform outputs or variables document:
// a mapping from name to an object carrying at least a "value" field, as
// produced by `terraform output -json` and by the variables section of a
// plan document.
type Values struct {
	document
	sensitive []string
}

// NewValues wraps raw output/variables JSON.
func NewValues(raw []byte) (*Values, error) {
	d, err := newDocument(raw)
	if err != nil {
		return nil, err
	}
	v := &Values{document: d}
	v.findSensitive()
	return v, nil
}

func newValuesFromMap(data map[string]any) *Values {
	v := &Values{document: docFromMap(data)}
	v.findSensitive()
	return v
}

// findSensitive records the names flagged sensitive. Only outputs carry the
// flag; for variables the list stays empty.
func (v *Values) findSensitive() {
	for k, raw := range v.data {
		obj, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		switch s := obj["sensitive"].(type) {
		case bool:
			if s {
				v.sensitive = append(v.sensitive, k)
			}
		case float64:
			if s != 0 {
				v.sensitive = append(v.sensitive, k)
			}
		}
	}
	sort.Strings(v.sensitive)
}

// Value returns the unwrapped value for name, or nil when the name is
// unknown or carries no value.
func (v *Values) Value(name string) any {
	obj, ok := v.data[name].(map[string]any)
	if !ok {
		return nil
	}
	return obj["value"]
}

// Sensitive returns the sorted names flagged sensitive.
func (v *Values) Sensitive() []string { return v.sensitive }
