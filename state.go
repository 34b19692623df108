// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tftest

import "fmt"

// State is a read-only view over a pulled terraform state document.
type State struct {
	document
	outputs   *Values
	resources map[string]map[string]any
}

// NewState wraps raw state JSON.
func NewState(raw []byte) (*State, error) {
	d, err := newDocument(raw)
	if err != nil {
		return nil, err
	}
	s := &State{document: d}
	s.outputs = newValuesFromMap(s.mapValue("outputs"))
	return s, nil
}

// Outputs returns the state outputs.
func (s *State) Outputs() *Values { return s.outputs }

// Resources returns the state resources keyed by "module.type.name". A
// state without a resources key yields an empty map.
func (s *State) Resources() map[string]map[string]any {
	if s.resources == nil {
		s.resources = map[string]map[string]any{}
		for _, raw := range s.sliceValue("resources") {
			res, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			name := fmt.Sprintf("%v.%v.%v", res["module"], res["type"], res["name"])
			s.resources[name] = res
		}
	}
	return s.resources
}

// Version returns the state document version.
func (s *State) Version() any { return s.data["version"] }

// TerraformVersion returns the terraform version recorded in the state.
func (s *State) TerraformVersion() string {
	v, _ := s.data["terraform_version"].(string)
	return v
}
