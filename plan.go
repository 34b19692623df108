// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tftest

// Plan is a read-only view over a `terraform show -json` plan document.
type Plan struct {
	document
	rootModule *PlanModule
	outputs    *Values
	variables  *Values
}

// NewPlan wraps raw plan JSON.
func NewPlan(raw []byte) (*Plan, error) {
	d, err := newDocument(raw)
	if err != nil {
		return nil, err
	}
	p := &Plan{document: d}
	planned := p.mapValue("planned_values")
	root, _ := planned["root_module"].(map[string]any)
	p.rootModule = newPlanModule(root)
	outputs, _ := planned["outputs"].(map[string]any)
	p.outputs = newValuesFromMap(outputs)
	// there might be no variables defined
	p.variables = newValuesFromMap(p.mapValue("variables"))
	return p, nil
}

// RootModule returns the planned values root module.
func (p *Plan) RootModule() *PlanModule { return p.rootModule }

// Resources returns the root module resources keyed by address.
func (p *Plan) Resources() map[string]map[string]any {
	return p.rootModule.Resources()
}

// Modules returns the root module's child modules keyed by address.
func (p *Plan) Modules() map[string]*PlanModule {
	return p.rootModule.ChildModules()
}

// ResourceChanges returns the plan's resource changes keyed by address.
// Older plan formats without a resource_changes key yield an empty map.
func (p *Plan) ResourceChanges() map[string]map[string]any {
	return addressed(p.sliceValue("resource_changes"))
}

// OutputChanges returns the output_changes section keyed by output name.
func (p *Plan) OutputChanges() map[string]map[string]any {
	changes := map[string]map[string]any{}
	for k, raw := range p.mapValue("output_changes") {
		if obj, ok := raw.(map[string]any); ok {
			changes[k] = obj
		}
	}
	return changes
}

// Outputs returns the planned values outputs.
func (p *Plan) Outputs() *Values { return p.outputs }

// Variables returns the plan's input variables.
func (p *Plan) Variables() *Values { return p.variables }

// FormatVersion returns the plan document format version.
func (p *Plan) FormatVersion() string {
	s, _ := p.data["format_version"].(string)
	return s
}

// TerraformVersion returns the terraform version that produced the plan.
func (p *Plan) TerraformVersion() string {
	s, _ := p.data["terraform_version"].(string)
	return s
}

// Configuration returns the plan's configuration section.
func (p *Plan) Configuration() map[string]any {
	return p.mapValue("configuration")
}

// PlanModule is a read-only view over one module of a plan's planned
// values, with resource and child-module keys stripped of the module's own
// address prefix.
type PlanModule struct {
	document
	strip     int
	resources map[string]map[string]any
	children  map[string]*PlanModule
}

func newPlanModule(data map[string]any) *PlanModule {
	m := &PlanModule{document: docFromMap(data)}
	if addr := m.Address(); addr != "" {
		m.strip = len(addr) + 1
	}
	return m
}

// Address returns the module address; empty for the root module.
func (m *PlanModule) Address() string {
	s, _ := m.data["address"].(string)
	return s
}

// Resources returns the module's resources keyed by address relative to the
// module.
func (m *PlanModule) Resources() map[string]map[string]any {
	if m.resources == nil {
		m.resources = map[string]map[string]any{}
		for addr, res := range addressed(m.sliceValue("resources")) {
			m.resources[m.stripPrefix(addr)] = res
		}
	}
	return m.resources
}

// ChildModules returns the module's child modules keyed by address relative
// to the module.
func (m *PlanModule) ChildModules() map[string]*PlanModule {
	if m.children == nil {
		m.children = map[string]*PlanModule{}
		for _, raw := range m.sliceValue("child_modules") {
			child, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			mod := newPlanModule(child)
			m.children[m.stripPrefix(mod.Address())] = mod
		}
	}
	return m.children
}

func (m *PlanModule) stripPrefix(addr string) string {
	if m.strip > 0 && len(addr) >= m.strip {
		return addr[m.strip:]
	}
	return addr
}

// addressed keys a list of objects by their "address" field.
func addressed(items []any) map[string]map[string]any {
	byAddr := map[string]map[string]any{}
	for _, raw := range items {
		obj, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		addr, ok := obj["address"].(string)
		if !ok {
			continue
		}
		byAddr[addr] = obj
	}
	return byAddr
}
