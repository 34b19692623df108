// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package hclinspect parses the .tf files of a fixture module and reports
// the declared resources, data sources, variables, outputs and child module
// calls. It reads configuration source only; nothing is evaluated against a
// backend.
package hclinspect

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Module summarizes the declarations of one fixture module.
type Module struct {
	Path        string
	Resources   []string          // type.name addresses
	DataSources []string          // data.type.name addresses
	Modules     []string          // module.name addresses
	Outputs     []string
	Variables   map[string]string // name -> JSON-encoded literal default, "" if none
}

// Inspect parses every .tf file directly under dir. Parse diagnostics are
// returned joined into one error; a directory without .tf files yields an
// empty Module.
func Inspect(dir string) (*Module, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.tf"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	sort.Strings(matches)

	mod := &Module{Path: dir, Variables: map[string]string{}}
	parser := hclparse.NewParser()

	for _, path := range matches {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		file, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %s", path, diags.Error())
		}
		body, ok := file.Body.(*hclsyntax.Body)
		if !ok {
			log.Debugf("skipping non-native body in %s", path)
			continue
		}
		mod.collect(body)
	}

	sort.Strings(mod.Resources)
	sort.Strings(mod.DataSources)
	sort.Strings(mod.Modules)
	sort.Strings(mod.Outputs)
	return mod, nil
}

func (m *Module) collect(body *hclsyntax.Body) {
	for _, block := range body.Blocks {
		switch block.Type {
		case "resource":
			if len(block.Labels) == 2 {
				m.Resources = append(m.Resources, strings.Join(block.Labels, "."))
			}
		case "data":
			if len(block.Labels) == 2 {
				m.DataSources = append(m.DataSources, "data."+strings.Join(block.Labels, "."))
			}
		case "module":
			if len(block.Labels) == 1 {
				m.Modules = append(m.Modules, "module."+block.Labels[0])
			}
		case "output":
			if len(block.Labels) == 1 {
				m.Outputs = append(m.Outputs, block.Labels[0])
			}
		case "variable":
			if len(block.Labels) == 1 {
				m.Variables[block.Labels[0]] = defaultValue(block.Body)
			}
		}
	}
}

// defaultValue renders a variable block's literal default as JSON. Defaults
// referencing other values cannot be evaluated here and render empty.
func defaultValue(body *hclsyntax.Body) string {
	attr, ok := body.Attributes["default"]
	if !ok {
		return ""
	}
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		log.Debugf("unevaluable default: %s", diags.Error())
		return ""
	}
	b, err := json.Marshal(ctyjson.SimpleJSONValue{Value: val})
	if err != nil {
		return ""
	}
	return string(b)
}

// Addresses returns every declared address in one sorted list, useful for
// asserting a fixture's shape before running terraform against it.
func (m *Module) Addresses() []string {
	out := make([]string, 0, len(m.Resources)+len(m.DataSources)+len(m.Modules))
	out = append(out, m.Resources...)
	out = append(out, m.DataSources...)
	out = append(out, m.Modules...)
	sort.Strings(out)
	return out
}
