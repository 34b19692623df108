// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tftest

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TerragruntTest drives terragrunt against a fixture. Everything that
// applies to TerraformTest applies here too. With run-all enabled the
// instance is only usable for run-all invocations; create a second instance
// without it for individual module testing.
type TerragruntTest struct {
	*TerraformTest
}

// WithRunAll makes every invocation a terragrunt run-all invocation.
func WithRunAll() Option {
	return func(t *TerraformTest) { t.runAll = true }
}

// NewTerragruntTest binds a wrapper to the fixture at tfdir, defaulting the
// binary to "terragrunt".
func NewTerragruntTest(tfdir string, opts ...Option) *TerragruntTest {
	opts = append([]Option{WithBinary("terragrunt")}, opts...)
	return &TerragruntTest{TerraformTest: NewTerraformTest(tfdir, opts...)}
}

// PlanJSONAll runs a run-all plan and returns every module's parsed plan
// document. run-all emits the documents back to back in one stream.
func (t *TerragruntTest) PlanJSONAll(args *Args) ([]*Plan, error) {
	out, err := t.planShow(args)
	if err != nil {
		return nil, err
	}
	docs, err := splitJSONDocs(out.Out)
	if err != nil {
		return nil, fmt.Errorf("error decoding plan output: %w", err)
	}
	plans := make([]*Plan, 0, len(docs))
	for _, doc := range docs {
		plan, err := NewPlan(doc)
		if err != nil {
			return nil, fmt.Errorf("error decoding plan output: %w", err)
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// OutputAll runs a run-all output and returns every module's parsed
// outputs.
func (t *TerragruntTest) OutputAll(args *Args) ([]*Values, error) {
	out, err := t.outputRaw(args)
	if err != nil {
		return nil, err
	}
	docs, err := splitJSONDocs(out.Out)
	if err != nil {
		return nil, fmt.Errorf("error decoding output: %w", err)
	}
	all := make([]*Values, 0, len(docs))
	for _, doc := range docs {
		values, err := NewValues(doc)
		if err != nil {
			return nil, fmt.Errorf("error decoding output: %w", err)
		}
		all = append(all, values)
	}
	return all, nil
}

// splitJSONDocs splits a stream of back-to-back JSON documents (no commas,
// no array wrapper) into the raw bytes of each document.
func splitJSONDocs(s string) ([][]byte, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	var docs [][]byte //nolint:prealloc
	for dec.More() {
		var m json.RawMessage
		if err := dec.Decode(&m); err != nil {
			return nil, err
		}
		docs = append(docs, []byte(m))
	}
	return docs, nil
}
