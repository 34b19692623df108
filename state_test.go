// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package tftest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stateDoc = `{
	"version": 4,
	"terraform_version": "0.12.6",
	"serial": 7,
	"lineage": "423bb9b9-71f8-2b9d-59fe-bbc44bea7d4f",
	"outputs": {
		"name": {"value": "test-sa", "type": "string"},
		"key": {"value": "redacted", "type": "string", "sensitive": true}
	},
	"resources": [
		{
			"module": "module.sa",
			"mode": "managed",
			"type": "google_service_account",
			"name": "sa",
			"provider": "provider.google",
			"instances": [{"schema_version": 0, "attributes": {"display_name": "Test SA"}}]
		},
		{
			"module": "module.sa",
			"mode": "managed",
			"type": "google_service_account_key",
			"name": "key",
			"provider": "provider.google",
			"instances": []
		}
	]
}`

func TestState(t *testing.T) {
	state, err := NewState([]byte(stateDoc))
	require.NoError(t, err)

	assert.Equal(t, float64(4), state.Version())
	assert.Equal(t, "0.12.6", state.TerraformVersion())

	resources := state.Resources()
	require.Len(t, resources, 2)
	require.Contains(t, resources, "module.sa.google_service_account.sa")
	require.Contains(t, resources, "module.sa.google_service_account_key.key")
	assert.Equal(t, "provider.google",
		resources["module.sa.google_service_account.sa"]["provider"])

	outputs := state.Outputs()
	assert.Equal(t, "test-sa", outputs.Value("name"))
	assert.Equal(t, []string{"key"}, outputs.Sensitive())

	assert.Equal(t, "Test SA",
		state.Get("resources.0.instances.0.attributes.display_name").String())
}

func TestStateNoResources(t *testing.T) {
	state, err := NewState([]byte(`{"version": 4, "outputs": {}}`))
	require.NoError(t, err)
	assert.NotNil(t, state.Resources())
	assert.Empty(t, state.Resources())
	assert.Equal(t, 0, state.Outputs().Len())
}
