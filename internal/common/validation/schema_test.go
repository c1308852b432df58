package validation

import (
	"testing"

	"readiness-workers/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoringSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"businessProfile"},
		"properties": map[string]interface{}{
			"requestId": map[string]interface{}{"type": "string"},
			"businessProfile": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"foundingYear":  map[string]interface{}{"type": []interface{}{"integer", "string", "null"}},
					"targetMarkets": map[string]interface{}{"type": []interface{}{"array", "string", "null"}},
				},
			},
		},
	}
}

func testRegistry() *registry.ActivityRegistry {
	return &registry.ActivityRegistry{Activities: []registry.Activity{
		{ID: "compute-readiness-score", TaskType: "compute-readiness-score", InputSchema: scoringSchema()},
		{ID: "match-partners", TaskType: "match-partners"},
	}}
}

func TestValidator_ValidateInput(t *testing.T) {
	v, err := NewValidator(testRegistry())
	require.NoError(t, err)
	assert.True(t, v.HasSchema("compute-readiness-score"))
	assert.False(t, v.HasSchema("match-partners"))

	tests := []struct {
		name       string
		input      map[string]interface{}
		wantValid  bool
		wantFields []string
	}{
		{
			name: "valid payload",
			input: map[string]interface{}{
				"requestId":       "req-1",
				"businessProfile": map[string]interface{}{"foundingYear": float64(2019), "targetMarkets": []interface{}{"UK"}},
			},
			wantValid: true,
		},
		{
			name:       "missing profile",
			input:      map[string]interface{}{"requestId": "req-1"},
			wantFields: []string{"businessProfile"},
		},
		{
			name:       "profile is not an object",
			input:      map[string]interface{}{"businessProfile": "acme"},
			wantFields: []string{"businessProfile"},
		},
		{
			name: "nested type mismatch",
			input: map[string]interface{}{
				"businessProfile": map[string]interface{}{"foundingYear": true},
			},
			wantFields: []string{"businessProfile.foundingYear"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := v.ValidateInput("compute-readiness-score", tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid)
			for _, field := range tt.wantFields {
				assert.True(t, result.HasErrors(field), "expected error on %s, got %v", field, result.GetErrorMessages())
			}
		})
	}
}

func TestValidator_UnknownTaskTypeAcceptsAnything(t *testing.T) {
	v, err := NewValidator(testRegistry())
	require.NoError(t, err)

	result, err := v.ValidateInput("match-partners", map[string]interface{}{"anything": 1})
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestNewValidator_RejectsBrokenSchema(t *testing.T) {
	reg := &registry.ActivityRegistry{Activities: []registry.Activity{
		{ID: "x", TaskType: "compute-readiness-score", InputSchema: map[string]interface{}{"type": 42}},
	}}
	_, err := NewValidator(reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compute-readiness-score")
}

func TestValidateAgainst(t *testing.T) {
	schema := map[string]interface{}{
		"type":  "array",
		"items": map[string]interface{}{"type": "string", "enum": []interface{}{"legal", "accounting"}},
	}

	ok, err := ValidateAgainst(schema, []interface{}{"legal"})
	require.NoError(t, err)
	assert.True(t, ok.Valid)

	bad, err := ValidateAgainst(schema, []interface{}{"legal", "travel"})
	require.NoError(t, err)
	assert.False(t, bad.Valid)
	assert.Len(t, bad.GetErrorMessages(), 1)
}

func TestValidateTaskType(t *testing.T) {
	assert.NoError(t, ValidateTaskType("compute-readiness-score"))
	assert.NoError(t, ValidateTaskType("match-partners"))
	assert.Error(t, ValidateTaskType("matchPartners"))
	assert.Error(t, ValidateTaskType("score"))
	assert.Error(t, ValidateTaskType("user.account.create"))
}
