package restarea

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNormalizeFlag(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected bool
	}{
		{"bool true", true, true},
		{"int 1", 1, true},
		{"float 1", 1.0, true},
		{"string 1", "1", true},
		{"bool false", false, false},
		{"int 0", 0, false},
		{"string 0", "0", false},
		{"nil", nil, false},
		{"string true", "true", false},
		{"int 2", 2, false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeFlag(tt.value))
		})
	}
}

func TestFlag_UnmarshalJSON(t *testing.T) {
	var record struct {
		A Flag `json:"a"`
		B Flag `json:"b"`
		C Flag `json:"c"`
		D Flag `json:"d"`
		E Flag `json:"e"`
		F Flag `json:"f"`
		G Flag `json:"g"`
	}

	err := json.Unmarshal([]byte(`{"a": true, "b": 1, "c": "1", "d": false, "e": 0, "f": "0", "g": null}`), &record)
	require.NoError(t, err)

	assert.True(t, bool(record.A))
	assert.True(t, bool(record.B))
	assert.True(t, bool(record.C))
	assert.False(t, bool(record.D))
	assert.False(t, bool(record.E))
	assert.False(t, bool(record.F))
	assert.False(t, bool(record.G))
}

func TestFlag_UnmarshalYAML(t *testing.T) {
	var record struct {
		A Flag `yaml:"a"`
		B Flag `yaml:"b"`
		C Flag `yaml:"c"`
		D Flag `yaml:"d"`
		E Flag `yaml:"e"`
		F Flag `yaml:"f"`
	}

	err := yaml.Unmarshal([]byte("a: true\nb: 1\nc: \"1\"\nd: false\ne: 0\nf: \"0\"\n"), &record)
	require.NoError(t, err)

	assert.True(t, bool(record.A))
	assert.True(t, bool(record.B))
	assert.True(t, bool(record.C))
	assert.False(t, bool(record.D))
	assert.False(t, bool(record.E))
	assert.False(t, bool(record.F))
}
