package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringSet_MarshalSorted(t *testing.T) {
	s := NewStringSet("c", "a", "b")
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b","c"]`, string(data))
}

func TestStringSet_RoundTrip(t *testing.T) {
	s := NewStringSet("x", "y")
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var back StringSet
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s, back)
}

func TestStringSet_AddHas(t *testing.T) {
	s := NewStringSet()
	assert.False(t, s.Has("a"))
	s.Add("a")
	s.Add("a")
	assert.True(t, s.Has("a"))
	assert.Len(t, s, 1)
}

func TestNewProjectAnalysis_InitializedContainers(t *testing.T) {
	pa := NewProjectAnalysis("/proj")
	assert.Equal(t, "/proj", pa.ProjectRoot)
	assert.NotNil(t, pa.Files)
	assert.NotNil(t, pa.TestFiles)
	assert.NotNil(t, pa.Dependencies)
	assert.NotNil(t, pa.Modules)
	assert.NotNil(t, pa.CoreComponents)
	assert.NotNil(t, pa.PeripheralComponents)
	assert.NotZero(t, pa.ScanTime)

	// Serializes without nulls for collection fields.
	data, err := json.Marshal(pa)
	require.NoError(t, err)
	assert.NotContains(t, string(data), ":null")
}
