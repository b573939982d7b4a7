package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadData(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"name": "bob"}`), 0o644))
	data, err := loadData(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "bob", data["name"])

	yamlPath := filepath.Join(dir, "data.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("name: ann\nitems:\n  - 1\n  - 2\n"), 0o644))
	data, err = loadData(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "ann", data["name"])
	assert.Len(t, data["items"], 2)

	_, err = loadData(filepath.Join(dir, "absent.json"))
	assert.Error(t, err)
}

func TestSetPath(t *testing.T) {
	data := map[string]interface{}{}
	require.NoError(t, setPath(data, "a.b.c", 1))
	assert.Equal(t,
		map[string]interface{}{"a": map[string]interface{}{"b": map[string]interface{}{"c": 1}}},
		data)

	require.NoError(t, setPath(data, "a.b.d", 2))
	inner := data["a"].(map[string]interface{})["b"].(map[string]interface{})
	assert.Equal(t, 1, inner["c"])
	assert.Equal(t, 2, inner["d"])

	data["scalar"] = "x"
	err := setPath(data, "scalar.child", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a mapping")
}

func TestCollectKeyPaths(t *testing.T) {
	keys := collectKeyPaths(map[string]interface{}{
		"user": map[string]interface{}{"name": "bob"},
		"site": "example",
	}, "", 0)
	assert.Contains(t, keys, "user")
	assert.Contains(t, keys, "user.name")
	assert.Contains(t, keys, "site")
}

func TestClosestKey(t *testing.T) {
	keys := []string{"user.name", "site", "items"}
	assert.Equal(t, "user.name", closestKey("usr", keys))
	assert.Equal(t, "", closestKey("site", keys), "exact matches need no hint")
}
