package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sdkscout"
)

func TestValidateFormat(t *testing.T) {
	assert.NoError(t, validateFormat("json"))
	assert.NoError(t, validateFormat("text"))
	assert.Error(t, validateFormat("yaml"))
	assert.Error(t, validateFormat(""))
}

func TestResolveTargetDir(t *testing.T) {
	dir := t.TempDir()

	abs, err := resolveTargetDir([]string{dir})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(abs))

	_, err = resolveTargetDir([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)

	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = resolveTargetDir([]string{file})
	assert.Error(t, err)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := loadConfig(t.TempDir())
	assert.Equal(t, defaultConfig, cfg)
}

func TestLoadConfigFromFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "sdkscout.yaml"),
		[]byte("max_files: 200\nmax_depth: 4\n"), 0o644))

	cfg := loadConfig(root)
	assert.Equal(t, 200, cfg.MaxFiles)
	assert.Equal(t, 4, cfg.MaxDepth)
	assert.Equal(t, defaultConfig.CacheSize, cfg.CacheSize)
}

func TestLoadConfigRejectsNonPositiveLimits(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "sdkscout.yaml"),
		[]byte("max_files: -1\nmax_depth: 0\n"), 0o644))

	cfg := loadConfig(root)
	assert.Equal(t, defaultConfig.MaxFiles, cfg.MaxFiles)
	assert.Equal(t, defaultConfig.MaxDepth, cfg.MaxDepth)
}

func TestFormatCoverageText(t *testing.T) {
	var buf bytes.Buffer
	formatCoverageText(&buf, sdkscout.UsageIndex{
		FileCount: 2,
		Covered: []sdkscout.CoveredOperation{
			{Type: "FooClient", Operation: "Get", File: "a.go", Line: 3},
		},
		Uncovered: []sdkscout.UncoveredOperation{
			{Type: "FooClient", Operation: "Delete", Signature: "Delete(...)"},
		},
		Patterns: []string{"pagination"},
	})

	out := buf.String()
	assert.Contains(t, out, "Coverage: 1/2 reachable operations across 2 sample files")
	assert.Contains(t, out, "pagination")
	assert.Contains(t, out, "Get")
	assert.Contains(t, out, "Delete")
}
