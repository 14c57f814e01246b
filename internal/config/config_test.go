package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetValid(t *testing.T) {
	tests := []struct {
		target Target
		valid  bool
	}{
		{TargetC, true},
		{TargetCPP, true},
		{TargetRust, true},
		{TargetGo, true},
		{TargetHaskell, true},
		{TargetOCaml, true},
		{TargetLLVM, true},
		{Target("python"), false},
		{Target(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.target), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.target.Valid())
		})
	}
}

func TestOptimizationValid(t *testing.T) {
	tests := []struct {
		opt   Optimization
		valid bool
	}{
		{OptNone, true},
		{OptBasic, true},
		{OptModerate, true},
		{OptAggressive, true},
		{Optimization("extreme"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.opt), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.opt.Valid())
		})
	}
}

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, TargetC, cfg.Target)
	assert.Equal(t, OptNone, cfg.Optimization)
	assert.False(t, cfg.EnableFormalVerification)
	assert.False(t, cfg.EnableAdvancedAnalysis)
	assert.False(t, cfg.EnableCompileTimeOptimization)
}

func TestValidateRejectsUnknownTarget(t *testing.T) {
	cfg := Default()
	cfg.Target = "cobol"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cobol")
}

func TestValidateDefaultsEmptyOptimization(t *testing.T) {
	cfg := Config{Target: TargetGo}
	require.NoError(t, cfg.Validate())
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mgen.yaml")
	contents := []byte(`
target: rust
optimization: aggressive
enable_formal_verification: true
enable_advanced_analysis: true
enable_compile_time_optimization: true
`)
	require.NoError(t, os.WriteFile(path, contents, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, TargetRust, cfg.Target)
	assert.Equal(t, OptAggressive, cfg.Optimization)
	assert.True(t, cfg.EnableFormalVerification)
	assert.True(t, cfg.EnableAdvancedAnalysis)
	assert.True(t, cfg.EnableCompileTimeOptimization)
}

func TestLoadRejectsUnknownTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target: fortran\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
}
