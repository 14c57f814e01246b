package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shakfu/mgen-sub001/internal/config"
)

func TestDescriptorPerTarget(t *testing.T) {
	tests := []struct {
		target   config.Target
		wantPath string
		contains string
	}{
		{config.TargetC, "Makefile", "prog.c"},
		{config.TargetCPP, "Makefile", "prog.cpp"},
		{config.TargetRust, "Cargo.toml", "prog.rs"},
		{config.TargetGo, "go.mod", "module prog"},
		{config.TargetHaskell, "prog.cabal", "prog.hs"},
		{config.TargetOCaml, "dune", "(name prog)"},
		{config.TargetLLVM, "Makefile", "prog.ll"},
	}
	for _, tt := range tests {
		t.Run(string(tt.target), func(t *testing.T) {
			path, contents, ok := Descriptor(tt.target, "prog", nil)
			require.True(t, ok)
			assert.Equal(t, tt.wantPath, path)
			assert.Contains(t, string(contents), tt.contains)
		})
	}
}

func TestDescriptorUnknownTarget(t *testing.T) {
	_, _, ok := Descriptor(config.Target("cobol"), "prog", nil)
	assert.False(t, ok)
}

func TestMakefileCIncludesRuntimeSources(t *testing.T) {
	_, contents, ok := Descriptor(config.TargetC, "prog", []string{
		"prog.c", "runtime/mgen_vec.c", "runtime/mgen_vec.h", "runtime/mgen_map.c",
	})
	require.True(t, ok)
	s := string(contents)
	assert.Contains(t, s, "runtime/mgen_vec.c")
	assert.Contains(t, s, "runtime/mgen_map.c")
	assert.NotContains(t, s, "runtime/mgen_vec.h")
}
