package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shakfu/mgen-sub001/internal/config"

	_ "github.com/shakfu/mgen-sub001/internal/convert/c"
	_ "github.com/shakfu/mgen-sub001/internal/convert/cpp"
	_ "github.com/shakfu/mgen-sub001/internal/convert/golang"
	_ "github.com/shakfu/mgen-sub001/internal/convert/haskell"
	_ "github.com/shakfu/mgen-sub001/internal/convert/llvmir"
	_ "github.com/shakfu/mgen-sub001/internal/convert/ocaml"
	_ "github.com/shakfu/mgen-sub001/internal/convert/rust"
)

// rangeIndexedSource is spec.md §8 Scenario A.
const rangeIndexedSource = `def sum_first_n(n: int) -> int:
    total: int = 0
    for i in range(n):
        total = total + i
    return total
`

// appendBuildSource is spec.md §8 Scenario B.
const appendBuildSource = `def squares(n: int) -> list[int]:
    result: list[int] = []
    for i in range(n):
        result.append(i * i)
    return result
`

func TestTranslateAllTargets(t *testing.T) {
	for _, target := range []config.Target{
		config.TargetC, config.TargetCPP, config.TargetRust, config.TargetGo,
		config.TargetHaskell, config.TargetOCaml, config.TargetLLVM,
	} {
		t.Run(string(target), func(t *testing.T) {
			cfg := config.Default()
			cfg.Target = target
			res, err := Translate([]byte(rangeIndexedSource), "sum.src", cfg)
			require.NoError(t, err)
			assert.True(t, res.Success, "diagnostics: %+v", res.Diagnostics)
			assert.NotEmpty(t, res.OutputFiles)
			assert.Contains(t, res.PhaseResults, "validation")
			assert.Contains(t, res.PhaseResults, "analysis")
			assert.Contains(t, res.PhaseResults, "mapping")
			assert.Contains(t, res.PhaseResults, "generation")
			assert.Contains(t, res.PhaseResults, "build")
		})
	}
}

func TestTranslateRenamesMainOutputToSourceStem(t *testing.T) {
	cfg := config.Default()
	cfg.Target = config.TargetC
	res, err := Translate([]byte(rangeIndexedSource), "sum_first_n.src", cfg)
	require.NoError(t, err)
	require.True(t, res.Success)
	_, ok := res.OutputFiles["sum_first_n.c"]
	assert.True(t, ok, "expected sum_first_n.c in %v", res.OutputFiles)
}

func TestTranslateAppendBuild(t *testing.T) {
	cfg := config.Default()
	cfg.Target = config.TargetGo
	res, err := Translate([]byte(appendBuildSource), "squares.src", cfg)
	require.NoError(t, err)
	assert.True(t, res.Success, "diagnostics: %+v", res.Diagnostics)
}

func TestTranslateEmitsBuildDescriptor(t *testing.T) {
	cfg := config.Default()
	cfg.Target = config.TargetC
	cfg.EmitBuildDescriptor = true
	res, err := Translate([]byte(rangeIndexedSource), "sum.src", cfg)
	require.NoError(t, err)
	require.True(t, res.Success)
	_, ok := res.OutputFiles["Makefile"]
	assert.True(t, ok)
}

func TestTranslateUnknownTargetErrors(t *testing.T) {
	cfg := config.Config{Target: "cobol", Optimization: config.OptNone}
	_, err := Translate([]byte(rangeIndexedSource), "sum.src", cfg)
	require.Error(t, err)
}

func TestTranslateParseFailureHaltsBeforeGeneration(t *testing.T) {
	cfg := config.Default()
	cfg.Target = config.TargetC
	res, err := Translate([]byte("def broken(:\n"), "broken.src", cfg)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Diagnostics)
	assert.Empty(t, res.OutputFiles)
	_, ranAnalysis := res.PhaseResults["analysis"]
	assert.False(t, ranAnalysis, "analysis phase should not run after a validation failure")
}
