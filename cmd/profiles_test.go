package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/density-bench/density-bench/il"
	"github.com/density-bench/density-bench/il/envs"
)

func writeProfilesFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestResolveProfile_BuiltinFast(t *testing.T) {
	cfg, err := ResolveProfile("", ProfileFast)
	require.NoError(t, err)

	assert.Equal(t, envs.NameCartPole, cfg.EnvName)
	assert.Equal(t, 1, cfg.Parallelism)
	assert.Equal(t, 1, cfg.Iterations)
	assert.Equal(t, 100, cfg.TrainStepsPerIter)
	assert.Equal(t, 1, cfg.EvalTrajectories)
	assert.NoError(t, cfg.Validate())
}

func TestResolveProfile_BuiltinFull(t *testing.T) {
	cfg, err := ResolveProfile("", ProfileFull)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Parallelism)
	assert.Equal(t, 100, cfg.Iterations)
	assert.Equal(t, 100000, cfg.TrainStepsPerIter)
	assert.Equal(t, 10, cfg.EvalTrajectories)
	assert.NoError(t, cfg.Validate())
}

func TestResolveProfile_UnknownBuiltin(t *testing.T) {
	_, err := ResolveProfile("", "turbo")
	assert.Error(t, err)
}

func TestResolveProfile_FileProfileOverlaysFast(t *testing.T) {
	// GIVEN a file profile that only changes the run-size knobs
	path := writeProfilesFile(t, `
profiles:
  nightly:
    env: gridworld
    iterations: 25
    train_steps_per_iter: 5000
    eval_trajectories: 5
`)

	// WHEN it is resolved
	cfg, err := ResolveProfile(path, "nightly")
	require.NoError(t, err)

	// THEN set fields win and the rest come from the fast profile
	assert.Equal(t, envs.NameGridWorld, cfg.EnvName)
	assert.Equal(t, 25, cfg.Iterations)
	assert.Equal(t, 5000, cfg.TrainStepsPerIter)
	assert.Equal(t, 5, cfg.EvalTrajectories)
	assert.Equal(t, il.DensityStateAction, cfg.DensityKind)
	assert.Equal(t, 0.5, cfg.Bandwidth)
	assert.True(t, cfg.Standardize)
}

func TestResolveProfile_FileProfileBooleanOverrides(t *testing.T) {
	path := writeProfilesFile(t, `
profiles:
  raw:
    standardize: false
    stationary: true
`)

	cfg, err := ResolveProfile(path, "raw")
	require.NoError(t, err)

	assert.False(t, cfg.Standardize)
	assert.True(t, cfg.Stationary)
}

func TestResolveProfile_BuiltinNameFallsThroughFile(t *testing.T) {
	// A profiles file that never mentions "full" must not shadow it.
	path := writeProfilesFile(t, `
profiles:
  nightly:
    iterations: 25
`)

	cfg, err := ResolveProfile(path, ProfileFull)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Iterations)
}

func TestResolveProfile_UnknownNameInFile(t *testing.T) {
	path := writeProfilesFile(t, `
profiles:
  nightly:
    iterations: 25
`)

	_, err := ResolveProfile(path, "weekly")
	assert.Error(t, err)
}

func TestResolveProfile_MissingFile(t *testing.T) {
	_, err := ResolveProfile(filepath.Join(t.TempDir(), "absent.yaml"), ProfileFast)
	assert.Error(t, err)
}

func TestResolveProfile_MalformedFile(t *testing.T) {
	path := writeProfilesFile(t, "profiles: [not, a, map]")
	_, err := ResolveProfile(path, ProfileFast)
	assert.Error(t, err)
}
