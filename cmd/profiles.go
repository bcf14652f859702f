package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/density-bench/density-bench/il"
	"github.com/density-bench/density-bench/il/envs"
)

// Builtin profile names.
const (
	// ProfileFast is a reduced-parameter profile for quick validation
	// rather than full-quality training.
	ProfileFast = "fast"
	// ProfileFull is the full-size benchmark profile.
	ProfileFull = "full"
)

// builtinProfiles holds the two shipped run shapes. Density and
// optimizer parameters are shared; only the run-size knobs differ.
var builtinProfiles = map[string]il.RunConfig{
	ProfileFast: {
		EnvName:           envs.NameCartPole,
		Parallelism:       1,
		Iterations:        1,
		TrainStepsPerIter: 100,
		EvalTrajectories:  1,
		Seed:              42,
		DensityKind:       il.DensityStateAction,
		Bandwidth:         0.5,
		Standardize:       true,
		Stationary:        false,
		LearningRate:      0.01,
		Discount:          0.99,
	},
	ProfileFull: {
		EnvName:           envs.NameCartPole,
		Parallelism:       8,
		Iterations:        100,
		TrainStepsPerIter: 100000,
		EvalTrajectories:  10,
		Seed:              42,
		DensityKind:       il.DensityStateAction,
		Bandwidth:         0.5,
		Standardize:       true,
		Stationary:        false,
		LearningRate:      0.01,
		Discount:          0.99,
	},
}

// ProfilesConfig is the YAML shape of a profiles file.
type ProfilesConfig struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

type Profile struct {
	Env               string  `yaml:"env"`
	Parallelism       int     `yaml:"parallelism"`
	Iterations        int     `yaml:"iterations"`
	TrainStepsPerIter int     `yaml:"train_steps_per_iter"`
	EvalTrajectories  int     `yaml:"eval_trajectories"`
	Seed              int64   `yaml:"seed"`
	DensityKind       string  `yaml:"density_kind"`
	Bandwidth         float64 `yaml:"bandwidth"`
	Standardize       *bool   `yaml:"standardize"`
	Stationary        *bool   `yaml:"stationary"`
	LearningRate      float64 `yaml:"learning_rate"`
	Discount          float64 `yaml:"discount"`
}

// ResolveProfile returns the run configuration for a named profile.
// With no file, only the builtin fast/full profiles are available; a
// profile file adds named profiles whose unset fields fall back to the
// fast profile's values.
func ResolveProfile(profilesFilePath, name string) (il.RunConfig, error) {
	if profilesFilePath == "" {
		cfg, ok := builtinProfiles[name]
		if !ok {
			return il.RunConfig{}, fmt.Errorf("unknown profile %q (builtin: %s, %s)", name, ProfileFast, ProfileFull)
		}
		return cfg, nil
	}

	// Read YAML file
	data, err := os.ReadFile(profilesFilePath)
	if err != nil {
		return il.RunConfig{}, err
	}

	// Parse YAML
	var cfg ProfilesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return il.RunConfig{}, err
	}

	profile, ok := cfg.Profiles[name]
	if !ok {
		if builtin, isBuiltin := builtinProfiles[name]; isBuiltin {
			return builtin, nil
		}
		return il.RunConfig{}, fmt.Errorf("profile %q not found in %s", name, profilesFilePath)
	}
	return profile.merge(builtinProfiles[ProfileFast]), nil
}

// merge overlays the profile's set fields onto base.
func (p Profile) merge(base il.RunConfig) il.RunConfig {
	out := base
	if p.Env != "" {
		out.EnvName = p.Env
	}
	if p.Parallelism > 0 {
		out.Parallelism = p.Parallelism
	}
	if p.Iterations > 0 {
		out.Iterations = p.Iterations
	}
	if p.TrainStepsPerIter > 0 {
		out.TrainStepsPerIter = p.TrainStepsPerIter
	}
	if p.EvalTrajectories > 0 {
		out.EvalTrajectories = p.EvalTrajectories
	}
	if p.Seed != 0 {
		out.Seed = p.Seed
	}
	if p.DensityKind != "" {
		out.DensityKind = il.DensityKind(p.DensityKind)
	}
	if p.Bandwidth > 0 {
		out.Bandwidth = p.Bandwidth
	}
	if p.Standardize != nil {
		out.Standardize = *p.Standardize
	}
	if p.Stationary != nil {
		out.Stationary = *p.Stationary
	}
	if p.LearningRate > 0 {
		out.LearningRate = p.LearningRate
	}
	if p.Discount > 0 {
		out.Discount = p.Discount
	}
	return out
}
