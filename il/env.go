package il

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
)

// Environment is a single simulated episode task. Implementations own
// their reset randomness (the *rand.Rand handed to their factory) and
// are NOT safe for concurrent use; VecEnv gives each goroutine its own
// instance.
type Environment interface {
	// Reset starts a new episode and returns the initial observation.
	Reset() []float64
	// Step applies the action and returns the next observation, the
	// true reward, and whether the episode terminated.
	Step(action int) ([]float64, float64, bool)
	// ObsDim is the observation vector length.
	ObsDim() int
	// NumActions is the size of the discrete action space.
	NumActions() int
	// MaxEpisodeSteps is the horizon after which episodes truncate.
	MaxEpisodeSteps() int
}

// Actor selects actions. Policies and scripted experts implement it.
type Actor interface {
	Act(obs []float64, rng *rand.Rand) int
}

// EnvFactory constructs an Environment with the given reset RNG.
type EnvFactory func(rng *rand.Rand) Environment

var envFactories = map[string]EnvFactory{}

// RegisterEnv registers a named environment constructor. Sub-packages
// call this from init(); later registrations overwrite earlier ones.
func RegisterEnv(name string, factory EnvFactory) {
	envFactories[name] = factory
}

// LookupEnv returns the factory registered under name.
func LookupEnv(name string) (EnvFactory, bool) {
	factory, ok := envFactories[name]
	return factory, ok
}

// EnvNames returns the registered environment names, sorted.
func EnvNames() []string {
	names := make([]string, 0, len(envFactories))
	for name := range envFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RewardFunc overrides the environment reward for one transition at
// step index t within its episode. Used to substitute the density
// model's surrogate reward for the true reward.
type RewardFunc func(tr Transition, t int) float64

// VecEnv steps n independent environment copies. Slot i draws episode
// randomness from subsystems env_i/actor_i of the run's partitioned
// RNG, so rollouts are deterministic for a fixed seed regardless of
// goroutine scheduling.
type VecEnv struct {
	envs   []Environment
	rngs   []*rand.Rand // per-slot action-sampling stream
	reward RewardFunc   // nil = true environment reward
}

// NewVecEnv builds a vectorized environment with n slots.
func NewVecEnv(factory EnvFactory, n int, rng *PartitionedRNG) (*VecEnv, error) {
	if factory == nil {
		return nil, fmt.Errorf("vecenv: nil environment factory")
	}
	if n <= 0 {
		return nil, fmt.Errorf("vecenv: parallelism must be > 0, got %d", n)
	}
	v := &VecEnv{
		envs: make([]Environment, n),
		rngs: make([]*rand.Rand, n),
	}
	for i := 0; i < n; i++ {
		v.envs[i] = factory(rng.ForSubsystem(SubsystemEnv(i)))
		v.rngs[i] = rng.ForSubsystem(SubsystemActor(i))
	}
	return v, nil
}

// NumSlots returns the parallelism degree.
func (v *VecEnv) NumSlots() int {
	return len(v.envs)
}

// ObsDim returns the observation dimension of the underlying task.
func (v *VecEnv) ObsDim() int {
	return v.envs[0].ObsDim()
}

// NumActions returns the action-space size of the underlying task.
func (v *VecEnv) NumActions() int {
	return v.envs[0].NumActions()
}

// WithReward returns a view of the same slots whose recorded episode
// rewards are produced by fn instead of the environment. The view
// shares environment and RNG state with the receiver.
func (v *VecEnv) WithReward(fn RewardFunc) *VecEnv {
	return &VecEnv{envs: v.envs, rngs: v.rngs, reward: fn}
}

// RunEpisode runs one full episode on the given slot and records it.
// limit truncates the episode after that many steps; limit <= 0 means
// the environment's own horizon only.
func (v *VecEnv) RunEpisode(slot int, actor Actor, limit int) Trajectory {
	env := v.envs[slot]
	rng := v.rngs[slot]

	obs := env.Reset()
	steps := make([]Transition, 0, env.MaxEpisodeSteps())
	for t := 0; ; t++ {
		action := actor.Act(obs, rng)
		nextObs, reward, done := env.Step(action)

		tr := Transition{
			Obs:     append([]float64(nil), obs...),
			Action:  action,
			NextObs: append([]float64(nil), nextObs...),
			Reward:  reward,
			Done:    done,
		}
		if v.reward != nil {
			tr.Reward = v.reward(tr, t)
		}
		steps = append(steps, tr)

		obs = nextObs
		if done || (limit > 0 && t+1 >= limit) {
			break
		}
	}
	return Trajectory{Steps: steps}
}

// Rollout collects exactly n complete trajectories of the actor's
// behaviour. Trajectories are distributed round-robin over slots
// (slot i produces trajectories i, i+P, i+2P, ...) and collected
// concurrently, so the result is independent of scheduling order.
func (v *VecEnv) Rollout(actor Actor, n int) []Trajectory {
	if n <= 0 {
		return nil
	}
	out := make([]Trajectory, n)

	var wg sync.WaitGroup
	for slot := 0; slot < len(v.envs); slot++ {
		if slot >= n {
			break
		}
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			for idx := slot; idx < n; idx += len(v.envs) {
				out[idx] = v.RunEpisode(slot, actor, 0)
			}
		}(slot)
	}
	wg.Wait()
	return out
}
