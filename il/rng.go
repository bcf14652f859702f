package il

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === RunKey ===

// RunKey uniquely identifies a reproducible experiment run.
// Two runs with the same RunKey and identical configuration MUST
// produce bit-for-bit identical rollouts.
type RunKey int64

// NewRunKey creates a RunKey from a seed value.
func NewRunKey(seed int64) RunKey {
	return RunKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemPolicy is the RNG subsystem for policy weight
	// initialization and the learner's own sampling.
	SubsystemPolicy = "policy"

	// SubsystemDensity is the RNG subsystem reserved for density model
	// subsampling.
	SubsystemDensity = "density"

	// SubsystemExpert is the RNG subsystem for scripted expert
	// demonstration collection.
	SubsystemExpert = "expert"
)

// SubsystemEnv returns the subsystem name for environment slot N of a
// vectorized environment. Each slot gets an isolated stream so that
// changing the parallelism degree never perturbs slot 0's episodes.
func SubsystemEnv(slot int) string {
	return fmt.Sprintf("env_%d", slot)
}

// SubsystemActor returns the subsystem name for the action-sampling
// stream of environment slot N.
func SubsystemActor(slot int) string {
	return fmt.Sprintf("actor_%d", slot)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per
// subsystem.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName).
//
// Thread-safety: NOT thread-safe. ForSubsystem must be called from a
// single goroutine; the returned *rand.Rand instances may then be used
// from one goroutine each.
type PartitionedRNG struct {
	key        RunKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a RunKey.
func NewPartitionedRNG(key RunKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named
// subsystem. The same subsystem name always returns the same
// *rand.Rand instance (cached). Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derivedSeed := int64(p.key) ^ fnv1a64(name)
	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the RunKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() RunKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
