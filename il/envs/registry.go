package envs

import (
	"math/rand"
	"sort"

	"github.com/density-bench/density-bench/il"
)

// Environment names accepted by RunConfig.EnvName.
const (
	NameCartPole  = "cartpole"
	NameGridWorld = "gridworld"
)

// experts maps environment names to their scripted demonstration
// policies.
var experts = map[string]il.Actor{
	NameCartPole:  CartPoleExpert(),
	NameGridWorld: GridWorldExpert(),
}

func init() {
	il.RegisterEnv(NameCartPole, func(rng *rand.Rand) il.Environment { return NewCartPole(rng) })
	il.RegisterEnv(NameGridWorld, func(rng *rand.Rand) il.Environment { return NewGridWorld(rng) })
}

// LookupExpert returns the scripted expert for the named environment.
func LookupExpert(name string) (il.Actor, bool) {
	expert, ok := experts[name]
	return expert, ok
}

// ExpertNames returns the environments that ship a scripted expert,
// sorted.
func ExpertNames() []string {
	names := make([]string, 0, len(experts))
	for name := range experts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
