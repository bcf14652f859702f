package envs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/density-bench/density-bench/il"
)

func TestRegistry_EnvironmentsRegistered(t *testing.T) {
	for _, name := range []string{NameCartPole, NameGridWorld} {
		factory, ok := il.LookupEnv(name)
		assert.True(t, ok, "env %s not registered", name)
		assert.NotNil(t, factory)
	}
}

func TestRegistry_EveryEnvironmentHasAnExpert(t *testing.T) {
	for _, name := range []string{NameCartPole, NameGridWorld} {
		expert, ok := LookupExpert(name)
		assert.True(t, ok, "env %s has no expert", name)
		assert.NotNil(t, expert)
	}
	assert.Equal(t, []string{NameCartPole, NameGridWorld}, ExpertNames())
}

func TestRegistry_UnknownNames(t *testing.T) {
	_, ok := il.LookupEnv("no-such-env")
	assert.False(t, ok)
	_, ok = LookupExpert("no-such-env")
	assert.False(t, ok)
}
