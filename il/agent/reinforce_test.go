package agent

import (
	"context"
	"math/rand"
	"reflect"
	"testing"

	"github.com/density-bench/density-bench/il"
)

// fixedEnv pays 1 per step and ends after episodeLen steps.
type fixedEnv struct {
	episodeLen int
	t          int
	rng        *rand.Rand
}

func fixedEnvFactory(episodeLen int) il.EnvFactory {
	return func(rng *rand.Rand) il.Environment {
		return &fixedEnv{episodeLen: episodeLen, rng: rng}
	}
}

func (e *fixedEnv) Reset() []float64 {
	e.t = 0
	return []float64{e.rng.Float64(), 0}
}

func (e *fixedEnv) Step(action int) ([]float64, float64, bool) {
	e.t++
	return []float64{float64(action), float64(e.t)}, 1.0, e.t >= e.episodeLen
}

func (e *fixedEnv) ObsDim() int          { return 2 }
func (e *fixedEnv) NumActions() int      { return 2 }
func (e *fixedEnv) MaxEpisodeSteps() int { return e.episodeLen }

func testVecEnv(t *testing.T, episodeLen int) *il.VecEnv {
	t.Helper()
	venv, err := il.NewVecEnv(fixedEnvFactory(episodeLen), 2, il.NewPartitionedRNG(il.NewRunKey(11)))
	if err != nil {
		t.Fatalf("NewVecEnv: %v", err)
	}
	return venv
}

func TestReinforce_LearnConsumesExactBudget(t *testing.T) {
	// GIVEN a learner and a 7-step budget over 3-step episodes
	policy := NewPolicy(2, 2, rand.New(rand.NewSource(1)))
	learner := NewReinforce(policy, 0.01, 0.99)
	venv := testVecEnv(t, 3)

	// WHEN learning runs twice
	if err := learner.Learn(context.Background(), venv, 7); err != nil {
		t.Fatalf("Learn: %v", err)
	}
	if err := learner.Learn(context.Background(), venv, 5); err != nil {
		t.Fatalf("Learn: %v", err)
	}

	// THEN the step counter advances by exactly the requested budgets
	if learner.Steps() != 12 {
		t.Errorf("Steps() = %d, want 12", learner.Steps())
	}
}

func TestReinforce_LearnUpdatesWeights(t *testing.T) {
	policy := NewPolicy(2, 2, rand.New(rand.NewSource(1)))
	before := make([][]float64, len(policy.W))
	for i := range policy.W {
		before[i] = append([]float64(nil), policy.W[i]...)
	}

	learner := NewReinforce(policy, 0.05, 0.99)
	if err := learner.Learn(context.Background(), testVecEnv(t, 4), 40); err != nil {
		t.Fatalf("Learn: %v", err)
	}

	if reflect.DeepEqual(before, policy.W) {
		t.Error("weights unchanged after 40 training steps")
	}
}

func TestReinforce_LearnRejectsNonPositiveBudget(t *testing.T) {
	learner := NewReinforce(NewPolicy(2, 2, rand.New(rand.NewSource(1))), 0.01, 0.99)
	venv := testVecEnv(t, 3)

	if err := learner.Learn(context.Background(), venv, 0); err == nil {
		t.Error("zero budget accepted")
	}
	if err := learner.Learn(context.Background(), venv, -3); err == nil {
		t.Error("negative budget accepted")
	}
}

func TestReinforce_LearnHonorsCancellation(t *testing.T) {
	learner := NewReinforce(NewPolicy(2, 2, rand.New(rand.NewSource(1))), 0.01, 0.99)
	venv := testVecEnv(t, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := learner.Learn(ctx, venv, 100); err == nil {
		t.Error("cancelled context not surfaced")
	}
	if learner.Steps() != 0 {
		t.Errorf("Steps() = %d after cancelled Learn, want 0", learner.Steps())
	}
}

func TestReinforce_ActDelegatesToPolicy(t *testing.T) {
	policy := NewPolicy(2, 2, rand.New(rand.NewSource(1)))
	learner := NewReinforce(policy, 0.01, 0.99)
	obs := []float64{0.3, -0.7}

	rngA := rand.New(rand.NewSource(5))
	rngB := rand.New(rand.NewSource(5))
	for i := 0; i < 10; i++ {
		if learner.Act(obs, rngA) != policy.Act(obs, rngB) {
			t.Fatalf("action %d differs between learner and policy", i)
		}
	}
}
