package agent

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/density-bench/density-bench/il"
)

// Reinforce trains a Policy with the REINFORCE policy gradient:
// for each step, ascend grad log pi(a|s) weighted by the
// discounted return-to-go minus a per-episode mean baseline.
type Reinforce struct {
	policy       *Policy
	learningRate float64
	discount     float64

	steps int
}

// NewReinforce wraps policy with a REINFORCE learner.
func NewReinforce(policy *Policy, learningRate, discount float64) *Reinforce {
	return &Reinforce{
		policy:       policy,
		learningRate: learningRate,
		discount:     discount,
	}
}

// Act delegates to the wrapped policy.
func (r *Reinforce) Act(obs []float64, rng *rand.Rand) int {
	return r.policy.Act(obs, rng)
}

// Policy returns the wrapped policy.
func (r *Reinforce) Policy() *Policy {
	return r.policy
}

// Steps returns the total environment steps consumed by Learn calls.
func (r *Reinforce) Steps() int {
	return r.steps
}

// Learn simulates exactly steps environment steps on venv, applying a
// policy-gradient update after every episode. The final episode is
// truncated so the step budget is consumed exactly; its partial return
// still contributes a gradient.
func (r *Reinforce) Learn(ctx context.Context, venv *il.VecEnv, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("reinforce: step budget must be > 0, got %d", steps)
	}
	remaining := steps
	episodes := 0
	for slot := 0; remaining > 0; slot = (slot + 1) % venv.NumSlots() {
		if err := ctx.Err(); err != nil {
			return err
		}
		traj := venv.RunEpisode(slot, r.policy, remaining)
		r.update(traj)
		remaining -= traj.Len()
		episodes++
	}
	r.steps += steps
	logrus.Debugf("reinforce: consumed %d steps over %d episodes", steps, episodes)
	return nil
}

func (r *Reinforce) update(traj il.Trajectory) {
	n := traj.Len()
	if n == 0 {
		return
	}

	// Discounted return-to-go per step.
	returns := make([]float64, n)
	acc := 0.0
	for t := n - 1; t >= 0; t-- {
		acc = traj.Steps[t].Reward + r.discount*acc
		returns[t] = acc
	}
	baseline := 0.0
	for _, g := range returns {
		baseline += g
	}
	baseline /= float64(n)

	for t, step := range traj.Steps {
		advantage := returns[t] - baseline
		probs := r.policy.Probs(step.Obs)
		for i := range probs {
			// grad log pi(a|s) wrt logit i is (1{i==a} - p_i).
			indicator := 0.0
			if i == step.Action {
				indicator = 1.0
			}
			grad := (indicator - probs[i]) * advantage * r.learningRate
			r.policy.B[i] += grad
			for j, x := range step.Obs {
				r.policy.W[i][j] += grad * x
			}
		}
	}
}
