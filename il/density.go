package il

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DensityKind selects which part of a transition the density model is
// fit on.
type DensityKind string

const (
	// DensityState fits on the observation alone.
	DensityState DensityKind = "state"
	// DensityStateAction fits on the observation concatenated with the
	// action. This is the usual choice for imitation.
	DensityStateAction DensityKind = "state-action"
	// DensityTransition fits on the observation concatenated with the
	// next observation.
	DensityTransition DensityKind = "transition"
)

func (k DensityKind) valid() bool {
	switch k {
	case DensityState, DensityStateAction, DensityTransition:
		return true
	}
	return false
}

// features extracts the density feature vector from a transition.
func (k DensityKind) features(tr Transition) []float64 {
	switch k {
	case DensityState:
		return append([]float64(nil), tr.Obs...)
	case DensityStateAction:
		out := make([]float64, 0, len(tr.Obs)+1)
		out = append(out, tr.Obs...)
		return append(out, float64(tr.Action))
	case DensityTransition:
		out := make([]float64, 0, len(tr.Obs)+len(tr.NextObs))
		out = append(out, tr.Obs...)
		return append(out, tr.NextObs...)
	}
	return nil
}

// === KernelDensity ===

// KernelDensity is a gaussian kernel density estimator. Scoring is
// done in standardized feature space when standardize is set, so
// scores are comparable across feature scales but are not calibrated
// absolute densities.
type KernelDensity struct {
	bandwidth float64
	points    [][]float64 // training features, standardized if enabled
	mean      []float64
	scale     []float64
	norm      float64 // additive log-normalization constant
}

// FitKernelDensity fits a gaussian KDE on the given feature vectors.
func FitKernelDensity(points [][]float64, bandwidth float64, standardize bool) (*KernelDensity, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("kde: no training points")
	}
	if bandwidth <= 0 {
		return nil, fmt.Errorf("kde: bandwidth must be > 0, got %g", bandwidth)
	}
	dim := len(points[0])
	for _, p := range points {
		if len(p) != dim {
			return nil, fmt.Errorf("kde: inconsistent feature dimension %d vs %d", len(p), dim)
		}
	}

	k := &KernelDensity{
		bandwidth: bandwidth,
		mean:      make([]float64, dim),
		scale:     make([]float64, dim),
	}
	for j := range k.scale {
		k.scale[j] = 1
	}
	if standardize {
		column := make([]float64, len(points))
		for j := 0; j < dim; j++ {
			for i, p := range points {
				column[i] = p[j]
			}
			k.mean[j] = stat.Mean(column, nil)
			std := stat.PopStdDev(column, nil)
			if std > 0 {
				k.scale[j] = std
			}
		}
	}

	k.points = make([][]float64, len(points))
	for i, p := range points {
		k.points[i] = k.transform(p)
	}

	// log[ 1/n * (2*pi*h^2)^(-d/2) ]
	k.norm = -math.Log(float64(len(points))) -
		0.5*float64(dim)*math.Log(2*math.Pi*bandwidth*bandwidth)
	return k, nil
}

func (k *KernelDensity) transform(x []float64) []float64 {
	z := make([]float64, len(x))
	for j := range x {
		z[j] = (x[j] - k.mean[j]) / k.scale[j]
	}
	return z
}

// LogDensity returns the log of the estimated density at x.
func (k *KernelDensity) LogDensity(x []float64) float64 {
	z := k.transform(x)
	exponents := make([]float64, len(k.points))
	inv := 1 / (2 * k.bandwidth * k.bandwidth)
	for i, p := range k.points {
		d2 := 0.0
		for j := range z {
			diff := z[j] - p[j]
			d2 += diff * diff
		}
		exponents[i] = -d2 * inv
	}
	return floats.LogSumExp(exponents) + k.norm
}

// === DensityTrainer ===

// Agent is a policy optimizer: it acts in environments and can advance
// its own parameters by interacting for a step budget.
type Agent interface {
	Actor
	// Learn blocks until exactly steps environment steps have been
	// simulated on venv and the policy parameters updated.
	Learn(ctx context.Context, venv *VecEnv, steps int) error
}

// DefaultEvalTrajectories is the trajectory count used by TestPolicy
// when the caller does not specify one.
const DefaultEvalTrajectories = 10

// DensityTrainer fits a kernel density model over expert
// demonstrations and trains a policy optimizer against the resulting
// log-density surrogate reward.
type DensityTrainer struct {
	venv      *VecEnv
	surrogate *VecEnv // venv view whose rewards come from the density model
	agent     Agent

	kind       DensityKind
	stationary bool
	models     []*KernelDensity // stationary: exactly one; else one per timestep

	trainedSteps int
}

// NewDensityTrainer fits the density model on demos and wires the
// surrogate-reward view of venv. Only the density fields of cfg are
// consulted.
func NewDensityTrainer(venv *VecEnv, agent Agent, demos []Trajectory, cfg RunConfig) (*DensityTrainer, error) {
	if venv == nil {
		return nil, fmt.Errorf("density: nil vectorized environment")
	}
	if agent == nil {
		return nil, fmt.Errorf("density: nil agent")
	}
	if len(demos) == 0 {
		return nil, fmt.Errorf("density: no demonstration trajectories")
	}
	if !cfg.DensityKind.valid() {
		return nil, fmt.Errorf("density: unknown density kind %q", cfg.DensityKind)
	}

	d := &DensityTrainer{
		venv:       venv,
		agent:      agent,
		kind:       cfg.DensityKind,
		stationary: cfg.Stationary,
	}

	if cfg.Stationary {
		features := make([][]float64, 0, TotalSteps(demos))
		for _, traj := range demos {
			for _, tr := range traj.Steps {
				features = append(features, d.kind.features(tr))
			}
		}
		model, err := FitKernelDensity(features, cfg.Bandwidth, cfg.Standardize)
		if err != nil {
			return nil, fmt.Errorf("density: fit stationary model: %w", err)
		}
		d.models = []*KernelDensity{model}
	} else {
		horizon := 0
		for _, traj := range demos {
			if traj.Len() > horizon {
				horizon = traj.Len()
			}
		}
		d.models = make([]*KernelDensity, horizon)
		for t := 0; t < horizon; t++ {
			features := make([][]float64, 0, len(demos))
			for _, traj := range demos {
				if t < traj.Len() {
					features = append(features, d.kind.features(traj.Steps[t]))
				}
			}
			model, err := FitKernelDensity(features, cfg.Bandwidth, cfg.Standardize)
			if err != nil {
				return nil, fmt.Errorf("density: fit model for timestep %d: %w", t, err)
			}
			d.models[t] = model
		}
	}

	d.surrogate = venv.WithReward(d.SurrogateReward)
	logrus.Debugf("density: fit %d model(s) kind=%s on %d demos (%d transitions)",
		len(d.models), d.kind, len(demos), TotalSteps(demos))
	return d, nil
}

// SurrogateReward scores one transition at episode step t under the
// fitted density model. Steps past the demonstration horizon clamp to
// the last per-timestep model.
func (d *DensityTrainer) SurrogateReward(tr Transition, t int) float64 {
	idx := 0
	if !d.stationary {
		idx = t
		if idx >= len(d.models) {
			idx = len(d.models) - 1
		}
	}
	return d.models[idx].LogDensity(d.kind.features(tr))
}

// TrainPolicy advances the policy optimizer by exactly steps
// environment steps under the surrogate reward. Blocks until done.
func (d *DensityTrainer) TrainPolicy(ctx context.Context, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("density: train steps must be > 0, got %d", steps)
	}
	if err := d.agent.Learn(ctx, d.surrogate, steps); err != nil {
		return fmt.Errorf("density: train policy: %w", err)
	}
	d.trainedSteps += steps
	return nil
}

// TrainedSteps returns the total environment steps simulated by
// training calls so far.
func (d *DensityTrainer) TrainedSteps() int {
	return d.trainedSteps
}

// TestPolicy rolls out the current policy and summarizes the batch.
// With trueReward the environment's own reward is recorded; otherwise
// the surrogate reward is. nTrajectories <= 0 means
// DefaultEvalTrajectories.
func (d *DensityTrainer) TestPolicy(trueReward bool, nTrajectories int) (RolloutStats, error) {
	if nTrajectories <= 0 {
		nTrajectories = DefaultEvalTrajectories
	}
	venv := d.surrogate
	if trueReward {
		venv = d.venv
	}
	trajs := venv.Rollout(d.agent, nTrajectories)
	return Summarize(trajs), nil
}
