package il

import "fmt"

// RunConfig groups the run-size and model parameters of one
// experiment. A config is chosen once at startup and never mutated;
// named profiles (fast, full) resolve to a fully-populated RunConfig
// rather than a boolean switch.
type RunConfig struct {
	EnvName           string // registered environment name (e.g. "cartpole")
	Parallelism       int    // vectorized environment slot count (must be > 0)
	Iterations        int    // train/evaluate iterations (must be > 0)
	TrainStepsPerIter int    // environment steps simulated per training call (must be > 0)
	EvalTrajectories  int    // trajectories per true-reward evaluation (must be > 0)
	Seed              int64  // master seed for all subsystem RNGs

	DensityKind DensityKind // feature kind the density model is fit on
	Bandwidth   float64     // gaussian kernel bandwidth (must be > 0)
	Standardize bool        // scale density features to zero mean, unit variance
	Stationary  bool        // one density model for all timesteps vs one per timestep

	LearningRate float64 // policy optimizer step size (must be > 0)
	Discount     float64 // return discount factor (must be in (0, 1])
}

// Validate rejects configurations outside supported ranges. The env
// name must be registered before validation (import il/envs).
func (c RunConfig) Validate() error {
	if c.EnvName == "" {
		return fmt.Errorf("config: env name is required")
	}
	if _, ok := LookupEnv(c.EnvName); !ok {
		return fmt.Errorf("config: unknown env %q (known: %v)", c.EnvName, EnvNames())
	}
	if c.Parallelism <= 0 {
		return fmt.Errorf("config: parallelism must be > 0, got %d", c.Parallelism)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("config: iterations must be > 0, got %d", c.Iterations)
	}
	if c.TrainStepsPerIter <= 0 {
		return fmt.Errorf("config: train steps per iteration must be > 0, got %d", c.TrainStepsPerIter)
	}
	if c.EvalTrajectories <= 0 {
		return fmt.Errorf("config: eval trajectories must be > 0, got %d", c.EvalTrajectories)
	}
	if !c.DensityKind.valid() {
		return fmt.Errorf("config: unknown density kind %q", c.DensityKind)
	}
	if c.Bandwidth <= 0 {
		return fmt.Errorf("config: bandwidth must be > 0, got %g", c.Bandwidth)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("config: learning rate must be > 0, got %g", c.LearningRate)
	}
	if c.Discount <= 0 || c.Discount > 1 {
		return fmt.Errorf("config: discount must be in (0, 1], got %g", c.Discount)
	}
	return nil
}
