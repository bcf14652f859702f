package il

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Trainer is the collaborator contract the experiment driver
// exercises. DensityTrainer is the production implementation.
type Trainer interface {
	// TrainPolicy blocks until steps environment steps have been
	// simulated and the policy parameters updated.
	TrainPolicy(ctx context.Context, steps int) error
	// TestPolicy rolls out the current policy and summarizes the
	// batch. nTrajectories <= 0 selects the trainer's default count.
	TestPolicy(trueReward bool, nTrajectories int) (RolloutStats, error)
}

// EvalPoint is one evaluation result in a run's history. Epoch -1
// marks the pre-training baseline.
type EvalPoint struct {
	Epoch      int          `json:"epoch"`
	TrueReward bool         `json:"true_reward"`
	Stats      RolloutStats `json:"stats"`
}

// RunRecord is the persisted history of one experiment run.
type RunRecord struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Config         RunConfig   `json:"config"`
	StartedAtUTC   string      `json:"started_at_utc"`
	CompletedAtUTC string      `json:"completed_at_utc,omitempty"`
	Evals          []EvalPoint `json:"evals"`
}

// RunRecorder persists run records. il/storage stores implement it.
type RunRecorder interface {
	SaveRunRecord(ctx context.Context, rec RunRecord) error
}

// Experiment alternates training and evaluation against a Trainer,
// reporting statistics for every evaluation. Execution is strictly
// sequential: the evaluation at iteration i always reflects training
// completed through iteration i. The first collaborator error aborts
// the run and propagates; there are no retries.
type Experiment struct {
	ID      string
	Name    string
	Config  RunConfig
	Trainer Trainer

	// Recorder, if non-nil, receives the run record after the baseline
	// and after every iteration.
	Recorder RunRecorder

	// Out receives the plain-text stats dumps. Defaults to stdout.
	Out io.Writer

	record RunRecord
}

// NewExperiment creates an experiment with a fresh run ID.
func NewExperiment(name string, cfg RunConfig, trainer Trainer) *Experiment {
	return &Experiment{
		ID:      uuid.NewString(),
		Name:    name,
		Config:  cfg,
		Trainer: trainer,
	}
}

// Run executes the full train/evaluate schedule:
//
//	evaluate true reward, evaluate surrogate reward (baseline), then
//	for each of Config.Iterations iterations: train
//	Config.TrainStepsPerIter steps, evaluate true reward with
//	Config.EvalTrajectories trajectories, evaluate surrogate reward
//	with the trainer's default count.
//
// Every evaluation is reported to Out as it completes.
func (e *Experiment) Run(ctx context.Context) error {
	if e.Trainer == nil {
		return fmt.Errorf("experiment: nil trainer")
	}
	if err := e.Config.Validate(); err != nil {
		return fmt.Errorf("experiment: %w", err)
	}

	e.record = RunRecord{
		ID:           e.ID,
		Name:         e.Name,
		Config:       e.Config,
		StartedAtUTC: time.Now().UTC().Format(time.RFC3339Nano),
	}
	logrus.Infof("experiment %s (%s): env=%s iterations=%d steps/iter=%d eval_traj=%d",
		e.Name, e.ID, e.Config.EnvName, e.Config.Iterations,
		e.Config.TrainStepsPerIter, e.Config.EvalTrajectories)

	if err := e.evaluate(-1, true, e.Config.EvalTrajectories); err != nil {
		return err
	}
	if err := e.evaluate(-1, false, 0); err != nil {
		return err
	}
	if err := e.save(ctx); err != nil {
		return err
	}

	for epoch := 0; epoch < e.Config.Iterations; epoch++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.Trainer.TrainPolicy(ctx, e.Config.TrainStepsPerIter); err != nil {
			return fmt.Errorf("experiment: epoch %d: %w", epoch, err)
		}
		if err := e.evaluate(epoch, true, e.Config.EvalTrajectories); err != nil {
			return err
		}
		if err := e.evaluate(epoch, false, 0); err != nil {
			return err
		}
		if err := e.save(ctx); err != nil {
			return err
		}
	}

	e.record.CompletedAtUTC = time.Now().UTC().Format(time.RFC3339Nano)
	if err := e.save(ctx); err != nil {
		return err
	}
	logrus.Infof("experiment %s complete: %d evaluations", e.Name, len(e.record.Evals))
	return nil
}

// Record returns the accumulated run history.
func (e *Experiment) Record() RunRecord {
	return e.record
}

func (e *Experiment) evaluate(epoch int, trueReward bool, nTrajectories int) error {
	stats, err := e.Trainer.TestPolicy(trueReward, nTrajectories)
	if err != nil {
		return fmt.Errorf("experiment: evaluate epoch %d (true_reward=%t): %w", epoch, trueReward, err)
	}
	stats.Print(e.out(), evalLabel(epoch, trueReward))
	e.record.Evals = append(e.record.Evals, EvalPoint{
		Epoch:      epoch,
		TrueReward: trueReward,
		Stats:      stats,
	})
	return nil
}

func (e *Experiment) save(ctx context.Context) error {
	if e.Recorder == nil {
		return nil
	}
	if err := e.Recorder.SaveRunRecord(ctx, e.record); err != nil {
		return fmt.Errorf("experiment: save run record: %w", err)
	}
	return nil
}

func (e *Experiment) out() io.Writer {
	if e.Out != nil {
		return e.Out
	}
	return os.Stdout
}

func evalLabel(epoch int, trueReward bool) string {
	reward := "surrogate-reward"
	if trueReward {
		reward = "true-reward"
	}
	if epoch < 0 {
		return "baseline " + reward
	}
	return fmt.Sprintf("epoch %d %s", epoch, reward)
}
