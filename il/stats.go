package il

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RolloutStats aggregates statistics over one batch of evaluation
// trajectories. Every field is recomputed fresh per call to Summarize;
// nothing is carried across evaluations.
type RolloutStats struct {
	NTraj int `json:"n_traj"` // number of trajectories in the batch

	ReturnMin  float64 `json:"return_min"`
	ReturnMean float64 `json:"return_mean"`
	ReturnStd  float64 `json:"return_std"`
	ReturnMax  float64 `json:"return_max"`

	LenMin  float64 `json:"len_min"`
	LenMean float64 `json:"len_mean"`
	LenStd  float64 `json:"len_std"`
	LenMax  float64 `json:"len_max"`
}

// Summarize computes aggregate statistics from a trajectory batch.
// Safe for an empty batch (returns zero-value fields).
func Summarize(trajs []Trajectory) RolloutStats {
	stats := RolloutStats{NTraj: len(trajs)}
	if len(trajs) == 0 {
		return stats
	}

	returns := make([]float64, len(trajs))
	lengths := make([]float64, len(trajs))
	for i, traj := range trajs {
		returns[i] = traj.Return()
		lengths[i] = float64(traj.Len())
	}

	stats.ReturnMin = floats.Min(returns)
	stats.ReturnMean = stat.Mean(returns, nil)
	stats.ReturnStd = stat.PopStdDev(returns, nil)
	stats.ReturnMax = floats.Max(returns)

	stats.LenMin = floats.Min(lengths)
	stats.LenMean = stat.Mean(lengths, nil)
	stats.LenStd = stat.PopStdDev(lengths, nil)
	stats.LenMax = floats.Max(lengths)

	return stats
}

// statOrder fixes the dump order of the metric mapping.
var statOrder = []string{
	"n_traj",
	"return_min", "return_mean", "return_std", "return_max",
	"len_min", "len_mean", "len_std", "len_max",
}

// Map returns the stats as a metric-name -> value mapping.
func (s RolloutStats) Map() map[string]float64 {
	return map[string]float64{
		"n_traj":      float64(s.NTraj),
		"return_min":  s.ReturnMin,
		"return_mean": s.ReturnMean,
		"return_std":  s.ReturnStd,
		"return_max":  s.ReturnMax,
		"len_min":     s.LenMin,
		"len_mean":    s.LenMean,
		"len_std":     s.LenStd,
		"len_max":     s.LenMax,
	}
}

// Print displays the stats as a labelled plain-text block.
func (s RolloutStats) Print(w io.Writer, label string) {
	fmt.Fprintf(w, "=== Rollout Stats [%s] ===\n", label)
	values := s.Map()
	for _, key := range statOrder {
		if key == "n_traj" {
			fmt.Fprintf(w, "%-12s: %d\n", key, s.NTraj)
			continue
		}
		fmt.Fprintf(w, "%-12s: %.4f\n", key, values[key])
	}
}
