package il

// Transition is one step of environment interaction. Obs and NextObs
// are copies; a recorded Transition never aliases live environment
// state.
type Transition struct {
	Obs     []float64 `json:"obs"`
	Action  int       `json:"action"`
	NextObs []float64 `json:"next_obs"`
	Reward  float64   `json:"reward"`
	Done    bool      `json:"done"`
}

// Trajectory is the ordered record of one episode. Immutable once
// recorded: evaluation and density fitting only ever read it.
type Trajectory struct {
	Steps []Transition `json:"steps"`
}

// Len returns the number of steps in the episode.
func (t Trajectory) Len() int {
	return len(t.Steps)
}

// Return returns the undiscounted sum of rewards over the episode.
func (t Trajectory) Return() float64 {
	total := 0.0
	for _, step := range t.Steps {
		total += step.Reward
	}
	return total
}

// FlattenTransitions concatenates the steps of all trajectories into a
// single slice, preserving trajectory order. Density models fit on the
// flattened view.
func FlattenTransitions(trajs []Trajectory) []Transition {
	n := 0
	for _, traj := range trajs {
		n += len(traj.Steps)
	}
	out := make([]Transition, 0, n)
	for _, traj := range trajs {
		out = append(out, traj.Steps...)
	}
	return out
}

// TotalSteps returns the summed length of all trajectories.
func TotalSteps(trajs []Trajectory) int {
	n := 0
	for _, traj := range trajs {
		n += len(traj.Steps)
	}
	return n
}
