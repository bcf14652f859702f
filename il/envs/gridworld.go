package envs

import (
	"math/rand"

	"github.com/density-bench/density-bench/il"
)

const (
	gridSize    = 5
	gridHorizon = 50
)

// GridWorld is a small deterministic navigation task on a gridSize x
// gridSize board: start in the top-left corner, reach the bottom-right
// goal. Reward is -0.04 per step and 1.0 on reaching the goal, so
// shorter paths score higher. Useful as a fast tabular counterpart to
// cartpole in tests and the fast profile.
type GridWorld struct {
	row, col int
	steps    int
	rng      *rand.Rand
}

// Actions, clockwise from up.
const (
	gridUp = iota
	gridRight
	gridDown
	gridLeft
)

// NewGridWorld builds a gridworld environment. rng jitters the start
// column so episodes are not all identical.
func NewGridWorld(rng *rand.Rand) *GridWorld {
	return &GridWorld{rng: rng}
}

func (e *GridWorld) obs() []float64 {
	// Normalized coordinates keep the observation scale comparable to
	// the continuous environments.
	return []float64{
		float64(e.row) / float64(gridSize-1),
		float64(e.col) / float64(gridSize-1),
	}
}

// Reset starts a new episode in the top row.
func (e *GridWorld) Reset() []float64 {
	e.row = 0
	e.col = e.rng.Intn(2)
	e.steps = 0
	return e.obs()
}

// Step moves one cell in the chosen direction; moves off the board are
// no-ops.
func (e *GridWorld) Step(action int) ([]float64, float64, bool) {
	switch action {
	case gridUp:
		if e.row > 0 {
			e.row--
		}
	case gridRight:
		if e.col < gridSize-1 {
			e.col++
		}
	case gridDown:
		if e.row < gridSize-1 {
			e.row++
		}
	case gridLeft:
		if e.col > 0 {
			e.col--
		}
	}
	e.steps++

	atGoal := e.row == gridSize-1 && e.col == gridSize-1
	done := atGoal || e.steps >= gridHorizon
	reward := -0.04
	if atGoal {
		reward = 1.0
	}
	return e.obs(), reward, done
}

func (e *GridWorld) ObsDim() int          { return 2 }
func (e *GridWorld) NumActions() int      { return 4 }
func (e *GridWorld) MaxEpisodeSteps() int { return gridHorizon }

// gridWorldExpert walks down, then right. Optimal up to the start
// jitter.
type gridWorldExpert struct{}

func (gridWorldExpert) Act(obs []float64, _ *rand.Rand) int {
	if obs[0] < 1 {
		return gridDown
	}
	return gridRight
}

// GridWorldExpert returns the scripted demonstration policy for the
// gridworld environment.
func GridWorldExpert() il.Actor {
	return gridWorldExpert{}
}
