// Package envs provides the concrete environments and scripted experts
// used by the experiment driver. Importing this package registers every
// environment with the il registry.
package envs

import (
	"math"
	"math/rand"

	"github.com/density-bench/density-bench/il"
)

const (
	gravity        = 9.81
	massCart       = 1.0
	massPole       = 0.1
	poleLength     = 0.5
	totalMass      = massCart + massPole
	poleMassLength = massPole * poleLength
	forceMax       = 10.0
	tau            = 0.02

	xThreshold        = 2.4
	thetaThreshold    = 12.0 * math.Pi / 180.0
	cartPoleHorizon   = 500
	cartPoleObsDim    = 4
	cartPoleNumAction = 2
)

// CartPole is the classic cart-pole balancing task: push a cart left
// or right to keep the pole upright. Reward is 1 per surviving step.
type CartPole struct {
	x, xDot, theta, thetaDot float64
	steps                    int
	rng                      *rand.Rand
}

// NewCartPole builds a cart-pole environment drawing reset noise from
// rng.
func NewCartPole(rng *rand.Rand) *CartPole {
	return &CartPole{rng: rng}
}

func (e *CartPole) obs() []float64 {
	return []float64{e.x, e.xDot, e.theta, e.thetaDot}
}

// Reset starts a new episode with uniform noise in [-0.05, 0.05) on
// every state component.
func (e *CartPole) Reset() []float64 {
	e.x = e.rng.Float64()*0.1 - 0.05
	e.xDot = e.rng.Float64()*0.1 - 0.05
	e.theta = e.rng.Float64()*0.1 - 0.05
	e.thetaDot = e.rng.Float64()*0.1 - 0.05
	e.steps = 0
	return e.obs()
}

// Step applies action 0 (push left) or 1 (push right) with a single
// Euler integration step of the cart-pole dynamics.
func (e *CartPole) Step(action int) ([]float64, float64, bool) {
	force := forceMax
	if action == 0 {
		force = -forceMax
	}

	cosTheta := math.Cos(e.theta)
	sinTheta := math.Sin(e.theta)

	temp := (force + poleMassLength*e.thetaDot*e.thetaDot*sinTheta) / totalMass
	thetaAcc := (gravity*sinTheta - cosTheta*temp) /
		(poleLength * (4.0/3.0 - massPole*cosTheta*cosTheta/totalMass))
	xAcc := temp - poleMassLength*thetaAcc*cosTheta/totalMass

	e.x += tau * e.xDot
	e.xDot += tau * xAcc
	e.theta += tau * e.thetaDot
	e.thetaDot += tau * thetaAcc
	e.steps++

	fell := e.x < -xThreshold || e.x > xThreshold ||
		e.theta < -thetaThreshold || e.theta > thetaThreshold
	done := fell || e.steps >= cartPoleHorizon
	reward := 1.0
	if fell {
		reward = 0.0
	}
	return e.obs(), reward, done
}

func (e *CartPole) ObsDim() int          { return cartPoleObsDim }
func (e *CartPole) NumActions() int      { return cartPoleNumAction }
func (e *CartPole) MaxEpisodeSteps() int { return cartPoleHorizon }

// cartPoleExpert balances by pushing in the direction the pole is
// falling. Not optimal, but keeps the pole up for long episodes, which
// is all the demonstration collector needs.
type cartPoleExpert struct{}

func (cartPoleExpert) Act(obs []float64, _ *rand.Rand) int {
	if obs[2]+obs[3] > 0 {
		return 1
	}
	return 0
}

// CartPoleExpert returns the scripted demonstration policy for the
// cartpole environment.
func CartPoleExpert() il.Actor {
	return cartPoleExpert{}
}
