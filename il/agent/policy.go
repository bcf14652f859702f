// Package agent provides the reference policy optimizer: a linear
// softmax policy trained with REINFORCE. It implements il.Agent, so
// the density trainer can drive it without knowing the parametrization.
package agent

import (
	"math"
	"math/rand"
)

// Policy is a linear softmax policy over a discrete action space:
// logits = W*obs + B, actions sampled from softmax(logits).
type Policy struct {
	W [][]float64 // [numActions][obsDim]
	B []float64   // [numActions]

	obsDim     int
	numActions int
}

// NewPolicy creates a policy with small random weights drawn from rng.
func NewPolicy(obsDim, numActions int, rng *rand.Rand) *Policy {
	p := &Policy{
		W:          make([][]float64, numActions),
		B:          make([]float64, numActions),
		obsDim:     obsDim,
		numActions: numActions,
	}
	for i := range p.W {
		p.W[i] = make([]float64, obsDim)
		for j := range p.W[i] {
			p.W[i][j] = (rng.Float64()*2 - 1) * 0.01
		}
	}
	return p
}

func (p *Policy) logits(obs []float64) []float64 {
	logits := make([]float64, p.numActions)
	for i := 0; i < p.numActions; i++ {
		logits[i] = p.B[i]
		for j := 0; j < p.obsDim; j++ {
			logits[i] += p.W[i][j] * obs[j]
		}
	}
	return logits
}

// Probs returns the action distribution at obs.
func (p *Policy) Probs(obs []float64) []float64 {
	return softmax(p.logits(obs))
}

// Act samples an action from the policy's distribution at obs.
func (p *Policy) Act(obs []float64, rng *rand.Rand) int {
	return sampleCategorical(p.Probs(obs), rng)
}

func softmax(logits []float64) []float64 {
	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}
	probs := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		probs[i] = math.Exp(v - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

func sampleCategorical(probs []float64, rng *rand.Rand) int {
	threshold := rng.Float64()
	var cumulative float64
	for i, prob := range probs {
		cumulative += prob
		if threshold <= cumulative {
			return i
		}
	}
	return len(probs) - 1
}
