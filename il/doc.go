// Package il provides the core engine for density-based imitation
// learning experiments.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - trajectory.go: Transition and Trajectory, the units every other part consumes
//   - density.go: the kernel density reward model and DensityTrainer
//   - experiment.go: the train/evaluate driver loop
//
// # Architecture
//
// The il package defines interfaces and the driver; implementations live
// in sub-packages:
//   - il/envs/: concrete environments (cartpole, gridworld) and scripted experts
//   - il/agent/: the reference policy optimizer (linear softmax + REINFORCE)
//   - il/storage/: demonstration and run-record persistence (memory, sqlite, json)
//
// Sub-packages register their environments via init() functions that call
// RegisterEnv, so importing il/envs is enough to populate the registry.
//
// # Key Interfaces
//
// The extension points are small interfaces:
//   - Environment: episode reset and stepping
//   - Actor: action selection given an observation
//   - Agent: an Actor that can also learn from interaction
//   - Trainer: the train/evaluate contract the Experiment driver exercises
//   - RunRecorder: persistence hook for per-epoch evaluation history
package il
