package cmd

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/density-bench/density-bench/il"
	"github.com/density-bench/density-bench/il/agent"
	_ "github.com/density-bench/density-bench/il/envs" // register environments
	"github.com/density-bench/density-bench/il/storage"
)

var (
	// CLI flags shared across subcommands
	logLevel string // Log verbosity level

	// CLI flags for the run subcommand
	profileName  string  // Named run profile (fast, full, or a profile from --profiles-file)
	profilesFile string  // Optional YAML file with extra run profiles
	runName      string  // Human-readable run name recorded with the run
	envName      string  // Environment override
	seed         int64   // Master seed override
	parallelism  int     // Vectorized environment slot count override
	iterations   int     // Train/evaluate iteration count override
	trainSteps   int     // Environment steps per training call override
	evalTraj     int     // Trajectories per true-reward evaluation override
	densityKind  string  // Density feature kind override
	bandwidth    float64 // Gaussian kernel bandwidth override
	standardize  bool    // Standardize density features override
	stationary   bool    // Single density model for all timesteps override
	learningRate float64 // Policy optimizer step size override
	discount     float64 // Return discount factor override
	demosPath    string  // Demonstration store path (mem:, *.db, *.json)
	demosName    string  // Demonstration set name within the store
	outPath      string  // Optional run-record store path
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "density-bench",
	Short: "Density-based imitation learning baseline runner",
}

// runCmd executes one train/evaluate experiment using parameters from
// the selected profile plus any CLI flag overrides
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the density-baseline train/evaluate loop",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := ResolveProfile(profilesFile, profileName)
		if err != nil {
			logrus.Fatalf("Could not resolve profile %q: %v", profileName, err)
		}
		applyOverrides(cmd, &cfg)
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("Invalid run configuration: %v", err)
		}

		ctx := context.Background()

		// Load expert demonstrations
		demoStore, err := storage.Open(demosPath)
		if err != nil {
			logrus.Fatalf("Could not open demonstration store: %v", err)
		}
		if err := demoStore.Init(ctx); err != nil {
			logrus.Fatalf("Could not initialize demonstration store: %v", err)
		}
		defer storage.CloseIfSupported(demoStore)
		demos, ok, err := demoStore.GetDemonstrations(ctx, demosName)
		if err != nil {
			logrus.Fatalf("Could not load demonstrations %q: %v", demosName, err)
		}
		if !ok {
			logrus.Fatalf("No demonstration set %q in %s (run `density-bench collect` first)", demosName, demosPath)
		}
		if demos.EnvName != "" && demos.EnvName != cfg.EnvName {
			logrus.Fatalf("Demonstrations %q were collected on env %q, run config wants %q",
				demosName, demos.EnvName, cfg.EnvName)
		}
		logrus.Infof("Loaded %d demonstration trajectories (%d transitions) for env %s",
			len(demos.Trajectories), il.TotalSteps(demos.Trajectories), cfg.EnvName)

		// Build the collaborators
		rng := il.NewPartitionedRNG(il.NewRunKey(cfg.Seed))
		factory, _ := il.LookupEnv(cfg.EnvName)
		venv, err := il.NewVecEnv(factory, cfg.Parallelism, rng)
		if err != nil {
			logrus.Fatalf("Could not build vectorized env: %v", err)
		}
		policy := agent.NewPolicy(venv.ObsDim(), venv.NumActions(), rng.ForSubsystem(il.SubsystemPolicy))
		learner := agent.NewReinforce(policy, cfg.LearningRate, cfg.Discount)
		trainer, err := il.NewDensityTrainer(venv, learner, demos.Trajectories, cfg)
		if err != nil {
			logrus.Fatalf("Could not build density trainer: %v", err)
		}

		exp := il.NewExperiment(runName, cfg, trainer)
		if outPath != "" {
			runStore, err := storage.Open(outPath)
			if err != nil {
				logrus.Fatalf("Could not open run-record store: %v", err)
			}
			if err := runStore.Init(ctx); err != nil {
				logrus.Fatalf("Could not initialize run-record store: %v", err)
			}
			defer storage.CloseIfSupported(runStore)
			exp.Recorder = runStore
		}

		if err := exp.Run(ctx); err != nil {
			logrus.Fatalf("Experiment failed: %v", err)
		}
	},
}

// applyOverrides copies explicitly-set CLI flags over the profile
// values.
func applyOverrides(cmd *cobra.Command, cfg *il.RunConfig) {
	flags := cmd.Flags()
	if flags.Changed("env") {
		cfg.EnvName = envName
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("parallelism") {
		cfg.Parallelism = parallelism
	}
	if flags.Changed("iterations") {
		cfg.Iterations = iterations
	}
	if flags.Changed("train-steps") {
		cfg.TrainStepsPerIter = trainSteps
	}
	if flags.Changed("eval-trajectories") {
		cfg.EvalTrajectories = evalTraj
	}
	if flags.Changed("density-kind") {
		cfg.DensityKind = il.DensityKind(densityKind)
	}
	if flags.Changed("bandwidth") {
		cfg.Bandwidth = bandwidth
	}
	if flags.Changed("standardize") {
		cfg.Standardize = standardize
	}
	if flags.Changed("stationary") {
		cfg.Stationary = stationary
	}
	if flags.Changed("learning-rate") {
		cfg.LearningRate = learningRate
	}
	if flags.Changed("discount") {
		cfg.Discount = discount
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVar(&profileName, "profile", ProfileFast, "Run profile (fast, full, or a name from --profiles-file)")
	runCmd.Flags().StringVar(&profilesFile, "profiles-file", "", "YAML file with additional run profiles")
	runCmd.Flags().StringVar(&runName, "name", "density-baseline", "Run name recorded with the run history")
	runCmd.Flags().StringVar(&envName, "env", "", "Environment name (overrides profile)")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Master seed for all subsystem RNGs (overrides profile)")
	runCmd.Flags().IntVar(&parallelism, "parallelism", 0, "Vectorized env slot count (overrides profile)")
	runCmd.Flags().IntVar(&iterations, "iterations", 0, "Train/evaluate iterations (overrides profile)")
	runCmd.Flags().IntVar(&trainSteps, "train-steps", 0, "Environment steps per training call (overrides profile)")
	runCmd.Flags().IntVar(&evalTraj, "eval-trajectories", 0, "Trajectories per true-reward evaluation (overrides profile)")
	runCmd.Flags().StringVar(&densityKind, "density-kind", "", "Density feature kind: state, state-action, transition (overrides profile)")
	runCmd.Flags().Float64Var(&bandwidth, "bandwidth", 0, "Gaussian kernel bandwidth (overrides profile)")
	runCmd.Flags().BoolVar(&standardize, "standardize", true, "Standardize density features (overrides profile)")
	runCmd.Flags().BoolVar(&stationary, "stationary", false, "Fit one density model for all timesteps (overrides profile)")
	runCmd.Flags().Float64Var(&learningRate, "learning-rate", 0, "Policy optimizer step size (overrides profile)")
	runCmd.Flags().Float64Var(&discount, "discount", 0, "Return discount factor (overrides profile)")
	runCmd.Flags().StringVar(&demosPath, "demos", "expert.json", "Demonstration store path (mem:, *.db, *.json)")
	runCmd.Flags().StringVar(&demosName, "demos-name", "expert", "Demonstration set name within the store")
	runCmd.Flags().StringVar(&outPath, "out", "", "Run-record store path (empty = no persistence)")

	rootCmd.AddCommand(runCmd)
}
