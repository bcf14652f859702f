package cmd

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/density-bench/density-bench/il"
	"github.com/density-bench/density-bench/il/envs"
	"github.com/density-bench/density-bench/il/storage"
)

var (
	// CLI flags for the collect subcommand
	collectEnv         string // Environment to collect demonstrations on
	collectN           int    // Number of demonstration trajectories
	collectSeed        int64  // Seed for the demonstration rollouts
	collectParallelism int    // Vectorized env slot count for collection
	collectOut         string // Demonstration store path
	collectName        string // Demonstration set name
)

// collectCmd rolls out the scripted expert and persists the resulting
// demonstration set
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect expert demonstrations into a store",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if collectN <= 0 {
			logrus.Fatalf("Trajectory count must be > 0, got %d", collectN)
		}
		factory, ok := il.LookupEnv(collectEnv)
		if !ok {
			logrus.Fatalf("Unknown env %q (known: %v)", collectEnv, il.EnvNames())
		}
		expert, ok := envs.LookupExpert(collectEnv)
		if !ok {
			logrus.Fatalf("No scripted expert for env %q (have: %v)", collectEnv, envs.ExpertNames())
		}

		rng := il.NewPartitionedRNG(il.NewRunKey(collectSeed))
		venv, err := il.NewVecEnv(factory, collectParallelism, rng)
		if err != nil {
			logrus.Fatalf("Could not build vectorized env: %v", err)
		}

		trajs := venv.Rollout(expert, collectN)
		stats := il.Summarize(trajs)
		stats.Print(os.Stdout, "expert demonstrations")

		ctx := context.Background()
		store, err := storage.Open(collectOut)
		if err != nil {
			logrus.Fatalf("Could not open store %s: %v", collectOut, err)
		}
		if err := store.Init(ctx); err != nil {
			logrus.Fatalf("Could not initialize store %s: %v", collectOut, err)
		}
		defer storage.CloseIfSupported(store)

		set := storage.DemoSet{
			Name:         collectName,
			EnvName:      collectEnv,
			Seed:         collectSeed,
			Trajectories: trajs,
		}
		if err := store.SaveDemonstrations(ctx, set); err != nil {
			logrus.Fatalf("Could not save demonstrations: %v", err)
		}
		logrus.Infof("Saved %d trajectories as %q in %s", len(trajs), collectName, collectOut)
	},
}

func init() {
	collectCmd.Flags().StringVar(&collectEnv, "env", envs.NameCartPole, "Environment to collect demonstrations on")
	collectCmd.Flags().IntVar(&collectN, "n", 50, "Number of demonstration trajectories")
	collectCmd.Flags().Int64Var(&collectSeed, "seed", 7, "Seed for demonstration rollouts")
	collectCmd.Flags().IntVar(&collectParallelism, "parallelism", 1, "Vectorized env slot count")
	collectCmd.Flags().StringVar(&collectOut, "out", "expert.json", "Demonstration store path (mem:, *.db, *.json)")
	collectCmd.Flags().StringVar(&collectName, "name", "expert", "Demonstration set name")

	rootCmd.AddCommand(collectCmd)
}
