package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/density-bench/density-bench/il"
	"github.com/density-bench/density-bench/il/storage"
)

var (
	// CLI flags for the inspect subcommand
	inspectPath string // Store path to inspect
	inspectName string // Demonstration set name
	inspectRuns bool   // List run records instead of demonstrations
)

// inspectCmd summarizes a stored demonstration set or lists run
// records
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarize a stored demonstration set or run history",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		ctx := context.Background()
		store, err := storage.Open(inspectPath)
		if err != nil {
			logrus.Fatalf("Could not open store %s: %v", inspectPath, err)
		}
		if err := store.Init(ctx); err != nil {
			logrus.Fatalf("Could not initialize store %s: %v", inspectPath, err)
		}
		defer storage.CloseIfSupported(store)

		if inspectRuns {
			recs, err := store.ListRunRecords(ctx)
			if err != nil {
				logrus.Fatalf("Could not list run records: %v", err)
			}
			if len(recs) == 0 {
				fmt.Println("no run records")
				return
			}
			for _, rec := range recs {
				fmt.Printf("id=%s name=%s env=%s started=%s completed=%s evals=%d\n",
					rec.ID, rec.Name, rec.Config.EnvName,
					rec.StartedAtUTC, rec.CompletedAtUTC, len(rec.Evals))
			}
			return
		}

		set, ok, err := store.GetDemonstrations(ctx, inspectName)
		if err != nil {
			logrus.Fatalf("Could not load demonstrations %q: %v", inspectName, err)
		}
		if !ok {
			logrus.Fatalf("No demonstration set %q in %s", inspectName, inspectPath)
		}
		fmt.Printf("set=%s env=%s seed=%d trajectories=%d transitions=%d\n",
			set.Name, set.EnvName, set.Seed,
			len(set.Trajectories), il.TotalSteps(set.Trajectories))
		il.Summarize(set.Trajectories).Print(os.Stdout, "demonstrations "+set.Name)
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectPath, "store", "expert.json", "Store path (mem:, *.db, *.json)")
	inspectCmd.Flags().StringVar(&inspectName, "name", "expert", "Demonstration set name")
	inspectCmd.Flags().BoolVar(&inspectRuns, "runs", false, "List run records instead of demonstrations")

	rootCmd.AddCommand(inspectCmd)
}
