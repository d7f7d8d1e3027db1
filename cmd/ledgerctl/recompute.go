package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2beens/liftledger/internal/workout"
	"github.com/2beens/liftledger/internal/workout/ledger"
	"github.com/2beens/liftledger/internal/workout/store/pgstore"
	"github.com/2beens/liftledger/internal/workout/tracking"
)

var (
	recomputeUser     string
	recomputeExercise string
)

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Rebuild the personal record of an exercise from its stored sets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if recomputeUser == "" || recomputeExercise == "" {
			return errors.New("--user and --exercise are required")
		}

		pool, err := openPool(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		l := ledger.NewLedger(ledger.Params{
			Store: pgstore.New(pool),
		})
		rec, err := l.Recompute(cmd.Context(), recomputeUser, recomputeExercise)
		if err != nil {
			return err
		}

		printRecord(recomputeExercise, rec)
		return nil
	},
}

func init() {
	recomputeCmd.Flags().StringVar(&recomputeUser, "user", "", "user id")
	recomputeCmd.Flags().StringVar(&recomputeExercise, "exercise", "", "exercise id")
}

func printRecord(exerciseID string, rec *workout.PersonalRecord) {
	boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	magenta := color.New(color.FgMagenta).SprintFunc()

	if rec == nil || rec.Empty() {
		fmt.Println(magenta(fmt.Sprintf("no sets left for %s, record removed", exerciseID)))
		return
	}

	fmt.Printf("%s %s (%s)\n", boldGreen("Record of"), exerciseID, rec.Mode)
	for _, m := range workout.AllMetrics() {
		e := rec.Get(m)
		if e == nil {
			continue
		}
		fmt.Printf("  %s: %s on %s (set %s)\n",
			boldCyan(m.String()),
			formatValue(rec.Mode, m, e.Value),
			e.AchievedOn.Format("2006-01-02"),
			e.SetID,
		)
	}
}

func formatValue(mode tracking.Mode, m workout.Metric, v float64) string {
	switch m {
	case workout.MetricWeight:
		return fmt.Sprintf("%g kg", v)
	case workout.MetricDuration:
		secs := int(v)
		return fmt.Sprintf("%d:%02d", secs/60, secs%60)
	case workout.MetricDistance:
		return fmt.Sprintf("%g m", v)
	case workout.MetricVolume:
		if mode == tracking.WeightReps {
			return fmt.Sprintf("%g kg", v)
		}
	}
	return fmt.Sprintf("%g", v)
}
