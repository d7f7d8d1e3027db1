package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2beens/liftledger/internal/workout/display"
	"github.com/2beens/liftledger/internal/workout/store/pgstore"
)

var (
	statsUser string
	statsFrom string
	statsTo   string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the workout totals of a user in a date range",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if statsUser == "" {
			return errors.New("--user is required")
		}
		from, err := optionalDate(statsFrom)
		if err != nil {
			return err
		}
		to, err := optionalDate(statsTo)
		if err != nil {
			return err
		}

		pool, err := openPool(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		svc := display.NewService(display.ServiceParams{Reader: pgstore.New(pool)})
		stats, err := svc.Stats(cmd.Context(), statsUser, from, to)
		if err != nil {
			return err
		}

		boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		fmt.Printf("  %s: %d\n", boldCyan("Workouts"), stats.TotalWorkouts)
		fmt.Printf("  %s: %d\n", boldCyan("Exercises"), stats.TotalExercises)
		fmt.Printf("  %s: %d\n", boldCyan("Sets"), stats.TotalSets)
		fmt.Printf("  %s: %d\n", boldCyan("Reps"), stats.TotalReps)
		fmt.Printf("  %s: %g\n", boldCyan("Work"), stats.TotalWork)
		fmt.Printf("  %s: %d\n", boldCyan("Minutes"), stats.TotalMinutes)
		fmt.Printf("  %s: %d\n", boldCyan("Calories"), stats.TotalCalories)
		fmt.Printf("  %s: %d\n", boldCyan("Records"), stats.PRCount)
		if stats.Truncated {
			color.Yellow("  totals cover the first %d sessions only", display.MaxFallbackSessions)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsUser, "user", "", "user id")
	statsCmd.Flags().StringVar(&statsFrom, "from", "", "first day, YYYY-MM-DD")
	statsCmd.Flags().StringVar(&statsTo, "to", "", "last day, YYYY-MM-DD")
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return &t, nil
}
