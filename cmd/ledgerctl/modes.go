package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2beens/liftledger/internal/workout/tracking"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List the tracking modes with their labels and defaults",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		bold := color.New(color.Bold).SprintFunc()
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", bold("MODE"), bold("PRIMARY"), bold("UNIT"), bold("FIELDS"))
		for _, m := range tracking.All() {
			c := tracking.ConfigFor(m)
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m, c.Labels.Primary, c.Labels.Unit, fieldList(c.Fields))
		}
		_ = tw.Flush()
	},
}

func fieldList(a tracking.Applicability) string {
	var fields []string
	for _, f := range []struct {
		name string
		on   bool
	}{
		{"reps", a.Reps},
		{"weight", a.Weight},
		{"duration", a.Duration},
		{"distance", a.Distance},
		{"per-side", a.PerSide},
	} {
		if f.on {
			fields = append(fields, f.name)
		}
	}
	return strings.Join(fields, ",")
}

var (
	suggestCategory  string
	suggestEquipment []string
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [exercise-name]",
	Short: "Suggest a tracking mode for a new exercise",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		m := tracking.SuggestMode(suggestCategory, args[0], suggestEquipment...)
		fmt.Printf("%s -> %s\n", args[0], color.CyanString(m.String()))
	},
}

func init() {
	suggestCmd.Flags().StringVar(&suggestCategory, "category", "", "exercise category, e.g. strength or cardio")
	suggestCmd.Flags().StringSliceVar(&suggestEquipment, "equipment", nil, "equipment used, comma separated")
}
