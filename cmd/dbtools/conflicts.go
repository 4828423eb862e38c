package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/camka14/mvp-site/internal/conflicts"
	"github.com/camka14/mvp-site/internal/timeslots"
)

var failOnConflict bool

func init() {
	conflictsSweepCmd.Flags().BoolVar(&failOnConflict, "fail", false, "Exit non-zero when overlaps are found")
	conflictsCmd.AddCommand(conflictsSweepCmd)
	rootCmd.AddCommand(conflictsCmd)
}

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Inspect committed time slots for cross-event overlaps",
}

var conflictsSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "List every pair of events whose committed slots overlap on a field",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		pairs, err := conflicts.NewService(database.Queries).Sweep(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(pairs) == 0 {
			fmt.Fprintln(out, "No overlapping events found")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FIELD\tEVENT\tSLOT\tEVENT\tSLOT")
		for _, pair := range pairs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				pair.A.FieldID,
				pair.A.EventName,
				describeSlot(pair.A),
				pair.B.EventName,
				describeSlot(pair.B),
			)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if failOnConflict {
			return fmt.Errorf("%d overlapping slot pairs", len(pairs))
		}
		return nil
	},
}

func describeSlot(c conflicts.Conflict) string {
	return fmt.Sprintf("%s %s-%s %s",
		weekdayName(c.DayOfWeek),
		timeslots.FormatMinutes(c.StartMinutes),
		timeslots.FormatMinutes(c.EndMinutes),
		c.Timezone,
	)
}

func weekdayName(day int) string {
	if day < 0 || day > 6 {
		return fmt.Sprintf("day %d", day)
	}
	return time.Weekday(day).String()[:3]
}
