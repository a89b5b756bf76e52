package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/raincheck/internal/activity"
	"github.com/i474232898/raincheck/internal/weather"
)

var (
	evaluateLat        float64
	evaluateLon        float64
	evaluateActivities []string
	evaluateDate       string
)

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "List the known activities",
	Long:  `Display every activity that has its own weather rule.`,
	RunE:  runActivities,
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Check whether the weather suits one or more activities",
	Long: `Evaluate activities against the current conditions, or against a
forecast day with --date YYYY-MM-DD.`,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(activitiesCmd)
	rootCmd.AddCommand(evaluateCmd)

	addCoordinateFlags(evaluateCmd, &evaluateLat, &evaluateLon)
	evaluateCmd.Flags().StringSliceVarP(&evaluateActivities, "activity", "a", nil, "activity id (repeatable)")
	evaluateCmd.Flags().StringVar(&evaluateDate, "date", "", "forecast day (YYYY-MM-DD)")
	_ = evaluateCmd.MarkFlagRequired("activity")
}

func runActivities(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL\tICON")
	for _, a := range activity.Catalog() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", a.ID, a.Label, a.Icon)
	}
	return w.Flush()
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	coords, err := coordinatesFromFlags(evaluateLat, evaluateLon)
	if err != nil {
		return err
	}
	if evaluateDate != "" {
		if _, err := time.Parse(time.DateOnly, evaluateDate); err != nil {
			return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", evaluateDate)
		}
	}

	a, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	var snapshot weather.Snapshot
	if evaluateDate != "" {
		seq, err := a.service.Weekly(ctx, coords, nil)
		if err != nil {
			return fmt.Errorf("weekly forecast: %w", err)
		}
		day, ok := seq.ByDate(evaluateDate)
		if !ok {
			return fmt.Errorf("no forecast for %s", evaluateDate)
		}
		snapshot = day
	} else if snapshot, err = a.service.Current(ctx, coords, nil); err != nil {
		return fmt.Errorf("current conditions: %w", err)
	}

	fmt.Printf("%s, %s\n", snapshot.Location.PlaceName, snapshot.Date)
	for _, v := range activity.EvaluateAll(snapshot, evaluateActivities) {
		mark := "no "
		if v.Viable {
			mark = "yes"
		}
		fmt.Printf("  [%s] %-14s %s\n", mark, v.ActivityID, strings.TrimSpace(v.RecommendationText))
	}
	return nil
}
