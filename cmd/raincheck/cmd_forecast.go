package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/raincheck/internal/config"
	"github.com/i474232898/raincheck/internal/weather"
)

var (
	forecastLat    float64
	forecastLon    float64
	forecastWeekly bool
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Print the weather snapshot for a location",
	Long:  `Fetch the current conditions, or the next seven days with --weekly, and print them as JSON.`,
	RunE:  runForecast,
}

func init() {
	rootCmd.AddCommand(forecastCmd)
	addCoordinateFlags(forecastCmd, &forecastLat, &forecastLon)
	forecastCmd.Flags().BoolVar(&forecastWeekly, "weekly", false, "print the seven day forecast")
}

// addCoordinateFlags registers --lat and --lon defaulting to the configured home location.
func addCoordinateFlags(cmd *cobra.Command, lat, lon *float64) {
	cmd.Flags().Float64Var(lat, "lat", config.DefaultLocation.Latitude, "latitude in degrees")
	cmd.Flags().Float64Var(lon, "lon", config.DefaultLocation.Longitude, "longitude in degrees")
}

func coordinatesFromFlags(lat, lon float64) (weather.Coordinates, error) {
	c := weather.Coordinates{Latitude: lat, Longitude: lon}
	return c, config.ValidateCoordinates(c)
}

// forecastOutput pairs a snapshot with its display condition.
type forecastOutput struct {
	weather.Snapshot
	Condition weather.Condition `json:"condition"`
}

func runForecast(cmd *cobra.Command, args []string) error {
	coords, err := coordinatesFromFlags(forecastLat, forecastLon)
	if err != nil {
		return err
	}
	a, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	var out any
	if forecastWeekly {
		seq, err := a.service.Weekly(ctx, coords, nil)
		if err != nil {
			return fmt.Errorf("weekly forecast: %w", err)
		}
		days := make([]forecastOutput, 0, len(seq))
		for _, s := range seq {
			days = append(days, forecastOutput{s, weather.ClassifySnapshot(s, weather.Day)})
		}
		out = days
	} else {
		s, cond, err := a.service.CurrentCondition(ctx, coords, nil, time.Now())
		if err != nil {
			return fmt.Errorf("current conditions: %w", err)
		}
		out = forecastOutput{s, cond}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
