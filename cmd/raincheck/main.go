package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/i474232898/raincheck/internal/logger"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "raincheck",
	Short: "raincheck - weather snapshots and outdoor activity advice",
	Long: `raincheck fetches Open-Meteo forecasts, normalizes them into weather
snapshots and tells you whether the weather suits an outdoor activity.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logLevel != "" {
			logger.SetLevel(logLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (DEBUG, INFO, WARN, ERROR); overrides LOG_LEVEL")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
