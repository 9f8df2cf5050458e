package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruminaider/skill-bus/internal/commands"
	"github.com/ruminaider/skill-bus/internal/warnings"
)

var statsOpts commands.StatsOptions

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize match telemetry",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		var warn warnings.List
		fmt.Println(commands.Stats(cwd, statsOpts, &warn))
		printWarnings(&warn)
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsOpts.Days, "days", 0, "only count events from the last N days")
	statsCmd.Flags().StringVar(&statsOpts.Session, "session", "", "only count events from one session id")
}
