package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruminaider/skill-bus/internal/commands"
	"github.com/ruminaider/skill-bus/internal/warnings"
)

var simulateTiming string

var simulateCmd = &cobra.Command{
	Use:   "simulate SKILL",
	Short: "Show which subscriptions would fire for a skill, condition by condition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		var warn warnings.List
		fmt.Println(commands.Simulate(args[0], simulateTiming, cwd, &warn))
		printWarnings(&warn)
		return nil
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulateTiming, "timing", "pre", "event timing: pre, post, or complete")
}
