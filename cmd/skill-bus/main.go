package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "0.4.1"

var rootCmd = &cobra.Command{
	Use:   "skill-bus",
	Short: "Route skill events to context-injecting subscriptions",
	Long:  "skill-bus matches skill lifecycle events against layered subscription config and emits context-injection documents for Claude Code hooks.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listCmd.RunE(cmd, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("skill-bus %s\n", version)
	},
}

func init() {
	logrus.SetOutput(os.Stderr)
	if os.Getenv("SKILL_BUS_DEBUG") == "1" {
		logrus.SetLevel(logrus.DebugLevel)
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(dispatchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(insertsCmd)
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(addInsertCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
