package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruminaider/skill-bus/internal/commands"
	"github.com/ruminaider/skill-bus/internal/warnings"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List merged subscriptions and effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		var warn warnings.List
		fmt.Println(commands.List(cwd, &warn))
		printWarnings(&warn)
		return nil
	},
}

// printWarnings echoes accumulated config warnings to stderr so they never
// mix into parseable stdout.
func printWarnings(warn *warnings.List) {
	for _, msg := range warn.Messages() {
		fmt.Fprintln(os.Stderr, msg)
	}
}
