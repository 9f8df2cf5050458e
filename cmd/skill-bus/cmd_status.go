package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruminaider/skill-bus/internal/commands"
	"github.com/ruminaider/skill-bus/internal/warnings"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "One-line dispatcher status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		var warn warnings.List
		fmt.Println(commands.Status(cwd, version, &warn))
		printWarnings(&warn)
		return nil
	},
}
