package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruminaider/skill-bus/internal/commands"
	"github.com/ruminaider/skill-bus/internal/warnings"
)

var insertsScope string

var insertsCmd = &cobra.Command{
	Use:   "inserts",
	Short: "List inserts in one scope",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		var warn warnings.List
		fmt.Println(commands.Inserts(cwd, insertsScope, &warn))
		printWarnings(&warn)
		return nil
	},
}

func init() {
	insertsCmd.Flags().StringVar(&insertsScope, "scope", "project", "config scope: project or global")
}
