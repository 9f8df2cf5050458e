package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruminaider/skill-bus/internal/commands"
	"github.com/ruminaider/skill-bus/internal/warnings"
)

var scanJSON bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Survey the project for knowledge files and config coverage",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		var warn warnings.List
		out, err := commands.Scan(cwd, scanJSON, &warn)
		if err != nil {
			return err
		}
		fmt.Println(out)
		if !scanJSON {
			printWarnings(&warn)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "emit the report as JSON")
}
