package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruminaider/skill-bus/internal/commands"
)

var setupScope string

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactively configure dispatcher settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		out, err := commands.Setup(setupScope, cwd)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	setupCmd.Flags().StringVar(&setupScope, "scope", "", "config scope: project or global (prompted when omitted)")
}
