package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruminaider/skill-bus/internal/commands"
)

var setScope string

var setCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Write one settings key to a config scope",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		out, err := commands.Set(args[0], args[1], setScope, cwd)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	setCmd.Flags().StringVar(&setScope, "scope", "project", "config scope: project or global")
}
