package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruminaider/skill-bus/internal/commands"
)

var skillsCacheDir string

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Enumerate installed skills and slash commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		fmt.Println(commands.Skills(cwd, skillsCacheDir))
		return nil
	},
}

func init() {
	skillsCmd.Flags().StringVar(&skillsCacheDir, "cache-dir", "", "plugin cache directory (default ~/.claude/plugins/cache)")
}
