package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruminaider/skill-bus/internal/commands"
)

var addInsertOpts commands.AddInsertOptions

var addInsertCmd = &cobra.Command{
	Use:   "add-insert",
	Short: "Create or update an insert and optionally subscribe it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		addInsertOpts.Cwd = cwd
		out, err := commands.AddInsert(addInsertOpts)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	f := addInsertCmd.Flags()
	f.StringVar(&addInsertOpts.Name, "name", "", "insert name")
	f.StringVar(&addInsertOpts.Text, "text", "", "insert text")
	f.StringVar(&addInsertOpts.Dynamic, "dynamic", "", "dynamic handler name instead of text")
	f.StringVar(&addInsertOpts.ConditionsJSON, "conditions", "", "JSON array of condition objects")
	f.StringVar(&addInsertOpts.On, "on", "", "skill pattern to subscribe (optional)")
	f.StringVar(&addInsertOpts.When, "when", "", "subscription timing: pre, post, or complete")
	f.StringVar(&addInsertOpts.Scope, "scope", "project", "config scope: project or global")
	addInsertCmd.MarkFlagRequired("name")
}
