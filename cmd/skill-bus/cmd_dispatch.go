package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ruminaider/skill-bus/internal/dispatch"
)

var (
	dispatchTiming string
	dispatchSource string
	dispatchCwd    string
)

// dispatchCmd is the hook entry point. Once flags parse it must never
// fail: any error or panic becomes a systemMessage document on stdout and
// the process still exits 0, because a nonzero exit would block the
// hooked event. Flag misuse (missing or invalid --timing) is operator
// error and rejects up front like any other cobra usage error.
var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Match a skill event and emit a context-injection document",
	Long:  "dispatch reads the skill name from SKILL_BUS_SKILL, matches it against merged subscriptions, and prints the hook output JSON on stdout. Always exits 0 once flags parse.",
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validateTiming(dispatchTiming)
	},
	Run: func(cmd *cobra.Command, args []string) {
		defer func() {
			if r := recover(); r != nil {
				logrus.WithField("panic", r).Debug("dispatch panicked")
				emit(&dispatch.Output{SystemMessage: fmt.Sprintf("[skill-bus] dispatch error: %v", r)})
			}
		}()

		skill := os.Getenv("SKILL_BUS_SKILL")
		if skill == "" && len(args) > 0 {
			skill = args[0]
		}
		cwd := dispatchCwd
		if cwd == "" {
			cwd, _ = os.Getwd()
		}

		out := dispatch.New().Run(dispatch.Request{
			Skill:  skill,
			Timing: dispatchTiming,
			Source: dispatchSource,
			Cwd:    cwd,
		})
		emit(out)
	},
}

func validateTiming(timing string) error {
	switch timing {
	case "pre", "post", "complete":
		return nil
	}
	return fmt.Errorf("invalid --timing %q: use pre, post, or complete", timing)
}

// emit writes the output document to stdout. A nil output means nothing
// matched and nothing needs saying.
func emit(out *dispatch.Output) {
	if out == nil {
		return
	}
	data, err := json.Marshal(out)
	if err != nil {
		fmt.Printf(`{"systemMessage":"[skill-bus] output encoding failed"}%s`, "\n")
		return
	}
	fmt.Println(string(data))
}

func init() {
	dispatchCmd.Flags().StringVar(&dispatchTiming, "timing", "", "event timing: pre, post, or complete")
	dispatchCmd.Flags().StringVar(&dispatchSource, "source", "", "event source (set to 'prompt' for slash-command monitoring)")
	dispatchCmd.Flags().StringVar(&dispatchCwd, "cwd", "", "project directory (defaults to the working directory)")
	dispatchCmd.MarkFlagRequired("timing")
}
