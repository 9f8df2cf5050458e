// Package commands implements the operator CLI: deterministic config
// display, matching simulation, skill discovery, config edits, and telemetry
// stats. Every command is a thin shell over the dispatch core.
package commands

import (
	"fmt"
	"strings"

	"github.com/ruminaider/skill-bus/internal/config"
	"github.com/ruminaider/skill-bus/internal/paths"
	"github.com/ruminaider/skill-bus/internal/warnings"
)

// FormatCondition renders a single condition to a human-readable string.
func FormatCondition(c config.Condition) string {
	kind, arg, ok := c.Kind()
	if !ok {
		return fmt.Sprintf("%v", map[string]any(c))
	}

	switch kind {
	case "not":
		if inner, ok := arg.(map[string]any); ok {
			return "not(" + FormatCondition(config.Condition(inner)) + ")"
		}
		return fmt.Sprintf("not(%v)", arg)
	case "fileExists", "gitBranch", "envSet":
		return fmt.Sprintf("%s(\"%v\")", kind, arg)
	case "envEquals":
		if fields, ok := arg.(map[string]any); ok {
			return fmt.Sprintf("envEquals(%v, \"%v\")", orQuestion(fields["var"]), orQuestion(fields["value"]))
		}
		return fmt.Sprintf("envEquals(%v)", arg)
	case "fileContains":
		if fields, ok := arg.(map[string]any); ok {
			file := orQuestion(fields["file"])
			pattern := orQuestion(fields["pattern"])
			if regex, _ := fields["regex"].(bool); regex {
				return fmt.Sprintf("fileContains(\"%v\", /%v/)", file, pattern)
			}
			return fmt.Sprintf("fileContains(\"%v\", \"%v\")", file, pattern)
		}
		return fmt.Sprintf("fileContains(%v)", arg)
	}
	return fmt.Sprintf("%s(%v)", kind, arg)
}

// FormatConditions joins multiple conditions with AND.
func FormatConditions(conds []config.Condition) string {
	if len(conds) == 0 {
		return "(none)"
	}
	parts := make([]string, len(conds))
	for i, c := range conds {
		parts[i] = FormatCondition(c)
	}
	return strings.Join(parts, " AND ")
}

func orQuestion(v any) any {
	if v == nil {
		return "?"
	}
	return v
}

// loadConfigs reads both config scopes for a project directory.
func loadConfigs(cwd string, warn *warnings.List) (global, project *config.File) {
	return config.Load(paths.GlobalConfig(), warn), config.Load(paths.ProjectConfig(cwd), warn)
}
