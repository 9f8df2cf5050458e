package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ruminaider/skill-bus/internal/warnings"
)

// Inserts lists the inserts defined in one scope, numbered for the
// interactive add-sub and edit-insert flows. Entry 1 is always the
// create-new placeholder.
func Inserts(cwd, scope string, warn *warnings.List) string {
	global, project := loadConfigs(cwd, warn)
	cfg := project
	if scope == "global" {
		cfg = global
	}

	if cfg == nil {
		return fmt.Sprintf("No %s config found.", scope)
	}
	if len(cfg.Inserts) == 0 {
		return fmt.Sprintf("No inserts in %s config.", scope)
	}

	names := make([]string, 0, len(cfg.Inserts))
	for name := range cfg.Inserts {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := []string{fmt.Sprintf("Available inserts (%s):", scope), "  1. [Create new insert]"}
	for i, name := range names {
		insert := cfg.Inserts[name]
		preview := strings.ReplaceAll(insert.Text, "\n", " ")
		if len(preview) > 60 {
			preview = preview[:60] + "..."
		}
		condStr := "\n     (no conditions)"
		if len(insert.Conditions) > 0 {
			condStr = "\n     conditions: " + FormatConditions(insert.Conditions)
		}
		lines = append(lines, fmt.Sprintf("  %d. %s -- %q%s", i+2, name, preview, condStr))
	}
	return strings.Join(lines, "\n")
}
