package commands

import (
	"fmt"
	"strings"

	"github.com/ruminaider/skill-bus/internal/config"
	"github.com/ruminaider/skill-bus/internal/subscriptions"
	"github.com/ruminaider/skill-bus/internal/warnings"
)

// Status renders the one-line status summary.
func Status(cwd, version string, warn *warnings.List) string {
	global, project := loadConfigs(cwd, warn)
	settings := config.MergeSettings(global, project, warn)
	merged := subscriptions.Merge(global, project, settings, warn)
	inserts := subscriptions.MergeInserts(global, project, warn)

	state := "enabled"
	if !settings.Enabled {
		state = "PAUSED"
	}

	gCount, pCount := 0, 0
	for _, m := range merged {
		if m.Scope == subscriptions.ScopeGlobal {
			gCount++
		} else {
			pCount++
		}
	}

	telem := "off"
	if settings.Telemetry {
		telem = "on"
		if settings.ObserveUnmatched {
			telem += " (+unmatched)"
		}
	}

	parts := []string{
		fmt.Sprintf("Skill Bus v%s: %s", version, state),
		fmt.Sprintf("%d subs (%d global, %d project)", len(merged), gCount, pCount),
		fmt.Sprintf("%d inserts", len(inserts)),
		"prompt-monitor: " + onOff(settings.MonitorSlashCommands),
		"telemetry: " + telem,
	}
	return strings.Join(parts, " | ")
}
