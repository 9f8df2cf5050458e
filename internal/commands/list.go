package commands

import (
	"fmt"
	"strings"

	"github.com/ruminaider/skill-bus/internal/config"
	"github.com/ruminaider/skill-bus/internal/subscriptions"
	"github.com/ruminaider/skill-bus/internal/warnings"
)

// List renders the full subscription listing: the settings block plus
// subscriptions grouped by insert with scope attribution and two-layer
// condition display.
func List(cwd string, warn *warnings.List) string {
	global, project := loadConfigs(cwd, warn)
	settings := config.MergeSettings(global, project, warn)
	merged := subscriptions.Merge(global, project, settings, warn)
	inserts := subscriptions.MergeInserts(global, project, warn)

	return formatSettings(settings, global, project) + "\n\n" +
		formatGrouped(merged, inserts, global, project)
}

func scopeEnabledLabel(f *config.File) string {
	if f == nil {
		return "no config"
	}
	if v, ok := f.Settings["enabled"].(bool); ok && !v {
		return "disabled"
	}
	return "enabled"
}

func formatSettings(settings config.Settings, global, project *config.File) string {
	lines := []string{
		"Skill Bus Status:",
		"  Global:  " + scopeEnabledLabel(global),
		"  Project: " + scopeEnabledLabel(project),
		fmt.Sprintf("  Max matches per skill: %d", settings.MaxMatchesPerSkill),
		"  Console echo: " + onOff(settings.ShowConsoleEcho),
	}
	if settings.MonitorSlashCommands {
		lines = append(lines, "  Slash command monitoring: ON")
	} else {
		lines = append(lines, `  Slash command monitoring: off (enable with "monitorSlashCommands": true in settings)`)
	}
	lines = append(lines, "  Condition skip logging: "+onOff(settings.ShowConditionSkips))
	return strings.Join(lines, "\n")
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

type groupEntry struct {
	sub      config.Subscription
	scope    string
	disabled bool
}

// formatGrouped renders subscriptions grouped by insert name, including
// overridden global subs (shown as disabled in project) that the merge
// filtered out, so the user sees the complete picture.
func formatGrouped(merged []subscriptions.Merged, inserts map[string]config.Insert, global, project *config.File) string {
	specific, broad := subscriptions.DetectOverrides(project)
	overridden := subscriptions.OverriddenGlobals(global, specific, broad)

	var order []string
	groups := map[string][]groupEntry{}
	add := func(name string, e groupEntry) {
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], e)
	}
	for _, m := range merged {
		add(insertOrUnnamed(m.Insert), groupEntry{sub: m.Subscription, scope: m.Scope})
	}
	for _, s := range overridden {
		add(insertOrUnnamed(s.Insert), groupEntry{sub: s, disabled: true})
	}

	if len(order) == 0 {
		return "Subscriptions: (none)"
	}

	lines := []string{"Subscriptions (grouped by insert):"}
	for _, name := range order {
		lines = append(lines, "", "  "+name+":")

		insertConds := inserts[name].Conditions
		if len(insertConds) > 0 {
			lines = append(lines, "    insert conditions: "+FormatConditions(insertConds))
		}

		for _, e := range groups[name] {
			pattern := e.sub.On
			if pattern == "" {
				pattern = "?"
			}
			timing := e.sub.EffectiveWhen()

			if e.disabled {
				lines = append(lines, fmt.Sprintf("    -> %s [%s] (global, disabled in project)", pattern, timing))
				continue
			}
			lines = append(lines, fmt.Sprintf("    -> %s [%s] (%s)", pattern, timing, e.scope))

			subConds := e.sub.Conditions
			switch {
			case !e.sub.InheritsConditions():
				lines = append(lines, "      inheritConditions: false (opts out of insert conditions)")
				if len(subConds) > 0 {
					lines = append(lines, "      sub conditions: "+FormatConditions(subConds))
					lines = append(lines, "      effective: "+FormatConditions(subConds))
				} else {
					lines = append(lines, "      effective: (none)")
				}
			case len(insertConds) > 0:
				if len(subConds) > 0 {
					lines = append(lines, "      sub conditions: "+FormatConditions(subConds))
					effective := append(append([]config.Condition{}, insertConds...), subConds...)
					lines = append(lines, "      effective: "+FormatConditions(effective))
				} else {
					lines = append(lines, "      (no sub conditions)")
					lines = append(lines, "      effective: "+FormatConditions(insertConds))
				}
			case len(subConds) > 0:
				lines = append(lines, "      conditions: "+FormatConditions(subConds))
			}
		}
	}

	if orphans := subscriptions.OrphanInserts(inserts, merged, overridden); len(orphans) > 0 {
		lines = append(lines, "", "  Orphan inserts (no subscriptions): "+strings.Join(orphans, ", "))
	}
	return strings.Join(lines, "\n")
}

func insertOrUnnamed(name string) string {
	if name == "" {
		return "unnamed"
	}
	return name
}
