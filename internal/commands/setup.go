package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/ruminaider/skill-bus/internal/config"
	"github.com/ruminaider/skill-bus/internal/warnings"
)

// Setup walks through the boolean settings interactively and writes the
// chosen values to one scope. Current effective values pre-populate the
// form so re-running it is a review, not a reset.
func Setup(scope, cwd string) (string, error) {
	var warn warnings.List
	global, project := loadConfigs(cwd, &warn)
	settings := config.MergeSettings(global, project, &warn)

	var targetScope string
	if scope != "" {
		targetScope = scope
	} else {
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Which config should setup write to?").
					Options(
						huh.NewOption("Project (.claude/skill-bus.json)", "project"),
						huh.NewOption("Global (~/.claude/skill-bus.json)", "global"),
					).
					Value(&targetScope),
			),
		).Run()
		if err != nil {
			return "", err
		}
	}

	enabled := settings.Enabled
	consoleEcho := settings.ShowConsoleEcho
	skipLog := settings.ShowConditionSkips
	promptMonitor := settings.MonitorSlashCommands
	telemetry := settings.Telemetry

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable skill-bus dispatching?").
				Value(&enabled),
			huh.NewConfirm().
				Title("Echo match summaries to the console?").
				Value(&consoleEcho),
			huh.NewConfirm().
				Title("Report condition-skipped subscriptions?").
				Value(&skipLog),
			huh.NewConfirm().
				Title("Monitor slash-command prompts?").
				Description("Dispatches user prompts starting with / against subscriptions").
				Value(&promptMonitor),
			huh.NewConfirm().
				Title("Record match telemetry?").
				Description("Appends JSONL events under .claude/ for the stats command").
				Value(&telemetry),
		),
	).Run()
	if err != nil {
		return "", err
	}

	path := configPathFor(targetScope, cwd)
	raw, err := readRawConfig(path)
	if err != nil {
		return "", err
	}
	s := rawSettings(raw)
	s["enabled"] = enabled
	s["showConsoleEcho"] = consoleEcho
	s["showConditionSkips"] = skipLog
	s["monitorSlashCommands"] = promptMonitor
	s["telemetry"] = telemetry
	if err := writeRawConfig(path, raw); err != nil {
		return "", err
	}

	lines := []string{
		fmt.Sprintf("Wrote %s:", path),
		"  enabled: " + onOff(enabled),
		"  showConsoleEcho: " + onOff(consoleEcho),
		"  showConditionSkips: " + onOff(skipLog),
		"  monitorSlashCommands: " + onOff(promptMonitor),
		"  telemetry: " + onOff(telemetry),
	}
	return strings.Join(lines, "\n"), nil
}
