package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type settingKind int

const (
	kindBool settingKind = iota
	kindInt
	kindString
)

type settingSpec struct {
	kind settingKind
	min  int
	desc string
}

// knownSettings is the set of keys the set command accepts. Unknown keys
// are rejected rather than silently written.
var knownSettings = map[string]settingSpec{
	"enabled":              {kind: kindBool, desc: "master switch for all dispatching"},
	"maxMatchesPerSkill":   {kind: kindInt, min: 1, desc: "cap on fired subscriptions per event"},
	"showConsoleEcho":      {kind: kindBool, desc: "echo a match summary to the console"},
	"showConditionSkips":   {kind: kindBool, desc: "report condition-skipped subs in output"},
	"monitorSlashCommands": {kind: kindBool, desc: "dispatch on slash-command prompts"},
	"telemetry":            {kind: kindBool, desc: "append match events to the telemetry log"},
	"observeUnmatched":     {kind: kindBool, desc: "also log events that matched nothing"},
	"telemetryPath":        {kind: kindString, desc: "override telemetry log location"},
	"maxLogSizeKB":         {kind: kindInt, min: 1, desc: "rotate telemetry log above this size"},
	"completionHooks":      {kind: kindBool, desc: "synthesize completion trigger instructions"},
	"disableGlobal":        {kind: kindBool, desc: "project ignores all global subscriptions"},
}

// Set writes one settings key to the chosen scope's config file, preserving
// everything else in the file verbatim.
func Set(key, value, scope, cwd string) (string, error) {
	spec, ok := knownSettings[key]
	if !ok {
		return "", fmt.Errorf("unknown setting %q. Known settings:\n%s", key, settingsHelp())
	}

	parsed, err := parseSettingValue(key, value, spec)
	if err != nil {
		return "", err
	}

	path := configPathFor(scope, cwd)
	raw, err := readRawConfig(path)
	if err != nil {
		return "", err
	}
	rawSettings(raw)[key] = parsed
	if err := writeRawConfig(path, raw); err != nil {
		return "", err
	}
	return fmt.Sprintf("Set %s = %v (%s scope, %s)", key, parsed, scope, path), nil
}

func parseSettingValue(key, value string, spec settingSpec) (any, error) {
	switch spec.kind {
	case kindBool:
		switch strings.ToLower(value) {
		case "true", "on", "1", "yes":
			return true, nil
		case "false", "off", "0", "no":
			return false, nil
		}
		return nil, fmt.Errorf("%s expects a boolean (true/false), got %q", key, value)
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%s expects an integer, got %q", key, value)
		}
		if n < spec.min {
			return nil, fmt.Errorf("%s must be >= %d, got %d", key, spec.min, n)
		}
		return n, nil
	default:
		return value, nil
	}
}

func settingsHelp() string {
	names := make([]string, 0, len(knownSettings))
	for name := range knownSettings {
		names = append(names, name)
	}
	sort.Strings(names)
	var lines []string
	for _, name := range names {
		spec := knownSettings[name]
		kind := "string"
		switch spec.kind {
		case kindBool:
			kind = "bool"
		case kindInt:
			kind = "int"
		}
		lines = append(lines, fmt.Sprintf("  %-22s %-6s %s", name, kind, spec.desc))
	}
	return strings.Join(lines, "\n")
}
