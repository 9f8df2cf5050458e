package config

import (
	"github.com/ruminaider/skill-bus/internal/warnings"
)

// Settings holds the recognized settings keys with project-over-global merge
// applied. Unknown keys in config files are ignored.
type Settings struct {
	Enabled              bool
	MaxMatchesPerSkill   int
	ShowConsoleEcho      bool
	DisableGlobal        bool
	MonitorSlashCommands bool
	ShowConditionSkips   bool
	Telemetry            bool
	ObserveUnmatched     bool
	CompletionHooks      bool
	TelemetryPath        string
	MaxLogSizeKB         int
}

// Defaults returns the settings applied when a key is missing from both
// scopes.
func Defaults() Settings {
	return Settings{
		Enabled:            true,
		MaxMatchesPerSkill: 3,
		ShowConsoleEcho:    true,
		MaxLogSizeKB:       512,
	}
}

// MergeSettings starts from defaults and applies the global then project
// settings maps key by key, so a project file overrides individual keys
// without replacing the whole object.
func MergeSettings(global, project *File, warn *warnings.List) Settings {
	s := Defaults()
	if global != nil {
		s.apply(global.Settings, warn)
	}
	if project != nil {
		s.apply(project.Settings, warn)
	}
	return s
}

func (s *Settings) apply(raw map[string]any, warn *warnings.List) {
	for key, val := range raw {
		switch key {
		case "enabled":
			applyBool(&s.Enabled, val)
		case "showConsoleEcho":
			applyBool(&s.ShowConsoleEcho, val)
		case "disableGlobal":
			applyBool(&s.DisableGlobal, val)
		case "monitorSlashCommands":
			applyBool(&s.MonitorSlashCommands, val)
		case "showConditionSkips":
			applyBool(&s.ShowConditionSkips, val)
		case "telemetry":
			applyBool(&s.Telemetry, val)
		case "observeUnmatched":
			applyBool(&s.ObserveUnmatched, val)
		case "completionHooks":
			applyBool(&s.CompletionHooks, val)
		case "telemetryPath":
			if v, ok := val.(string); ok {
				s.TelemetryPath = v
			}
		case "maxMatchesPerSkill":
			if n, ok := intValue(val); ok && n >= 1 {
				s.MaxMatchesPerSkill = n
			} else {
				warn.Addf("[skill-bus] WARNING - invalid maxMatchesPerSkill=%v, using default 3", val)
				s.MaxMatchesPerSkill = 3
			}
		case "maxLogSizeKB":
			if n, ok := intValue(val); ok && n >= 0 {
				s.MaxLogSizeKB = n
			}
		}
	}
}

func applyBool(dst *bool, val any) {
	if v, ok := val.(bool); ok {
		*dst = v
	}
}

// intValue accepts the integral numbers encoding/json produces (float64).
func intValue(val any) (int, bool) {
	f, ok := val.(float64)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
