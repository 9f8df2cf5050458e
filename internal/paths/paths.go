// Package paths resolves skill-bus config file locations.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultGlobalConfig is the global config location when
// SKILL_BUS_GLOBAL_CONFIG is unset.
const DefaultGlobalConfig = "~/.claude/skill-bus.json"

func home() string {
	h, _ := os.UserHomeDir()
	return h
}

// ExpandUser replaces a leading ~ with the current user's home directory.
func ExpandUser(path string) string {
	if path == "~" {
		return home()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home(), path[2:])
	}
	return path
}

// GlobalConfig returns the global config path, honoring the
// SKILL_BUS_GLOBAL_CONFIG override. The result may contain a leading ~;
// callers display it as-is and expand it when reading.
func GlobalConfig() string {
	if p := os.Getenv("SKILL_BUS_GLOBAL_CONFIG"); p != "" {
		return p
	}
	return DefaultGlobalConfig
}

// ProjectConfig returns <cwd>/.claude/skill-bus.json.
func ProjectConfig(cwd string) string {
	return filepath.Join(cwd, ".claude", "skill-bus.json")
}

// Resolve expands ~ and joins relative paths against cwd.
func Resolve(path, cwd string) string {
	p := ExpandUser(path)
	if !filepath.IsAbs(p) {
		p = filepath.Join(cwd, p)
	}
	return p
}
