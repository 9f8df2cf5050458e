package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ruminaider/skill-bus/internal/paths"
)

func jsonUnmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// configPathFor resolves the config file path for a scope name, with ~
// expanded because the raw read/write helpers touch the filesystem
// directly.
func configPathFor(scope, cwd string) string {
	if scope == "global" {
		return paths.ExpandUser(paths.GlobalConfig())
	}
	return paths.ProjectConfig(cwd)
}

// readRawConfig loads a config file as a raw JSON object so that writes
// preserve keys this tool does not know about. A missing file yields an
// empty object; a malformed one returns an error so we never clobber a
// file the user needs to repair by hand.
func readRawConfig(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, err
	}
	raw := map[string]any{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s has invalid JSON, refusing to overwrite: %w", path, err)
	}
	return raw, nil
}

// writeRawConfig writes the raw object back with two-space indentation,
// creating parent directories as needed.
func writeRawConfig(path string, raw map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// rawSettings returns the settings sub-object, creating it if absent.
func rawSettings(raw map[string]any) map[string]any {
	if s, ok := raw["settings"].(map[string]any); ok {
		return s
	}
	s := map[string]any{}
	raw["settings"] = s
	return s
}
