package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/ruminaider/skill-bus/internal/paths"
)

// PluginInfo is one plugin discovered in the cache with its skills and
// commands.
type PluginInfo struct {
	Name     string
	Version  string
	Skills   []string
	Commands []string
}

// Skills enumerates the skills and slash commands a subscription pattern
// could target: cached plugins plus the user and project skill/command
// directories.
func Skills(cwd, cacheDir string) string {
	lines := []string{"Available skills and commands:", ""}

	for _, p := range ScanPluginCache(cacheDir) {
		verStr := ""
		if p.Version != "" {
			verStr = fmt.Sprintf(" (v%s)", p.Version)
		}
		lines = append(lines, fmt.Sprintf("  Plugin: %s%s", p.Name, verStr))
		if len(p.Skills) > 0 {
			lines = append(lines, "    Skills: "+strings.Join(p.Skills, ", "))
		}
		if len(p.Commands) > 0 {
			lines = append(lines, "    Commands: "+strings.Join(p.Commands, ", "))
		}
		lines = append(lines, "")
	}

	sections := []struct {
		title string
		items []string
	}{
		{"User skills (global):", scanStandaloneSkills(paths.ExpandUser("~/.claude/skills"))},
		{"User commands (global):", scanCommandsDir(paths.ExpandUser("~/.claude/commands"))},
		{"Project skills:", scanStandaloneSkills(filepath.Join(cwd, ".claude", "skills"))},
		{"Project commands:", scanCommandsDir(filepath.Join(cwd, ".claude", "commands"))},
	}
	for _, s := range sections {
		if len(s.items) > 0 {
			lines = append(lines, "  "+s.title, "    "+strings.Join(s.items, ", "), "")
		}
	}

	lines = append(lines, `  Or enter a glob pattern (e.g. "superpowers:*")`)
	return strings.Join(lines, "\n")
}

// ScanPluginCache walks the plugin cache (latest version per plugin,
// orphan-marked versions skipped) collecting skill and command names.
func ScanPluginCache(cacheDir string) []PluginInfo {
	if cacheDir == "" {
		cacheDir = paths.ExpandUser("~/.claude/plugins/cache")
	}
	sources, err := os.ReadDir(cacheDir)
	if err != nil {
		return nil
	}

	best := map[string]PluginInfo{}
	for _, source := range sources {
		if !source.IsDir() || strings.HasPrefix(source.Name(), "temp_git_") {
			continue
		}
		sourcePath := filepath.Join(cacheDir, source.Name())
		pluginDirs, err := os.ReadDir(sourcePath)
		if err != nil {
			continue
		}
		for _, pluginDir := range pluginDirs {
			if !pluginDir.IsDir() {
				continue
			}
			info, ok := scanPluginDir(filepath.Join(sourcePath, pluginDir.Name()), pluginDir.Name())
			if !ok {
				continue
			}
			if prev, exists := best[info.Name]; exists &&
				len(prev.Skills)+len(prev.Commands) >= len(info.Skills)+len(info.Commands) {
				continue
			}
			best[info.Name] = info
		}
	}

	names := make([]string, 0, len(best))
	for name := range best {
		names = append(names, name)
	}
	sort.Strings(names)
	plugins := make([]PluginInfo, 0, len(names))
	for _, name := range names {
		plugins = append(plugins, best[name])
	}
	return plugins
}

func scanPluginDir(pluginPath, dirName string) (PluginInfo, bool) {
	versions, err := os.ReadDir(pluginPath)
	if err != nil || len(versions) == 0 {
		return PluginInfo{}, false
	}
	names := make([]string, 0, len(versions))
	for _, v := range versions {
		names = append(names, v.Name())
	}
	sort.Slice(names, func(i, j int) bool { return semverLess(names[i], names[j]) })
	latest := names[len(names)-1]
	versionPath := filepath.Join(pluginPath, latest)

	if _, err := os.Stat(filepath.Join(versionPath, ".orphaned_at")); err == nil {
		return PluginInfo{}, false
	}

	info := PluginInfo{Name: dirName, Version: latest}
	if data, err := os.ReadFile(filepath.Join(versionPath, ".claude-plugin", "plugin.json")); err == nil {
		var meta struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		}
		if jsonUnmarshal(data, &meta) == nil {
			if meta.Name != "" {
				info.Name = meta.Name
			}
			if meta.Version != "" {
				info.Version = meta.Version
			}
		}
	}

	if entries, err := os.ReadDir(filepath.Join(versionPath, "skills")); err == nil {
		for _, e := range entries {
			skillMD := filepath.Join(versionPath, "skills", e.Name(), "SKILL.md")
			if _, err := os.Stat(skillMD); err == nil {
				info.Skills = append(info.Skills, frontmatterName(skillMD, e.Name()))
			}
		}
	}
	info.Commands = scanCommandsDir(filepath.Join(versionPath, "commands"))

	if len(info.Skills) == 0 && len(info.Commands) == 0 {
		return PluginInfo{}, false
	}
	return info, true
}

// semverLess orders version strings numerically per dotted component,
// falling back to lexicographic for non-numeric parts.
func semverLess(a, b string) bool {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		an, aerr := strconv.Atoi(as[i])
		bn, berr := strconv.Atoi(bs[i])
		if aerr == nil && berr == nil {
			if an != bn {
				return an < bn
			}
			continue
		}
		if as[i] != bs[i] {
			return as[i] < bs[i]
		}
	}
	return len(as) < len(bs)
}

// frontmatterName extracts the name field from a SKILL.md YAML frontmatter
// block, falling back to the directory name.
func frontmatterName(path, fallback string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return fallback
	}
	lines := strings.SplitN(string(data), "\n", -1)
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return fallback
	}
	var block []string
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "---" {
			break
		}
		block = append(block, line)
	}
	var meta struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal([]byte(strings.Join(block, "\n")), &meta); err != nil || meta.Name == "" {
		return fallback
	}
	return meta.Name
}

// scanStandaloneSkills finds SKILL.md names in a skills directory, including
// one level of public/ nesting.
func scanStandaloneSkills(baseDir string) []string {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil
	}
	var skills []string
	for _, e := range entries {
		skillMD := filepath.Join(baseDir, e.Name(), "SKILL.md")
		if _, err := os.Stat(skillMD); err == nil {
			skills = append(skills, frontmatterName(skillMD, e.Name()))
		}
		nested := filepath.Join(baseDir, e.Name(), "public")
		if subEntries, err := os.ReadDir(nested); err == nil {
			for _, sub := range subEntries {
				subMD := filepath.Join(nested, sub.Name(), "SKILL.md")
				if _, err := os.Stat(subMD); err == nil {
					skills = append(skills, frontmatterName(subMD, sub.Name()))
				}
			}
		}
	}
	return skills
}

// scanCommandsDir lists .md files in a commands directory, extension
// stripped.
func scanCommandsDir(baseDir string) []string {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil
	}
	var cmds []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".md") {
			cmds = append(cmds, strings.TrimSuffix(e.Name(), ".md"))
		}
	}
	return cmds
}
