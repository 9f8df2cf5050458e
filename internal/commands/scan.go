package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ruminaider/skill-bus/internal/config"
	"github.com/ruminaider/skill-bus/internal/git"
	"github.com/ruminaider/skill-bus/internal/warnings"
)

// ScanReport is the project survey the scan command produces, used by
// setup flows to suggest subscription candidates.
type ScanReport struct {
	Cwd            string   `json:"cwd"`
	GitRemote      string   `json:"gitRemote,omitempty"`
	KnowledgeFiles []string `json:"knowledgeFiles"`
	BuildFiles     []string `json:"buildFiles"`
	DocsDirs       []string `json:"docsDirs"`
	GlobalSubs     int      `json:"globalSubs"`
	ProjectSubs    int      `json:"projectSubs"`
	Inserts        int      `json:"inserts"`
}

// knowledgeCandidates are well-known context files worth wiring into
// inserts via fileExists conditions.
var knowledgeCandidates = []string{
	"CLAUDE.md",
	".claude/CLAUDE.md",
	"AGENTS.md",
	"README.md",
	"CONTRIBUTING.md",
	"ARCHITECTURE.md",
}

var buildCandidates = []string{
	"go.mod",
	"package.json",
	"pyproject.toml",
	"Cargo.toml",
	"Makefile",
	"Dockerfile",
	"docker-compose.yml",
	".github/workflows",
}

var docsCandidates = []string{"docs", "doc", "adr", "docs/adr"}

// Scan surveys the project for knowledge files, build tooling, and config
// coverage. With asJSON the raw report is emitted for tooling.
func Scan(cwd string, asJSON bool, warn *warnings.List) (string, error) {
	report := buildScanReport(cwd, warn)

	if asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	lines := []string{"Project scan: " + report.Cwd}
	if report.GitRemote != "" {
		lines = append(lines, "  Git remote: "+report.GitRemote)
	} else {
		lines = append(lines, "  Git remote: (none)")
	}
	lines = append(lines, section("Knowledge files", report.KnowledgeFiles)...)
	lines = append(lines, section("Build tooling", report.BuildFiles)...)
	lines = append(lines, section("Docs directories", report.DocsDirs)...)
	lines = append(lines, "",
		fmt.Sprintf("  Config coverage: %d global sub(s), %d project sub(s), %d insert(s)",
			report.GlobalSubs, report.ProjectSubs, report.Inserts))
	if report.ProjectSubs == 0 && len(report.KnowledgeFiles) > 0 {
		lines = append(lines, "", "  No project subscriptions yet. Try: skill-bus add-insert")
	}
	return strings.Join(lines, "\n"), nil
}

func buildScanReport(cwd string, warn *warnings.List) ScanReport {
	report := ScanReport{Cwd: cwd}

	if remote, err := git.RemoteURL(cwd, "origin"); err == nil {
		report.GitRemote = remote
	}
	for _, name := range knowledgeCandidates {
		if fileExists(filepath.Join(cwd, name)) {
			report.KnowledgeFiles = append(report.KnowledgeFiles, name)
		}
	}
	for _, name := range buildCandidates {
		if pathExists(filepath.Join(cwd, name)) {
			report.BuildFiles = append(report.BuildFiles, name)
		}
	}
	for _, name := range docsCandidates {
		if dirExists(filepath.Join(cwd, name)) {
			report.DocsDirs = append(report.DocsDirs, name)
		}
	}

	global, project := loadConfigs(cwd, warn)
	if global != nil {
		report.GlobalSubs = len(global.Subscriptions)
	}
	if project != nil {
		report.ProjectSubs = len(project.Subscriptions)
	}
	for range mergedInsertNames(global, project) {
		report.Inserts++
	}
	return report
}

func mergedInsertNames(global, project *config.File) map[string]bool {
	names := map[string]bool{}
	if global != nil {
		for name := range global.Inserts {
			names[name] = true
		}
	}
	if project != nil {
		for name := range project.Inserts {
			names[name] = true
		}
	}
	return names
}

func section(title string, items []string) []string {
	if len(items) == 0 {
		return []string{fmt.Sprintf("  %s: (none)", title)}
	}
	return []string{fmt.Sprintf("  %s: %s", title, strings.Join(items, ", "))}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
