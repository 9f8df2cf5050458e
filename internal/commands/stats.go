package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ruminaider/skill-bus/internal/config"
	"github.com/ruminaider/skill-bus/internal/telemetry"
	"github.com/ruminaider/skill-bus/internal/warnings"
)

// StatsOptions filter the telemetry window the report covers.
type StatsOptions struct {
	Days    int
	Session string
}

// Stats summarizes the telemetry log: match counts per subscription,
// condition skips, uncovered skills, and coverage suggestions for skills
// that keep firing with no subscription.
func Stats(cwd string, opts StatsOptions, warn *warnings.List) string {
	global, project := loadConfigs(cwd, warn)
	settings := config.MergeSettings(global, project, warn)

	if !settings.Telemetry {
		return "Telemetry is off. Enable it with: skill-bus set telemetry true"
	}

	events := telemetry.Read(cwd, settings, telemetry.ReadOptions{
		Session: opts.Session,
		Days:    opts.Days,
	})
	if len(events) == 0 {
		return fmt.Sprintf("No telemetry events found (%s).", telemetry.Path(cwd, settings))
	}

	matches := map[string]int{}
	skips := map[string]int{}
	noMatch := map[string]int{}
	completes := 0
	sessions := map[string]bool{}

	for _, e := range events {
		if sid, ok := e["sessionId"].(string); ok {
			sessions[sid] = true
		}
		skill, _ := e["skill"].(string)
		switch e["event"] {
		case telemetry.EventMatch:
			insert, _ := e["insert"].(string)
			matches[fmt.Sprintf("%s -> %s", insertOrUnnamed(insert), skill)]++
		case telemetry.EventConditionSkip:
			insert, _ := e["insert"].(string)
			skips[fmt.Sprintf("%s -> %s", insertOrUnnamed(insert), skill)]++
		case telemetry.EventNoMatch:
			noMatch[skill]++
		case telemetry.EventSkillComplete:
			completes++
		}
	}

	scope := "all time"
	if opts.Days > 0 {
		scope = fmt.Sprintf("last %d day(s)", opts.Days)
	}
	if opts.Session != "" {
		scope += ", session " + opts.Session
	}

	lines := []string{
		fmt.Sprintf("Skill Bus telemetry (%s): %d events across %d session(s)", scope, len(events), len(sessions)),
		"",
	}

	if len(matches) > 0 {
		lines = append(lines, "Matches:")
		for _, kv := range sortedCounts(matches) {
			lines = append(lines, fmt.Sprintf("  %4dx %s", kv.n, kv.key))
		}
		lines = append(lines, "")
	}
	if len(skips) > 0 {
		lines = append(lines, "Condition skips:")
		for _, kv := range sortedCounts(skips) {
			lines = append(lines, fmt.Sprintf("  %4dx %s", kv.n, kv.key))
		}
		lines = append(lines, "")
	}
	if completes > 0 {
		lines = append(lines, fmt.Sprintf("Completion triggers fired: %d", completes), "")
	}
	if len(noMatch) > 0 {
		lines = append(lines, "Skills with no subscription coverage:")
		var suggestions []string
		for _, kv := range sortedCounts(noMatch) {
			lines = append(lines, fmt.Sprintf("  %4dx %s", kv.n, kv.key))
			if kv.n >= 3 {
				suggestions = append(suggestions, kv.key)
			}
		}
		if len(suggestions) > 0 {
			lines = append(lines, "", "Consider subscribing to: "+strings.Join(suggestions, ", "))
		}
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

type countEntry struct {
	key string
	n   int
}

// sortedCounts orders entries by descending count, name ascending on ties.
func sortedCounts(m map[string]int) []countEntry {
	entries := make([]countEntry, 0, len(m))
	for k, n := range m {
		entries = append(entries, countEntry{k, n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].n != entries[j].n {
			return entries[i].n > entries[j].n
		}
		return entries[i].key < entries[j].key
	})
	return entries
}
