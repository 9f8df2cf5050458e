package dispatch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ruminaider/skill-bus/internal/config"
	"github.com/ruminaider/skill-bus/internal/telemetry"
)

// Handler produces dynamic insert text. An empty result means the insert's
// static text is used. Handlers run once per surviving insert per dispatch.
type Handler func(cwd string, settings config.Settings) (string, error)

// handlers is populated at startup (init and RegisterHandler calls) and
// read-only during dispatch.
var handlers = map[string]Handler{}

// RegisterHandler registers a dynamic insert handler by name. Call before
// the first dispatch; the registry is not synchronized.
func RegisterHandler(name string, h Handler) {
	handlers[name] = h
}

// invokeHandler calls a handler, converting a panic into an error so a
// misbehaving handler degrades to a warning plus static text.
func invokeHandler(h Handler, cwd string, settings config.Settings) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h(cwd, settings)
}

func init() {
	RegisterHandler("session-stats", sessionStats)
}

// sessionStats summarizes the telemetry log for injection into completion
// skills: match counts, condition skips per insert, and skills that keep
// running with no subscription coverage.
func sessionStats(cwd string, settings config.Settings) (string, error) {
	events := telemetry.Read(cwd, settings, telemetry.ReadOptions{})
	if len(events) == 0 {
		return "", nil
	}

	var matches, skips, noMatch []telemetry.Event
	for _, e := range events {
		switch e["event"] {
		case telemetry.EventMatch:
			matches = append(matches, e)
		case telemetry.EventConditionSkip:
			skips = append(skips, e)
		case telemetry.EventNoMatch:
			noMatch = append(noMatch, e)
		}
	}

	matchedSkills := map[string]bool{}
	for _, m := range matches {
		matchedSkills[str(m, "skill")] = true
	}

	lines := []string{
		"[skill-bus session summary]",
		fmt.Sprintf("Skills intercepted: %d | Inserts injected: %d", len(matchedSkills), len(matches)),
	}

	if len(skips) > 0 {
		counts := map[string]int{}
		for _, s := range skips {
			counts[str(s, "insert")]++
		}
		var parts []string
		for _, insert := range sortedKeys(counts) {
			parts = append(parts, fmt.Sprintf("%s (%dx)", insert, counts[insert]))
		}
		lines = append(lines, fmt.Sprintf("Condition skips: %s", strings.Join(parts, ", ")))
	}

	if len(noMatch) > 0 {
		counts := map[string]int{}
		for _, n := range noMatch {
			counts[str(n, "skill")]++
		}
		var gaps []string
		for _, skill := range sortedKeys(counts) {
			if counts[skill] >= 3 {
				gaps = append(gaps, skill)
			}
		}
		sort.Slice(gaps, func(i, j int) bool {
			if counts[gaps[i]] != counts[gaps[j]] {
				return counts[gaps[i]] > counts[gaps[j]]
			}
			return gaps[i] < gaps[j]
		})
		if len(gaps) > 0 {
			lines = append(lines, "Gaps:")
			for _, skill := range gaps {
				lines = append(lines, fmt.Sprintf("  %s ran %dx with no subscriptions", skill, counts[skill]))
				lines = append(lines, fmt.Sprintf("  Suggestion: add a subscription for %s", skill))
			}
		}
	}

	return strings.Join(lines, "\n"), nil
}

func str(e telemetry.Event, key string) string {
	if v, ok := e[key].(string); ok && v != "" {
		return v
	}
	return "?"
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
