// Package match filters the merged subscription list for one skill event:
// timing gate, glob pattern, then stacked conditions with short-circuit AND.
// Matches accumulate up to maxMatchesPerSkill while the total keeps counting
// so truncation can be reported.
package match

import (
	"fmt"
	"os"
	"strings"

	"github.com/ruminaider/skill-bus/internal/conditions"
	"github.com/ruminaider/skill-bus/internal/config"
	"github.com/ruminaider/skill-bus/internal/glob"
	"github.com/ruminaider/skill-bus/internal/telemetry"
	"github.com/ruminaider/skill-bus/internal/warnings"
)

// Matcher holds the per-dispatch collaborators. Telemetry may be nil.
type Matcher struct {
	Settings  config.Settings
	Inserts   map[string]config.Insert
	Eval      *conditions.Evaluator
	Warn      *warnings.List
	Telemetry *telemetry.Logger
}

// Result is the outcome of one matching pass.
type Result struct {
	Matched []config.Subscription
	Total   int
	// TruncationNote is the cap warning text when Total exceeded the cap,
	// kept for in-band embedding in the assembled context.
	TruncationNote string
}

// Truncated reports whether matches were dropped at the cap.
func (r Result) Truncated() bool {
	return r.TruncationNote != ""
}

func validTiming(when string) bool {
	return when == "pre" || when == "post" || when == "complete"
}

func insertName(sub config.Subscription) string {
	if sub.Insert == "" {
		return "unnamed"
	}
	return sub.Insert
}

// Match runs tool-mode matching: the subscription timing must equal the
// requested timing, and the pattern is globbed against the skill name as
// given.
func (m *Matcher) Match(skill, timing string, subs []config.Subscription, cwd string) Result {
	var res Result
	var skips []string

	for _, sub := range subs {
		when := sub.EffectiveWhen()
		if !validTiming(when) {
			m.Warn.Addf("[skill-bus] WARNING: subscription '%s' has invalid 'when' value: %q. Use 'pre', 'post', or 'complete'.",
				insertName(sub), when)
			continue
		}
		if when != timing {
			continue
		}
		if !glob.Match(sub.On, skill) {
			continue
		}
		if !m.passConditions(sub, skill, cwd, "tool", &skips) {
			continue
		}
		res.Total++
		if len(res.Matched) < m.Settings.MaxMatchesPerSkill {
			res.Matched = append(res.Matched, sub)
		}
	}

	m.finish(&res, skips)
	return res
}

// MatchPrompt runs prompt-mode matching for slash commands. Only pre-timed
// subscriptions participate. Command names without a namespace prefix match
// a namespaced pattern by its suffix after the colon, except catch-all
// suffixes (* or **), which would otherwise fire on every unprefixed
// command.
func (m *Matcher) MatchPrompt(cmd string, subs []config.Subscription, cwd string) Result {
	var res Result
	var skips []string

	hasPrefix := strings.Contains(cmd, ":")

	for _, sub := range subs {
		if sub.EffectiveWhen() != "pre" {
			continue
		}
		if !promptPatternMatch(cmd, sub.On, hasPrefix) {
			continue
		}
		if !m.passConditions(sub, cmd, cwd, "prompt", &skips) {
			continue
		}
		res.Total++
		if len(res.Matched) < m.Settings.MaxMatchesPerSkill {
			res.Matched = append(res.Matched, sub)
		}
	}

	m.finish(&res, skips)
	return res
}

func promptPatternMatch(cmd, pattern string, hasPrefix bool) bool {
	if hasPrefix {
		return glob.Match(pattern, cmd)
	}
	if colon := strings.Index(pattern, ":"); colon >= 0 {
		suffix := pattern[colon+1:]
		if suffix == "*" || suffix == "**" {
			return false
		}
		return glob.Match(suffix, cmd)
	}
	return glob.Match(pattern, cmd)
}

// passConditions resolves and evaluates the subscription's effective
// condition list. A failing (or unevaluable) list records a condition_skip
// telemetry event and adds the insert to the skip summary.
func (m *Matcher) passConditions(sub config.Subscription, skill, cwd, source string, skips *[]string) bool {
	effective := conditions.Effective(sub, m.Inserts)
	if len(effective) == 0 {
		return true
	}

	name := insertName(sub)
	if cwd == "" {
		m.Warn.Add("[skill-bus] WARNING: conditions present but no CWD, skipping subscription")
		m.logSkip(skill, name, sub.On, source)
		*skips = append(*skips, name)
		return false
	}
	if !m.Eval.EvalAll(effective, cwd) {
		m.logSkip(skill, name, sub.On, source)
		*skips = append(*skips, name)
		return false
	}
	return true
}

func (m *Matcher) logSkip(skill, insert, pattern, source string) {
	fields := map[string]any{
		"skill":   skill,
		"insert":  insert,
		"pattern": pattern,
	}
	if source == "prompt" {
		fields["source"] = source
	}
	m.Telemetry.Log(telemetry.EventConditionSkip, fields)
}

func (m *Matcher) finish(res *Result, skips []string) {
	max := m.Settings.MaxMatchesPerSkill
	if res.Total > max {
		res.TruncationNote = fmt.Sprintf("[skill-bus] %d subs matched but maxMatchesPerSkill=%d, showing first %d",
			res.Total, max, max)
		m.Warn.Add(res.TruncationNote)
	}

	showSkips := m.Settings.ShowConditionSkips || os.Getenv("SKILL_BUS_DEBUG") == "1"
	if len(skips) > 0 && showSkips {
		m.Warn.Addf("[skill-bus] conditions not met, skipped: %s", strings.Join(skips, ", "))
	}
}
