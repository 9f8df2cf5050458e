package commands

import (
	"fmt"
	"strings"

	"github.com/ruminaider/skill-bus/internal/conditions"
	"github.com/ruminaider/skill-bus/internal/config"
	"github.com/ruminaider/skill-bus/internal/glob"
	"github.com/ruminaider/skill-bus/internal/subscriptions"
	"github.com/ruminaider/skill-bus/internal/warnings"
)

// Simulate renders per-condition pass/fail for every subscription matching
// the skill and timing, with short-circuit annotations, without producing
// any output document.
func Simulate(skill, timing, cwd string, warn *warnings.List) string {
	global, project := loadConfigs(cwd, warn)
	settings := config.MergeSettings(global, project, warn)
	merged := subscriptions.Merge(global, project, settings, warn)
	inserts := subscriptions.MergeInserts(global, project, warn)
	eval := conditions.New(warn)

	lines := []string{fmt.Sprintf("Simulating: %s (%s) in %s", skill, timing, cwd), ""}

	matchedAny := false
	for _, m := range merged {
		sub := m.Subscription
		if sub.EffectiveWhen() != timing {
			continue
		}
		if !glob.Match(sub.On, skill) {
			continue
		}

		matchedAny = true
		name := insertOrUnnamed(sub.Insert)
		insertDef, hasInsert := inserts[sub.Insert]
		var insertConds []config.Condition
		if hasInsert {
			insertConds = insertDef.Conditions
		}
		optOut := !sub.InheritsConditions()

		lines = append(lines, fmt.Sprintf("  %s -> %s [%s]:", name, sub.On, timing))
		allPass := true

		if len(insertConds) > 0 && !optOut {
			for _, cond := range insertConds {
				result := eval.Eval(cond, cwd)
				for _, w := range warn.Drain() {
					lines = append(lines, "    WARNING: "+w)
				}
				lines = append(lines, fmt.Sprintf("    insert: %s %s%s", FormatCondition(cond), mark(result), liveValue(eval, cond, cwd)))
				if !result {
					allPass = false
					lines = append(lines, "    (short-circuit: insert condition failed, sub conditions not evaluated)")
					break
				}
			}
		} else if optOut && len(insertConds) > 0 {
			lines = append(lines, "    insert: (opted out with inheritConditions: false)")
		}

		if allPass {
			for _, cond := range sub.Conditions {
				result := eval.Eval(cond, cwd)
				for _, w := range warn.Drain() {
					lines = append(lines, "    WARNING: "+w)
				}
				lines = append(lines, fmt.Sprintf("    sub: %s %s%s", FormatCondition(cond), mark(result), liveValue(eval, cond, cwd)))
				if !result {
					allPass = false
					lines = append(lines, "    (short-circuit: sub condition failed, remaining not evaluated)")
					break
				}
			}
		}

		if allPass {
			lines = append(lines, fmt.Sprintf("    -> fires (~%d tokens)", len(insertDef.Text)/4))
		} else {
			lines = append(lines, "    -> skipped (conditions not met)")
		}
		lines = append(lines, "")
	}

	if !matchedAny {
		lines = append(lines, fmt.Sprintf("  No subscriptions match '%s' [%s]", skill, timing))
	}
	return strings.Join(lines, "\n")
}

func mark(pass bool) string {
	if pass {
		return "✓"
	}
	return "✗"
}

// liveValue annotates a condition with its live environment value, currently
// the checked-out branch for gitBranch conditions.
func liveValue(eval *conditions.Evaluator, cond config.Condition, cwd string) string {
	kind, arg, ok := cond.Kind()
	if !ok {
		return ""
	}
	switch kind {
	case "gitBranch":
		branch, found := eval.Branch(cwd)
		if !found || branch == "" {
			return " (not in git repo)"
		}
		return fmt.Sprintf(" (current: %s)", branch)
	case "not":
		if inner, ok := arg.(map[string]any); ok {
			return liveValue(eval, config.Condition(inner), cwd)
		}
	}
	return ""
}
