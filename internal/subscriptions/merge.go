// Package subscriptions merges the global and project config scopes into the
// ordered subscription list one dispatch operates on. Project entries
// override global entries: directly (enabled:false directives) and on
// (insert, on, when) collisions.
package subscriptions

import (
	"sort"

	"github.com/ruminaider/skill-bus/internal/config"
	"github.com/ruminaider/skill-bus/internal/warnings"
)

// Scope names the config layer a merged subscription came from.
const (
	ScopeGlobal  = "global"
	ScopeProject = "project"
)

// Merged is a subscription tagged with its origin scope. The tag exists for
// display code; Strip removes it before the subscription list leaves the
// merge layer, so the canonical representation never carries it.
type Merged struct {
	config.Subscription
	Scope string
}

// Strip returns the bare subscriptions without scope tags, in merge order.
func Strip(merged []Merged) []config.Subscription {
	subs := make([]config.Subscription, len(merged))
	for i, m := range merged {
		subs[i] = m.Subscription
	}
	return subs
}

// MergeInserts merges the insert maps, project winning on name collisions.
// Collisions emit an informational warning in sorted-name order so repeated
// merges produce identical warning lists.
func MergeInserts(global, project *config.File, warn *warnings.List) map[string]config.Insert {
	merged := map[string]config.Insert{}
	if global != nil {
		for name, insert := range global.Inserts {
			merged[name] = insert
		}
	}
	if project == nil {
		return merged
	}

	var collisions []string
	for name := range project.Inserts {
		if _, ok := merged[name]; ok {
			collisions = append(collisions, name)
		}
	}
	sort.Strings(collisions)
	for _, name := range collisions {
		warn.Addf("[skill-bus] INFO: insert '%s' defined in both scopes - using project version", name)
	}

	for name, insert := range project.Inserts {
		merged[name] = insert
	}
	return merged
}

// Merge produces the effective subscription list: global entries filtered by
// project override directives, then active project entries, deduplicated by
// (insert, on, when) with the later (project) occurrence winning while the
// surviving entries keep their original order. A disabled master switch
// yields an empty list.
func Merge(global, project *config.File, settings config.Settings, warn *warnings.List) []Merged {
	if !settings.Enabled {
		return nil
	}

	var globalSubs []config.Subscription
	if global != nil && !settings.DisableGlobal {
		globalSubs = global.Subscriptions
	}
	var projectSubs []config.Subscription
	if project != nil {
		projectSubs = project.Subscriptions
	}

	specific, broad := partitionOverrides(projectSubs)

	var tagged []Merged
	for _, s := range globalSubs {
		if !s.IsEnabled() {
			continue
		}
		if broad[s.Insert] {
			continue
		}
		if specific[s.Key()] {
			continue
		}
		tagged = append(tagged, Merged{Subscription: s, Scope: ScopeGlobal})
	}
	for _, s := range projectSubs {
		if !s.IsEnabled() {
			continue
		}
		tagged = append(tagged, Merged{Subscription: s, Scope: ScopeProject})
	}

	return dedup(tagged, warn)
}

// partitionOverrides extracts the override directives from the project
// subscriptions: enabled:false entries carrying an insert name. With on and
// when they disable one specific (insert, on, when) triple; without, they
// broadly disable every subscription referencing the insert. A disabled
// entry without an insert is a self-disabled subscription and is skipped
// silently.
func partitionOverrides(projectSubs []config.Subscription) (specific map[config.Key]bool, broad map[string]bool) {
	specific = map[config.Key]bool{}
	broad = map[string]bool{}
	for _, s := range projectSubs {
		if s.IsEnabled() || s.Insert == "" {
			continue
		}
		if s.On != "" && s.When != "" {
			specific[config.Key{Insert: s.Insert, On: s.On, When: s.When}] = true
		} else {
			broad[s.Insert] = true
		}
	}
	return specific, broad
}

// dedup keeps the later occurrence per key while preserving the original
// order of the survivors: scan in reverse appending first-seen entries, then
// reverse the result.
func dedup(tagged []Merged, warn *warnings.List) []Merged {
	seen := map[config.Key]string{}
	var kept []Merged
	for i := len(tagged) - 1; i >= 0; i-- {
		m := tagged[i]
		key := m.Key()
		winner, dup := seen[key]
		if !dup {
			seen[key] = m.Scope
			kept = append(kept, m)
			continue
		}
		if winner == m.Scope {
			warn.Addf("[skill-bus] WARNING: duplicate subscription (%s -> %s [%s]) in %s scope - deduplicating",
				key.Insert, key.On, key.When, m.Scope)
		} else {
			warn.Addf("[skill-bus] WARNING: duplicate subscription (%s -> %s [%s]) - using %s version",
				key.Insert, key.On, key.When, winner)
		}
	}
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept
}
