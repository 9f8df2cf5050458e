package subscriptions

import (
	"sort"

	"github.com/ruminaider/skill-bus/internal/config"
)

// DetectOverrides extracts the project scope's override directives without
// merging. The list display uses this to show global subscriptions that the
// merge filtered out.
func DetectOverrides(project *config.File) (specific map[config.Key]bool, broad map[string]bool) {
	if project == nil {
		return map[config.Key]bool{}, map[string]bool{}
	}
	return partitionOverrides(project.Subscriptions)
}

// OverriddenGlobals returns the global subscriptions suppressed by the given
// override directives, in their original order.
func OverriddenGlobals(global *config.File, specific map[config.Key]bool, broad map[string]bool) []config.Subscription {
	if global == nil {
		return nil
	}
	var overridden []config.Subscription
	for _, s := range global.Subscriptions {
		if broad[s.Insert] || specific[s.Key()] {
			overridden = append(overridden, s)
		}
	}
	return overridden
}

// OrphanInserts returns insert names no subscription references, including
// overridden ones, sorted for stable display.
func OrphanInserts(inserts map[string]config.Insert, merged []Merged, overridden []config.Subscription) []string {
	referenced := map[string]bool{}
	for _, m := range merged {
		referenced[m.Insert] = true
	}
	for _, s := range overridden {
		referenced[s.Insert] = true
	}
	var orphans []string
	for name := range inserts {
		if !referenced[name] {
			orphans = append(orphans, name)
		}
	}
	sort.Strings(orphans)
	return orphans
}
