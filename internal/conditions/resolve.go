package conditions

import "github.com/ruminaider/skill-bus/internal/config"

// Effective produces the ordered condition list a subscription must pass:
// insert-level conditions first (unless the subscription opts out with
// inheritConditions: false), then the subscription's own conditions. A
// dangling insert reference contributes no conditions; the reference itself
// is reported at output time.
func Effective(sub config.Subscription, inserts map[string]config.Insert) []config.Condition {
	var effective []config.Condition

	if sub.InheritsConditions() && inserts != nil {
		if insert, ok := inserts[sub.Insert]; ok {
			effective = append(effective, insert.Conditions...)
		}
	}

	effective = append(effective, sub.Conditions...)
	return effective
}
