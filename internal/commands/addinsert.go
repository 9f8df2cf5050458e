package commands

import (
	"encoding/json"
	"fmt"
)

// AddInsertOptions describes one insert-plus-subscription write.
type AddInsertOptions struct {
	Name           string
	Text           string
	Dynamic        string // handler name, mutually exclusive with Text
	ConditionsJSON string // JSON array of condition objects
	On             string
	When           string
	Scope          string
	Cwd            string
}

// AddInsert creates or updates an insert and, when a pattern is given,
// a subscription pointing at it. Duplicate subscriptions (same insert,
// on, when) are rejected so the dispatcher's dedup never has to fire on
// config this tool wrote.
func AddInsert(opts AddInsertOptions) (string, error) {
	if opts.Name == "" {
		return "", fmt.Errorf("insert name is required")
	}
	if opts.Text == "" && opts.Dynamic == "" {
		return "", fmt.Errorf("insert needs --text or --dynamic")
	}
	if opts.Text != "" && opts.Dynamic != "" {
		return "", fmt.Errorf("--text and --dynamic are mutually exclusive")
	}
	when := opts.When
	if when == "" {
		when = "pre"
	}
	if when != "pre" && when != "post" && when != "complete" {
		return "", fmt.Errorf("invalid when %q. Use 'pre', 'post', or 'complete'", when)
	}

	var conds []any
	if opts.ConditionsJSON != "" {
		if err := json.Unmarshal([]byte(opts.ConditionsJSON), &conds); err != nil {
			return "", fmt.Errorf("--conditions must be a JSON array: %w", err)
		}
	}

	path := configPathFor(opts.Scope, opts.Cwd)
	raw, err := readRawConfig(path)
	if err != nil {
		return "", err
	}

	inserts, ok := raw["inserts"].(map[string]any)
	if !ok {
		inserts = map[string]any{}
		raw["inserts"] = inserts
	}
	_, existed := inserts[opts.Name]
	entry, ok := inserts[opts.Name].(map[string]any)
	if !ok {
		entry = map[string]any{}
		inserts[opts.Name] = entry
	}
	if opts.Dynamic != "" {
		entry["dynamic"] = opts.Dynamic
		delete(entry, "text")
	} else {
		entry["text"] = opts.Text
		delete(entry, "dynamic")
	}
	if conds != nil {
		entry["conditions"] = conds
	}

	action := "Created"
	if existed {
		action = "Updated"
	}
	result := fmt.Sprintf("%s insert %q (%s scope, %s)", action, opts.Name, opts.Scope, path)

	if opts.On != "" {
		subs, _ := raw["subscriptions"].([]any)
		for _, s := range subs {
			sub, ok := s.(map[string]any)
			if !ok {
				continue
			}
			if str(sub["insert"]) == opts.Name && str(sub["on"]) == opts.On && effectiveWhenRaw(sub) == when {
				return "", fmt.Errorf("subscription already exists: %s -> %s [%s]", opts.Name, opts.On, when)
			}
		}
		newSub := map[string]any{"insert": opts.Name, "on": opts.On}
		if when != "pre" {
			newSub["when"] = when
		}
		raw["subscriptions"] = append(subs, newSub)
		result += fmt.Sprintf("\nSubscribed: %s -> %s [%s]", opts.Name, opts.On, when)
	}

	if err := writeRawConfig(path, raw); err != nil {
		return "", err
	}
	return result, nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func effectiveWhenRaw(sub map[string]any) string {
	if w := str(sub["when"]); w != "" {
		return w
	}
	return "pre"
}
