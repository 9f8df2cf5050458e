// Package config defines the skill-bus config file schema and loads the two
// config scopes. Config files are JSON; the schema is shared by the global
// file (~/.claude/skill-bus.json) and the project file
// (<cwd>/.claude/skill-bus.json).
package config

import (
	"encoding/json"
	"os"

	"github.com/ruminaider/skill-bus/internal/paths"
	"github.com/ruminaider/skill-bus/internal/warnings"
)

// Condition is a predicate evaluated at dispatch time. It is a mapping with
// exactly one key naming the kind (fileExists, gitBranch, envSet, envEquals,
// fileContains, not) paired with that kind's argument.
type Condition map[string]any

// Kind returns the condition's sole key and argument. ok is false when the
// mapping does not have exactly one key.
func (c Condition) Kind() (kind string, arg any, ok bool) {
	if len(c) != 1 {
		return "", nil, false
	}
	for k, v := range c {
		return k, v, true
	}
	return "", nil, false
}

// Insert is a named chunk of injectable text. Text may be empty when Dynamic
// names a registered handler that produces the text at dispatch time.
type Insert struct {
	Text       string      `json:"text,omitempty"`
	Conditions []Condition `json:"conditions,omitempty"`
	Dynamic    string      `json:"dynamic,omitempty"`
}

// Subscription ties a skill-name glob pattern to an insert at a lifecycle
// timing. A project-scope subscription with Enabled=false acts as an
// override directive suppressing matching global subscriptions.
type Subscription struct {
	Insert            string      `json:"insert,omitempty"`
	On                string      `json:"on,omitempty"`
	When              string      `json:"when,omitempty"`
	Enabled           *bool       `json:"enabled,omitempty"`
	Conditions        []Condition `json:"conditions,omitempty"`
	InheritConditions *bool       `json:"inheritConditions,omitempty"`

	// Inject is the pre-insert config format. Subscriptions still carrying
	// it are filtered out with a migration warning.
	Inject string `json:"inject,omitempty"`
}

// IsEnabled returns the enabled flag, defaulting to true.
func (s Subscription) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// EffectiveWhen returns the timing, defaulting to "pre".
func (s Subscription) EffectiveWhen() string {
	if s.When == "" {
		return "pre"
	}
	return s.When
}

// InheritsConditions reports whether insert-level conditions apply,
// defaulting to true.
func (s Subscription) InheritsConditions() bool {
	return s.InheritConditions == nil || *s.InheritConditions
}

// Key identifies a subscription for override matching and dedup.
type Key struct {
	Insert string
	On     string
	When   string
}

// Key returns the (insert, on, when) identity with the timing defaulted.
func (s Subscription) Key() Key {
	return Key{Insert: s.Insert, On: s.On, When: s.EffectiveWhen()}
}

// File is one parsed config scope.
type File struct {
	Settings      map[string]any    `json:"settings,omitempty"`
	Inserts       map[string]Insert `json:"inserts,omitempty"`
	Subscriptions []Subscription    `json:"subscriptions,omitempty"`
}

// Load reads a config scope. A missing file yields nil with no warning;
// malformed JSON yields nil plus a warning naming the path as configured
// (unexpanded), so the user can find the file to fix.
func Load(path string, warn *warnings.List) *File {
	expanded := paths.ExpandUser(path)
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		warn.Addf("[skill-bus] WARNING - %s has invalid JSON (%v). Fix to restore subscriptions.", path, err)
		return nil
	}
	return &f
}
