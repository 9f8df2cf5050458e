package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruminaider/skill-bus/internal/config"
	"github.com/ruminaider/skill-bus/internal/warnings"
)

// setupProject writes a project config and isolates the global scope.
func setupProject(t *testing.T, content string) string {
	t.Helper()
	cwd := t.TempDir()
	claudeDir := filepath.Join(cwd, ".claude")
	require.NoError(t, os.MkdirAll(claudeDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(claudeDir, "skill-bus.json"), []byte(content), 0644))
	t.Setenv("SKILL_BUS_GLOBAL_CONFIG", filepath.Join(t.TempDir(), "no-global.json"))
	return cwd
}

func TestFormatCondition(t *testing.T) {
	cases := []struct {
		cond config.Condition
		want string
	}{
		{config.Condition{"fileExists": "go.mod"}, `fileExists("go.mod")`},
		{config.Condition{"gitBranch": "main"}, `gitBranch("main")`},
		{config.Condition{"envSet": "CI"}, `envSet("CI")`},
		{config.Condition{"envEquals": map[string]any{"var": "ENV", "value": "prod"}}, `envEquals(ENV, "prod")`},
		{config.Condition{"fileContains": map[string]any{"file": "a.txt", "pattern": "x"}}, `fileContains("a.txt", "x")`},
		{config.Condition{"fileContains": map[string]any{"file": "a.txt", "pattern": `x\d`, "regex": true}}, `fileContains("a.txt", /x\d/)`},
		{config.Condition{"not": map[string]any{"envSet": "CI"}}, `not(envSet("CI"))`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatCondition(tc.cond))
	}
}

func TestFormatConditions(t *testing.T) {
	assert.Equal(t, "(none)", FormatConditions(nil))
	got := FormatConditions([]config.Condition{
		{"envSet": "CI"},
		{"fileExists": "go.mod"},
	})
	assert.Equal(t, `envSet("CI") AND fileExists("go.mod")`, got)
}

func TestSet_WritesKeyPreservingUnknownContent(t *testing.T) {
	cwd := setupProject(t, `{
		"settings": {"enabled": true},
		"futureKey": {"kept": true},
		"inserts": {"tdd": {"text": "x"}}
	}`)

	out, err := Set("maxMatchesPerSkill", "5", "project", cwd)
	require.NoError(t, err)
	assert.Contains(t, out, "Set maxMatchesPerSkill = 5")

	data, err := os.ReadFile(filepath.Join(cwd, ".claude", "skill-bus.json"))
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	settings := raw["settings"].(map[string]any)
	assert.Equal(t, float64(5), settings["maxMatchesPerSkill"])
	assert.Equal(t, true, settings["enabled"])
	assert.Contains(t, raw, "futureKey")
	assert.Contains(t, raw, "inserts")
}

func TestSet_CreatesMissingFile(t *testing.T) {
	cwd := t.TempDir()
	t.Setenv("SKILL_BUS_GLOBAL_CONFIG", filepath.Join(t.TempDir(), "no-global.json"))

	_, err := Set("telemetry", "true", "project", cwd)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(cwd, ".claude", "skill-bus.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"telemetry": true`)
}

func TestSet_UnknownKeyRejected(t *testing.T) {
	_, err := Set("nonsense", "1", "project", t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown setting "nonsense"`)
	assert.Contains(t, err.Error(), "maxMatchesPerSkill")
}

func TestSet_ValueValidation(t *testing.T) {
	cwd := t.TempDir()
	t.Setenv("SKILL_BUS_GLOBAL_CONFIG", filepath.Join(t.TempDir(), "no-global.json"))

	_, err := Set("enabled", "maybe", "project", cwd)
	assert.ErrorContains(t, err, "expects a boolean")

	_, err = Set("maxMatchesPerSkill", "zero", "project", cwd)
	assert.ErrorContains(t, err, "expects an integer")

	_, err = Set("maxMatchesPerSkill", "0", "project", cwd)
	assert.ErrorContains(t, err, "must be >= 1")
}

func TestSet_RefusesMalformedFile(t *testing.T) {
	cwd := setupProject(t, `{broken`)

	_, err := Set("enabled", "true", "project", cwd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to overwrite")
}

func TestAddInsert_CreateWithSubscription(t *testing.T) {
	cwd := t.TempDir()
	t.Setenv("SKILL_BUS_GLOBAL_CONFIG", filepath.Join(t.TempDir(), "no-global.json"))

	out, err := AddInsert(AddInsertOptions{
		Name:  "tdd",
		Text:  "Write the test first.",
		On:    "superpowers:*",
		Scope: "project",
		Cwd:   cwd,
	})
	require.NoError(t, err)
	assert.Contains(t, out, `Created insert "tdd"`)
	assert.Contains(t, out, "Subscribed: tdd -> superpowers:* [pre]")

	var warn warnings.List
	cfg := config.Load(filepath.Join(cwd, ".claude", "skill-bus.json"), &warn)
	require.NotNil(t, cfg)
	assert.Equal(t, "Write the test first.", cfg.Inserts["tdd"].Text)
	require.Len(t, cfg.Subscriptions, 1)
	assert.Equal(t, "superpowers:*", cfg.Subscriptions[0].On)
	assert.Equal(t, "", cfg.Subscriptions[0].When, "default pre timing stays implicit")
}

func TestAddInsert_DuplicateSubscriptionRejected(t *testing.T) {
	cwd := setupProject(t, `{
		"inserts": {"tdd": {"text": "x"}},
		"subscriptions": [{"insert": "tdd", "on": "superpowers:*"}]
	}`)

	_, err := AddInsert(AddInsertOptions{
		Name:  "tdd",
		Text:  "y",
		On:    "superpowers:*",
		Scope: "project",
		Cwd:   cwd,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "subscription already exists: tdd -> superpowers:* [pre]")
}

func TestAddInsert_UpdateExistingText(t *testing.T) {
	cwd := setupProject(t, `{"inserts": {"tdd": {"text": "old"}}}`)

	out, err := AddInsert(AddInsertOptions{Name: "tdd", Text: "new", Scope: "project", Cwd: cwd})

	require.NoError(t, err)
	assert.Contains(t, out, `Updated insert "tdd"`)
	var warn warnings.List
	cfg := config.Load(filepath.Join(cwd, ".claude", "skill-bus.json"), &warn)
	assert.Equal(t, "new", cfg.Inserts["tdd"].Text)
}

func TestAddInsert_DynamicAndValidation(t *testing.T) {
	cwd := t.TempDir()
	t.Setenv("SKILL_BUS_GLOBAL_CONFIG", filepath.Join(t.TempDir(), "no-global.json"))

	_, err := AddInsert(AddInsertOptions{Name: "x", Scope: "project", Cwd: cwd})
	assert.ErrorContains(t, err, "--text or --dynamic")

	_, err = AddInsert(AddInsertOptions{Name: "x", Text: "t", Dynamic: "d", Scope: "project", Cwd: cwd})
	assert.ErrorContains(t, err, "mutually exclusive")

	_, err = AddInsert(AddInsertOptions{Name: "x", Text: "t", When: "later", Scope: "project", Cwd: cwd})
	assert.ErrorContains(t, err, `invalid when "later"`)

	_, err = AddInsert(AddInsertOptions{Name: "stats", Dynamic: "session-stats", Scope: "project", Cwd: cwd})
	require.NoError(t, err)
	var warn warnings.List
	cfg := config.Load(filepath.Join(cwd, ".claude", "skill-bus.json"), &warn)
	assert.Equal(t, "session-stats", cfg.Inserts["stats"].Dynamic)
}

func TestList_ShowsSettingsAndGroups(t *testing.T) {
	cwd := setupProject(t, `{
		"settings": {"maxMatchesPerSkill": 2},
		"inserts": {
			"tdd": {"text": "x", "conditions": [{"fileExists": "go.mod"}]},
			"orphan": {"text": "y"}
		},
		"subscriptions": [{"insert": "tdd", "on": "superpowers:*", "conditions": [{"envSet": "CI"}]}]
	}`)
	var warn warnings.List

	out := List(cwd, &warn)

	assert.Contains(t, out, "Skill Bus Status:")
	assert.Contains(t, out, "Max matches per skill: 2")
	assert.Contains(t, out, "tdd:")
	assert.Contains(t, out, "-> superpowers:* [pre] (project)")
	assert.Contains(t, out, `insert conditions: fileExists("go.mod")`)
	assert.Contains(t, out, `effective: fileExists("go.mod") AND envSet("CI")`)
	assert.Contains(t, out, "Orphan inserts (no subscriptions): orphan")
}

func TestStatus_OneLiner(t *testing.T) {
	cwd := setupProject(t, `{
		"settings": {"telemetry": true},
		"inserts": {"tdd": {"text": "x"}},
		"subscriptions": [{"insert": "tdd", "on": "*"}]
	}`)
	var warn warnings.List

	out := Status(cwd, "1.0.0", &warn)

	assert.Contains(t, out, "Skill Bus v1.0.0: enabled")
	assert.Contains(t, out, "1 subs (0 global, 1 project)")
	assert.Contains(t, out, "1 inserts")
	assert.Contains(t, out, "prompt-monitor: off")
	assert.Contains(t, out, "telemetry: on")
}

func TestInserts_Listing(t *testing.T) {
	cwd := setupProject(t, `{
		"inserts": {
			"beta": {"text": "second insert text"},
			"alpha": {"text": "first insert text"}
		}
	}`)
	var warn warnings.List

	out := Inserts(cwd, "project", &warn)

	assert.Contains(t, out, "1. [Create new insert]")
	assert.Contains(t, out, "2. alpha")
	assert.Contains(t, out, "3. beta")
}

func TestInserts_EmptyScope(t *testing.T) {
	cwd := setupProject(t, `{}`)
	var warn warnings.List

	assert.Contains(t, Inserts(cwd, "project", &warn), "No inserts in project config.")
	assert.Contains(t, Inserts(cwd, "global", &warn), "No global config found.")
}

func TestScan_Report(t *testing.T) {
	cwd := setupProject(t, `{
		"inserts": {"tdd": {"text": "x"}},
		"subscriptions": [{"insert": "tdd", "on": "*"}]
	}`)
	require.NoError(t, os.WriteFile(filepath.Join(cwd, "CLAUDE.md"), []byte("# notes"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(cwd, "go.mod"), []byte("module x"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(cwd, "docs"), 0755))
	var warn warnings.List

	out, err := Scan(cwd, false, &warn)

	require.NoError(t, err)
	assert.Contains(t, out, "Knowledge files: CLAUDE.md")
	assert.Contains(t, out, "Build tooling: go.mod")
	assert.Contains(t, out, "Docs directories: docs")
	assert.Contains(t, out, "0 global sub(s), 1 project sub(s), 1 insert(s)")
}

func TestScan_JSONMode(t *testing.T) {
	cwd := setupProject(t, `{}`)
	var warn warnings.List

	out, err := Scan(cwd, true, &warn)

	require.NoError(t, err)
	var report ScanReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, cwd, report.Cwd)
}

func TestStats_TelemetryOff(t *testing.T) {
	cwd := setupProject(t, `{}`)
	var warn warnings.List

	out := Stats(cwd, StatsOptions{}, &warn)

	assert.Contains(t, out, "Telemetry is off")
}

func TestStats_Summary(t *testing.T) {
	cwd := setupProject(t, `{"settings": {"telemetry": true}}`)
	logPath := filepath.Join(cwd, ".claude", "skill-bus-telemetry.jsonl")
	content := `{"event":"match","sessionId":"s1","skill":"deploy:run","insert":"tdd"}
{"event":"match","sessionId":"s1","skill":"deploy:run","insert":"tdd"}
{"event":"condition_skip","sessionId":"s2","skill":"deploy:run","insert":"guarded"}
{"event":"no_match","sessionId":"s2","skill":"lint:fix"}
{"event":"no_match","sessionId":"s2","skill":"lint:fix"}
{"event":"no_match","sessionId":"s2","skill":"lint:fix"}
`
	require.NoError(t, os.WriteFile(logPath, []byte(content), 0644))
	var warn warnings.List

	out := Stats(cwd, StatsOptions{}, &warn)

	assert.Contains(t, out, "6 events across 2 session(s)")
	assert.Contains(t, out, "2x tdd -> deploy:run")
	assert.Contains(t, out, "1x guarded -> deploy:run")
	assert.Contains(t, out, "3x lint:fix")
	assert.Contains(t, out, "Consider subscribing to: lint:fix")
}

func TestSimulate_ConditionBreakdown(t *testing.T) {
	cwd := setupProject(t, `{
		"inserts": {"guarded": {"text": "some insert text here", "conditions": [{"fileExists": "go.mod"}]}},
		"subscriptions": [{"insert": "guarded", "on": "deploy:*"}]
	}`)
	require.NoError(t, os.WriteFile(filepath.Join(cwd, "go.mod"), []byte("module x"), 0644))
	var warn warnings.List

	out := Simulate("deploy:run", "pre", cwd, &warn)

	assert.Contains(t, out, "Simulating: deploy:run (pre)")
	assert.Contains(t, out, `insert: fileExists("go.mod") ✓`)
	assert.Contains(t, out, "-> fires")
}

func TestSimulate_FailedConditionShortCircuits(t *testing.T) {
	cwd := setupProject(t, `{
		"inserts": {"guarded": {"text": "x"}},
		"subscriptions": [{
			"insert": "guarded", "on": "deploy:*",
			"conditions": [{"fileExists": "missing.file"}, {"envSet": "NEVER_SET_VAR"}]
		}]
	}`)
	var warn warnings.List

	out := Simulate("deploy:run", "pre", cwd, &warn)

	assert.Contains(t, out, `sub: fileExists("missing.file") ✗`)
	assert.Contains(t, out, "short-circuit")
	assert.NotContains(t, out, "NEVER_SET_VAR")
	assert.Contains(t, out, "-> skipped (conditions not met)")
}

func TestSimulate_NoMatches(t *testing.T) {
	cwd := setupProject(t, `{}`)
	var warn warnings.List

	out := Simulate("ghost:skill", "pre", cwd, &warn)

	assert.Contains(t, out, "No subscriptions match 'ghost:skill' [pre]")
}
