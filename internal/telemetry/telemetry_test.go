package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruminaider/skill-bus/internal/config"
)

func telemetrySettings() config.Settings {
	s := config.Defaults()
	s.Telemetry = true
	return s
}

func TestPath_Default(t *testing.T) {
	got := Path("/work", config.Defaults())

	assert.Equal(t, filepath.Join("/work", ".claude", "skill-bus-telemetry.jsonl"), got)
}

func TestPath_SettingOverride(t *testing.T) {
	s := config.Defaults()
	s.TelemetryPath = "logs/bus.jsonl"
	assert.Equal(t, filepath.Join("/work", "logs", "bus.jsonl"), Path("/work", s))

	s.TelemetryPath = "/var/log/bus.jsonl"
	assert.Equal(t, "/var/log/bus.jsonl", Path("/work", s))
}

func TestNew_NilWhenDisabled(t *testing.T) {
	assert.Nil(t, New("/work", config.Defaults()))
	assert.NotNil(t, New("/work", telemetrySettings()))
}

func TestLog_NilLoggerIsNoop(t *testing.T) {
	var l *Logger
	l.Log(EventMatch, map[string]any{"skill": "x"})
}

func TestLogAndRead(t *testing.T) {
	dir := t.TempDir()
	settings := telemetrySettings()
	l := New(dir, settings)

	l.Log(EventMatch, map[string]any{"skill": "deploy:run", "insert": "tdd"})
	l.Log(EventNoMatch, map[string]any{"skill": "other:thing"})

	events := Read(dir, settings, ReadOptions{})
	require.Len(t, events, 2)
	assert.Equal(t, EventMatch, events[0]["event"])
	assert.Equal(t, "deploy:run", events[0]["skill"])
	assert.NotEmpty(t, events[0]["ts"])
	assert.NotEmpty(t, events[0]["sessionId"])
	assert.Equal(t, EventNoMatch, events[1]["event"])
}

func TestRead_SkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	settings := telemetrySettings()
	path := Path(dir, settings)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	content := `{"event":"match","skill":"a"}
not json at all
{"event":"no_match","skill":"b"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	events := Read(dir, settings, ReadOptions{})

	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0]["skill"])
	assert.Equal(t, "b", events[1]["skill"])
}

func TestRead_SessionFilter(t *testing.T) {
	dir := t.TempDir()
	settings := telemetrySettings()
	path := Path(dir, settings)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	content := `{"event":"match","sessionId":"aaaa1111"}
{"event":"match","sessionId":"bbbb2222"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	events := Read(dir, settings, ReadOptions{Session: "aaaa1111"})

	require.Len(t, events, 1)
	assert.Equal(t, "aaaa1111", events[0]["sessionId"])
}

func TestRead_DaysFilter(t *testing.T) {
	dir := t.TempDir()
	settings := telemetrySettings()
	path := Path(dir, settings)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	content := `{"event":"match","ts":"2020-01-01T00:00:00+0000","skill":"old"}
{"event":"match","ts":"bogus","skill":"unparseable"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	events := Read(dir, settings, ReadOptions{Days: 7})

	// the old event is filtered, the unparseable timestamp survives
	require.Len(t, events, 1)
	assert.Equal(t, "unparseable", events[0]["skill"])
}

func TestRead_MissingFile(t *testing.T) {
	assert.Nil(t, Read(t.TempDir(), telemetrySettings(), ReadOptions{}))
}

func TestRotation_KeepsNewerHalf(t *testing.T) {
	dir := t.TempDir()
	settings := telemetrySettings()
	settings.MaxLogSizeKB = 1
	l := New(dir, settings)
	path := Path(dir, settings)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString(`{"event":"match","skill":"padding-padding-padding-padding"}` + "\n")
	}
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0644))
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(1024))

	l.Log(EventMatch, map[string]any{"skill": "fresh"})

	events := Read(dir, settings, ReadOptions{})
	require.NotEmpty(t, events)
	assert.LessOrEqual(t, len(events), 21)
	assert.Equal(t, "fresh", events[len(events)-1]["skill"])
}
