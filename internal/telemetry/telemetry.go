// Package telemetry appends dispatch events to a project-scoped JSONL log.
// Logging is opt-in and fail-safe: every error path is swallowed, because a
// dispatch must never fail on account of telemetry.
package telemetry

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ruminaider/skill-bus/internal/config"
)

// Event kinds written to the log.
const (
	EventMatch         = "match"
	EventConditionSkip = "condition_skip"
	EventNoMatch       = "no_match"
	EventSkillComplete = "skill_complete"
)

// tsFormat is ISO-8601 with a numeric zone offset.
const tsFormat = "2006-01-02T15:04:05-0700"

// sessionID groups events from one process. Eight hex chars of a v4 uuid.
var sessionID = uuid.NewString()[:8]

// Event is one parsed telemetry record.
type Event = map[string]any

// Path resolves the telemetry log location: the telemetryPath setting
// (relative paths against cwd) or <cwd>/.claude/skill-bus-telemetry.jsonl.
func Path(cwd string, settings config.Settings) string {
	if settings.TelemetryPath != "" {
		p := settings.TelemetryPath
		if !filepath.IsAbs(p) {
			p = filepath.Join(cwd, p)
		}
		return p
	}
	return filepath.Join(cwd, ".claude", "skill-bus-telemetry.jsonl")
}

// Logger appends events for one dispatch. A nil Logger drops everything,
// which is how disabled telemetry is represented.
type Logger struct {
	cwd      string
	settings config.Settings
}

// New returns a Logger when telemetry is enabled, nil otherwise.
func New(cwd string, settings config.Settings) *Logger {
	if !settings.Telemetry {
		return nil
	}
	return &Logger{cwd: cwd, settings: settings}
}

// Log appends one event record. Failures are ignored.
func (l *Logger) Log(event string, fields map[string]any) {
	if l == nil {
		return
	}
	path := Path(l.cwd, l.settings)

	if parent := filepath.Dir(path); parent != "" {
		if err := os.MkdirAll(parent, 0755); err != nil {
			logrus.WithError(err).Debug("telemetry: cannot create log dir")
			return
		}
	}

	if l.settings.MaxLogSizeKB > 0 {
		maybeRotate(path, l.settings.MaxLogSizeKB)
	}

	entry := map[string]any{
		"ts":        time.Now().Format(tsFormat),
		"sessionId": sessionID,
		"event":     event,
	}
	for k, v := range fields {
		entry[k] = v
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logrus.WithError(err).Debug("telemetry: write skipped")
		return
	}
	defer f.Close()
	f.Write(append(data, '\n'))
}

// maybeRotate truncates the log to its newest half once it exceeds
// maxSizeKB.
func maybeRotate(path string, maxSizeKB int) {
	info, err := os.Stat(path)
	if err != nil || info.Size() <= int64(maxSizeKB)*1024 {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	lines := strings.SplitAfter(string(data), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	keep := lines[len(lines)/2:]
	if len(keep) == len(lines) {
		return
	}
	os.WriteFile(path, []byte(strings.Join(keep, "")), 0644)
}

// ReadOptions filter Read's results.
type ReadOptions struct {
	Session string // only events with this sessionId
	Days    int    // only events from the last N days (0 = all)
}

// Read parses the telemetry log, skipping malformed lines. Events with
// unparseable timestamps survive a Days filter.
func Read(cwd string, settings config.Settings, opts ReadOptions) []Event {
	path := Path(cwd, settings)
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var cutoff time.Time
	if opts.Days > 0 {
		cutoff = time.Now().AddDate(0, 0, -opts.Days)
	}

	var events []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry Event
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if opts.Session != "" && entry["sessionId"] != opts.Session {
			continue
		}
		if !cutoff.IsZero() {
			if ts, ok := entry["ts"].(string); ok {
				if parsed, err := parseTS(ts); err == nil && parsed.Before(cutoff) {
					continue
				}
			}
		}
		events = append(events, entry)
	}
	return events
}

func parseTS(ts string) (time.Time, error) {
	if t, err := time.Parse(tsFormat, ts); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, ts)
}
