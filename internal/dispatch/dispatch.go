// Package dispatch runs one end-to-end skill event: load and merge the two
// config scopes, match subscriptions, and assemble the output document. A
// dispatch is stateless; each invocation gets a fresh Dispatcher carrying
// its own warning list and condition cache.
package dispatch

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ruminaider/skill-bus/internal/conditions"
	"github.com/ruminaider/skill-bus/internal/config"
	"github.com/ruminaider/skill-bus/internal/glob"
	"github.com/ruminaider/skill-bus/internal/match"
	"github.com/ruminaider/skill-bus/internal/paths"
	"github.com/ruminaider/skill-bus/internal/subscriptions"
	"github.com/ruminaider/skill-bus/internal/telemetry"
	"github.com/ruminaider/skill-bus/internal/warnings"
)

// disabledNotice is emitted when the master switch is off.
const disabledNotice = "[skill-bus] Disabled via settings. Run /skill-bus:unpause-subs to re-enable."

// softDeadline triggers an incompleteness warning; the host kills the hook
// at 5 seconds.
const softDeadline = 4 * time.Second

// Request describes one skill event.
type Request struct {
	Skill  string
	Timing string // pre, post, complete
	Source string // tool, prompt
	Cwd    string
}

// Dispatcher holds the per-dispatch state: the warning list and the
// condition evaluator with its memoization cache. Create one per dispatch.
type Dispatcher struct {
	warn *warnings.List
	eval *conditions.Evaluator
	now  func() time.Time
}

// New returns a Dispatcher with fresh per-dispatch state.
func New() *Dispatcher {
	warn := &warnings.List{}
	return &Dispatcher{
		warn: warn,
		eval: conditions.New(warn),
		now:  time.Now,
	}
}

// Run executes one dispatch and returns the output document, or nil when
// there is nothing to say.
func (d *Dispatcher) Run(req Request) *Output {
	// An empty skill name is a non-event: stay silent before loading
	// config, so not even a malformed-config warning surfaces.
	if req.Skill == "" {
		logrus.Debug("dispatch skipped, empty skill name")
		return nil
	}

	start := d.now()
	logrus.WithFields(logrus.Fields{
		"skill": req.Skill, "timing": req.Timing, "source": req.Source,
	}).Debug("dispatch start")

	globalCfg := config.Load(paths.GlobalConfig(), d.warn)
	projectCfg := config.Load(paths.ProjectConfig(req.Cwd), d.warn)

	settings := config.MergeSettings(globalCfg, projectCfg, d.warn)
	merged := subscriptions.Merge(globalCfg, projectCfg, settings, d.warn)
	inserts := subscriptions.MergeInserts(globalCfg, projectCfg, d.warn)
	subs := d.filterOldFormat(subscriptions.Strip(merged))

	if !settings.Enabled {
		return &Output{SystemMessage: disabledNotice}
	}
	// complete timing is inert unless completionHooks opts in.
	if req.Timing == "complete" && !settings.CompletionHooks {
		return nil
	}
	if req.Source == "prompt" && !settings.MonitorSlashCommands {
		return nil
	}

	tlog := telemetry.New(req.Cwd, settings)
	matcher := &match.Matcher{
		Settings:  settings,
		Inserts:   inserts,
		Eval:      d.eval,
		Warn:      d.warn,
		Telemetry: tlog,
	}

	var res match.Result
	if req.Source == "prompt" {
		res = matcher.MatchPrompt(req.Skill, subs, req.Cwd)
	} else {
		res = matcher.Match(req.Skill, req.Timing, subs, req.Cwd)
	}
	logrus.WithFields(logrus.Fields{
		"matched": len(res.Matched), "total": res.Total,
	}).Debug("matching done")

	// The completion trigger must be computed before the no-match early
	// exit: a skill with zero pre subs can still need the instruction.
	instruction := d.completionInstruction(req, settings, subs)

	for _, sub := range res.Matched {
		tlog.Log(telemetry.EventMatch, map[string]any{
			"skill": req.Skill, "insert": sub.Insert,
			"timing": req.Timing, "source": req.Source,
		})
	}
	if req.Timing == "complete" && len(res.Matched) > 0 {
		tlog.Log(telemetry.EventSkillComplete, map[string]any{
			"skill": req.Skill, "timing": "complete", "source": req.Source,
		})
	}

	if len(res.Matched) == 0 {
		if settings.ObserveUnmatched {
			tlog.Log(telemetry.EventNoMatch, map[string]any{
				"skill": req.Skill, "timing": req.Timing, "source": req.Source,
			})
		}
		if d.warn.Empty() && instruction == "" {
			return nil
		}
	}

	if elapsed := d.now().Sub(start); elapsed > softDeadline {
		d.warn.Addf("[skill-bus] WARNING: dispatch took %.1fs (5s timeout), context may be incomplete", elapsed.Seconds())
	}

	out := buildOutput(res.Matched, req.Timing, settings, req.Source, inserts, req.Cwd, d.warn)

	// Surface truncation in band so the model knows inserts were omitted.
	if res.Truncated() && out != nil {
		out.HookSpecificOutput.AdditionalContext += "\n\n[Note: " + res.TruncationNote + "]"
	}

	if instruction != "" {
		if out != nil {
			out.HookSpecificOutput.AdditionalContext += instruction
		} else {
			// No pre subs matched but completion subs exist: synthesize an
			// output record solely to carry the trigger.
			out = &Output{
				HookSpecificOutput: &HookOutput{
					HookEventName:     hookEventName(req.Source, "pre"),
					AdditionalContext: strings.TrimLeft(instruction, "\n"),
				},
			}
			if !d.warn.Empty() {
				out.SystemMessage = d.warn.Join()
			}
		}
	}

	if out != nil {
		return out
	}
	if !d.warn.Empty() {
		return &Output{SystemMessage: d.warn.Join()}
	}
	return nil
}

// filterOldFormat drops subscriptions still using the pre-insert "inject"
// field, with one aggregate warning.
func (d *Dispatcher) filterOldFormat(subs []config.Subscription) []config.Subscription {
	kept := subs[:0:0]
	oldFormat := 0
	for _, s := range subs {
		if s.Inject != "" && s.Insert == "" {
			oldFormat++
			continue
		}
		kept = append(kept, s)
	}
	if oldFormat > 0 {
		d.warn.Addf("[skill-bus] ERROR: %d subscription(s) use old 'inject' format - skipped. "+
			"Migrate: extract inject text into an insert, replace 'inject' with 'insert' reference.", oldFormat)
	}
	return kept
}

// completionInstruction returns the trigger block appended to pre-timed
// dispatches when the skill has a matching complete-timed subscription.
func (d *Dispatcher) completionInstruction(req Request, settings config.Settings, subs []config.Subscription) string {
	if req.Timing != "pre" || !settings.CompletionHooks {
		return ""
	}
	if !hasCompleteSub(req.Skill, subs) {
		return ""
	}

	depth := d.chainDepth()
	depthArg := ""
	if depth > 0 {
		depthArg = " --depth " + strconv.Itoa(depth)
	}
	return "\n\n---\n[skill-bus] COMPLETION TRIGGER: When you have FULLY completed " +
		"the work described by this skill - not begun it, FULLY delivered all " +
		"outputs - you MUST invoke the Skill tool with skill: \"skill-bus:complete\" " +
		"and args: \"" + req.Skill + depthArg + "\" to trigger " +
		"downstream subscriptions. Do NOT skip this step."
}

func hasCompleteSub(skill string, subs []config.Subscription) bool {
	for _, sub := range subs {
		if sub.When == "complete" && glob.Match(sub.On, skill) {
			return true
		}
	}
	return false
}

// chainDepth reads the recursion counter set by the host on recursive
// completions. Malformed values warn and resolve to zero.
func (d *Dispatcher) chainDepth() int {
	raw, ok := os.LookupEnv("_SB_CHAIN_DEPTH")
	if !ok || raw == "" {
		return 0
	}
	depth, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		d.warn.Addf("[skill-bus] WARNING: invalid _SB_CHAIN_DEPTH=%q, defaulting to 0", raw)
		return 0
	}
	return depth
}
