package dispatch

import (
	"fmt"
	"strings"

	"github.com/ruminaider/skill-bus/internal/config"
	"github.com/ruminaider/skill-bus/internal/warnings"
)

// Output is the single JSON document a dispatch prints on stdout.
type Output struct {
	HookSpecificOutput *HookOutput `json:"hookSpecificOutput,omitempty"`
	SystemMessage      string      `json:"systemMessage,omitempty"`
}

// HookOutput carries the injected context under the host's hook protocol.
type HookOutput struct {
	HookEventName     string `json:"hookEventName"`
	AdditionalContext string `json:"additionalContext"`
}

// hookEventName maps source and timing to the host's event name.
func hookEventName(source, timing string) string {
	if source == "prompt" {
		return "UserPromptSubmit"
	}
	if timing == "post" {
		return "PostToolUse"
	}
	return "PreToolUse"
}

// buildOutput materializes the matched subscriptions into an output record:
// dedup by insert name (first occurrence wins), resolve dynamic text,
// concatenate with blank-line separators, and flush warnings plus the
// console echo into systemMessage. Returns nil when no insert produced text.
func buildOutput(matched []config.Subscription, timing string, settings config.Settings, source string,
	inserts map[string]config.Insert, cwd string, warn *warnings.List) *Output {
	if len(matched) == 0 {
		return nil
	}

	var contextParts []string
	var subLabels []string
	seen := map[string]bool{}

	for _, sub := range matched {
		if sub.Insert == "" {
			continue
		}
		if seen[sub.Insert] {
			continue
		}
		seen[sub.Insert] = true

		insert, ok := inserts[sub.Insert]
		if !ok {
			warn.Addf("[skill-bus] WARNING: dangling insert reference '%s' - skipping", sub.Insert)
			continue
		}

		text := resolveText(insert, cwd, settings, warn)
		if text == "" {
			continue
		}
		contextParts = append(contextParts, text)

		onShort := sub.On
		if onShort == "" {
			onShort = "?"
		} else if i := strings.LastIndex(onShort, ":"); i >= 0 {
			onShort = onShort[i+1:]
		}
		subLabels = append(subLabels, sub.Insert+" -> "+onShort+" ["+sub.EffectiveWhen()+"]")
	}

	if len(contextParts) == 0 {
		return nil
	}

	out := &Output{
		HookSpecificOutput: &HookOutput{
			HookEventName:     hookEventName(source, timing),
			AdditionalContext: strings.Join(contextParts, "\n\n"),
		},
	}

	messages := append([]string{}, warn.Messages()...)
	if settings.ShowConsoleEcho {
		label := "[skill-bus]"
		if source == "prompt" {
			label = "[skill-bus] prompt-monitor:"
		}
		messages = append(messages, fmt.Sprintf("%s %d sub(s) matched (%s)", label, len(subLabels), strings.Join(subLabels, ", ")))
	}
	if len(messages) > 0 {
		out.SystemMessage = strings.Join(messages, " | ")
	}
	return out
}

// resolveText returns the insert's effective text, preferring a dynamic
// handler's non-empty output over the static text. Handler failure of any
// kind falls back to the static text with a warning.
func resolveText(insert config.Insert, cwd string, settings config.Settings, warn *warnings.List) string {
	text := insert.Text
	if insert.Dynamic == "" {
		return text
	}

	h, ok := handlers[insert.Dynamic]
	if !ok {
		warn.Addf("[skill-bus] WARNING: unknown dynamic handler '%s', using static text", insert.Dynamic)
		return text
	}
	dynamic, err := invokeHandler(h, cwd, settings)
	if err != nil {
		warn.Addf("[skill-bus] WARNING: dynamic handler '%s' failed: %v", insert.Dynamic, err)
		return text
	}
	if dynamic != "" {
		return dynamic
	}
	return text
}
