// Package conditions evaluates subscription predicates against the
// filesystem, environment, and git state. Evaluation fails closed: any
// structurally invalid condition warns and evaluates to false.
package conditions

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ruminaider/skill-bus/internal/config"
	"github.com/ruminaider/skill-bus/internal/git"
	"github.com/ruminaider/skill-bus/internal/glob"
	"github.com/ruminaider/skill-bus/internal/paths"
	"github.com/ruminaider/skill-bus/internal/warnings"
)

// MaxFileSize is the fileContains size gate. Larger files are skipped with a
// warning so a single condition cannot eat the 5-second hook budget.
const MaxFileSize = 1 << 20

// MaxRegexLen bounds fileContains regex patterns.
const MaxRegexLen = 500

// Evaluator evaluates conditions for one dispatch. The branch lookup is
// memoized per cwd for the evaluator's lifetime; create a fresh Evaluator
// per dispatch.
type Evaluator struct {
	Warn *warnings.List

	branches map[string]*string
	branchFn func(cwd string) (string, error)
}

// New returns an Evaluator reporting into warn.
func New(warn *warnings.List) *Evaluator {
	return &Evaluator{
		Warn:     warn,
		branches: map[string]*string{},
		branchFn: git.CurrentBranch,
	}
}

// EvalAll evaluates a condition list left to right with short-circuit AND.
// An empty list is true.
func (e *Evaluator) EvalAll(conds []config.Condition, cwd string) bool {
	for _, c := range conds {
		if !e.Eval(c, cwd) {
			return false
		}
	}
	return true
}

// Eval evaluates a single condition against cwd and the process environment.
func (e *Evaluator) Eval(cond config.Condition, cwd string) bool {
	kind, arg, ok := cond.Kind()
	if !ok {
		e.Warn.Addf("[skill-bus] WARNING: malformed condition %v, treating as false", map[string]any(cond))
		return false
	}

	switch kind {
	case "not":
		return e.evalNot(arg, cwd)
	case "fileExists":
		path, ok := arg.(string)
		if !ok {
			e.Warn.Addf("[skill-bus] WARNING: malformed condition %v, treating as false", map[string]any(cond))
			return false
		}
		_, err := os.Stat(paths.Resolve(path, cwd))
		return err == nil
	case "gitBranch":
		pattern, ok := arg.(string)
		if !ok {
			e.Warn.Addf("[skill-bus] WARNING: malformed condition %v, treating as false", map[string]any(cond))
			return false
		}
		branch, found := e.Branch(cwd)
		if !found {
			return false
		}
		return glob.Match(pattern, branch)
	case "envSet":
		name, ok := arg.(string)
		if !ok {
			e.Warn.Addf("[skill-bus] WARNING: malformed condition %v, treating as false", map[string]any(cond))
			return false
		}
		return os.Getenv(name) != ""
	case "envEquals":
		return e.evalEnvEquals(arg)
	case "fileContains":
		return e.evalFileContains(arg, cwd)
	}

	e.Warn.Addf("[skill-bus] WARNING: unknown condition type '%s', treating as false", kind)
	return false
}

// Branch returns the current git branch for cwd, memoized for this
// evaluator. found is false when cwd is not a repository or the git query
// failed or timed out.
func (e *Evaluator) Branch(cwd string) (branch string, found bool) {
	if cached, ok := e.branches[cwd]; ok {
		if cached == nil {
			return "", false
		}
		return *cached, true
	}
	b, err := e.branchFn(cwd)
	if err != nil {
		e.branches[cwd] = nil
		return "", false
	}
	e.branches[cwd] = &b
	return b, true
}

func (e *Evaluator) evalNot(arg any, cwd string) bool {
	inner, ok := arg.(map[string]any)
	if !ok {
		e.Warn.Addf("[skill-bus] WARNING: 'not' condition must wrap a condition object, got %T", arg)
		return false
	}
	if _, nested := inner["not"]; nested {
		e.Warn.Add("[skill-bus] WARNING: double negation in condition - likely a mistake")
	}
	return !e.Eval(config.Condition(inner), cwd)
}

func (e *Evaluator) evalEnvEquals(arg any) bool {
	fields, ok := arg.(map[string]any)
	if !ok {
		e.Warn.Addf("[skill-bus] WARNING: envEquals requires {\"var\": ..., \"value\": ...}, got %T", arg)
		return false
	}
	name, _ := fields["var"].(string)
	if name == "" {
		e.Warn.Add("[skill-bus] WARNING: envEquals missing 'var' field")
		return false
	}
	expected, present := fields["value"]
	if !present || expected == nil {
		e.Warn.Add("[skill-bus] WARNING: envEquals missing 'value' field")
		return false
	}
	want, ok := expected.(string)
	if !ok {
		e.Warn.Addf("[skill-bus] WARNING: envEquals 'value' must be a string, got %T. Use \"3000\" not 3000.", expected)
		return false
	}
	return os.Getenv(name) == want
}

func (e *Evaluator) evalFileContains(arg any, cwd string) bool {
	fields, ok := arg.(map[string]any)
	if !ok {
		e.Warn.Addf("[skill-bus] WARNING: fileContains requires {\"file\": ..., \"pattern\": ...}, got %T", arg)
		return false
	}
	file, _ := fields["file"].(string)
	pattern, _ := fields["pattern"].(string)
	if file == "" || pattern == "" {
		e.Warn.Add("[skill-bus] WARNING: fileContains missing 'file' or 'pattern' field")
		return false
	}
	useRegex, _ := fields["regex"].(bool)

	var re *regexp.Regexp
	if useRegex {
		if len(pattern) > MaxRegexLen {
			e.Warn.Add("[skill-bus] WARNING: fileContains regex pattern too long (>500 chars), skipping")
			return false
		}
		var err error
		re, err = regexp.Compile(pattern)
		if err != nil {
			e.Warn.Addf("[skill-bus] WARNING: fileContains regex error: %v", err)
			return false
		}
	}

	full := paths.Resolve(file, cwd)
	if strings.HasPrefix(filepath.Base(full), ".") {
		e.Warn.Addf("[skill-bus] WARNING: fileContains references dotfile '%s' - ensure this is intentional", file)
	}

	info, err := os.Stat(full)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if info.Size() > MaxFileSize {
		e.Warn.Addf("[skill-bus] WARNING: fileContains skipped - file exceeds 1MB size limit: %s", file)
		return false
	}

	f, err := os.Open(full)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), MaxFileSize+1)
	for scanner.Scan() {
		line := scanner.Text()
		if useRegex {
			if re.MatchString(line) {
				return true
			}
		} else if strings.Contains(line, pattern) {
			return true
		}
	}
	return false
}
