// Package glob provides shell-style pattern matching for skill names and
// branch names: *, ?, and [...] with full-string anchoring. Patterns are
// compiled once and cached for the life of the process.
package glob

import (
	"sync"

	gglob "github.com/gobwas/glob"
)

var (
	mu    sync.Mutex
	cache = map[string]gglob.Glob{}
)

// Match reports whether name matches the shell-style pattern. A pattern that
// fails to compile matches nothing.
func Match(pattern, name string) bool {
	mu.Lock()
	g, ok := cache[pattern]
	if !ok {
		var err error
		g, err = gglob.Compile(pattern)
		if err != nil {
			g = nil
		}
		cache[pattern] = g
	}
	mu.Unlock()

	if g == nil {
		return false
	}
	return g.Match(name)
}
