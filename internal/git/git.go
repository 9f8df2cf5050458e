// Package git runs bounded git queries. Every invocation carries a 2-second
// timeout so a hung git (network credential helper, huge repo) cannot eat the
// host's 5-second dispatch budget.
package git

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// Timeout bounds each git subprocess call.
const Timeout = 2 * time.Second

// Run executes a git command in the given directory and returns trimmed
// stdout. The call is killed after Timeout.
func Run(dir string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// CurrentBranch returns the checked-out branch name. Detached HEAD yields an
// empty string; a missing repo or timed-out query yields an error.
func CurrentBranch(dir string) (string, error) {
	return Run(dir, "branch", "--show-current")
}

// IsRepo returns true if dir is inside a git repository.
func IsRepo(dir string) bool {
	_, err := Run(dir, "rev-parse", "--git-dir")
	return err == nil
}

// RemoteURL returns the URL of the named remote, or an error if it does not
// exist.
func RemoteURL(dir, name string) (string, error) {
	return Run(dir, "remote", "get-url", name)
}
