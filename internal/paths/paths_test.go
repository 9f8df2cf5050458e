package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandUser(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, ExpandUser("~"))
	assert.Equal(t, filepath.Join(home, ".claude"), ExpandUser("~/.claude"))
	assert.Equal(t, "/abs/path", ExpandUser("/abs/path"))
	assert.Equal(t, "rel/path", ExpandUser("rel/path"))
	assert.Equal(t, "~user/x", ExpandUser("~user/x"), "other users' homes are not expanded")
}

func TestGlobalConfig_Default(t *testing.T) {
	t.Setenv("SKILL_BUS_GLOBAL_CONFIG", "")

	assert.Equal(t, DefaultGlobalConfig, GlobalConfig())
}

func TestGlobalConfig_EnvOverride(t *testing.T) {
	t.Setenv("SKILL_BUS_GLOBAL_CONFIG", "/tmp/custom.json")

	assert.Equal(t, "/tmp/custom.json", GlobalConfig())
}

func TestProjectConfig(t *testing.T) {
	assert.Equal(t, filepath.Join("/work", ".claude", "skill-bus.json"), ProjectConfig("/work"))
}

func TestResolve(t *testing.T) {
	assert.Equal(t, filepath.Join("/work", "go.mod"), Resolve("go.mod", "/work"))
	assert.Equal(t, "/abs/file", Resolve("/abs/file", "/work"))

	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, "f"), Resolve("~/f", "/work"))
}
