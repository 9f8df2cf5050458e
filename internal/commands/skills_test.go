package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePluginVersion(t *testing.T, cacheDir, source, plugin, version string, skills, cmds []string) string {
	t.Helper()
	versionPath := filepath.Join(cacheDir, source, plugin, version)
	for _, skill := range skills {
		dir := filepath.Join(versionPath, "skills", skill)
		require.NoError(t, os.MkdirAll(dir, 0755))
		md := "---\nname: " + skill + "\ndescription: test skill\n---\n\n# " + skill + "\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(md), 0644))
	}
	if len(cmds) > 0 {
		dir := filepath.Join(versionPath, "commands")
		require.NoError(t, os.MkdirAll(dir, 0755))
		for _, c := range cmds {
			require.NoError(t, os.WriteFile(filepath.Join(dir, c+".md"), []byte("# "+c), 0644))
		}
	}
	require.NoError(t, os.MkdirAll(versionPath, 0755))
	return versionPath
}

func TestScanPluginCache_LatestVersionWins(t *testing.T) {
	cacheDir := t.TempDir()
	writePluginVersion(t, cacheDir, "marketplace", "superpowers", "1.9.0", []string{"old-skill"}, nil)
	writePluginVersion(t, cacheDir, "marketplace", "superpowers", "1.10.0", []string{"tdd", "review"}, []string{"plan"})

	plugins := ScanPluginCache(cacheDir)

	require.Len(t, plugins, 1)
	assert.Equal(t, "1.10.0", plugins[0].Version, "1.10.0 sorts after 1.9.0 numerically")
	assert.ElementsMatch(t, []string{"tdd", "review"}, plugins[0].Skills)
	assert.Equal(t, []string{"plan"}, plugins[0].Commands)
}

func TestScanPluginCache_SkipsOrphanedAndTempDirs(t *testing.T) {
	cacheDir := t.TempDir()
	orphaned := writePluginVersion(t, cacheDir, "marketplace", "dead-plugin", "1.0.0", []string{"gone"}, nil)
	require.NoError(t, os.WriteFile(filepath.Join(orphaned, ".orphaned_at"), []byte("2026-01-01"), 0644))
	writePluginVersion(t, cacheDir, "temp_git_12345", "staging", "1.0.0", []string{"wip"}, nil)
	writePluginVersion(t, cacheDir, "marketplace", "alive", "2.0.0", []string{"works"}, nil)

	plugins := ScanPluginCache(cacheDir)

	require.Len(t, plugins, 1)
	assert.Equal(t, "alive", plugins[0].Name)
}

func TestScanPluginCache_PluginJSONOverridesDirName(t *testing.T) {
	cacheDir := t.TempDir()
	versionPath := writePluginVersion(t, cacheDir, "marketplace", "dir-name", "1.0.0", []string{"s"}, nil)
	metaDir := filepath.Join(versionPath, ".claude-plugin")
	require.NoError(t, os.MkdirAll(metaDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(metaDir, "plugin.json"),
		[]byte(`{"name": "real-name", "version": "1.0.1"}`), 0644))

	plugins := ScanPluginCache(cacheDir)

	require.Len(t, plugins, 1)
	assert.Equal(t, "real-name", plugins[0].Name)
	assert.Equal(t, "1.0.1", plugins[0].Version)
}

func TestScanPluginCache_MissingDir(t *testing.T) {
	assert.Nil(t, ScanPluginCache(filepath.Join(t.TempDir(), "absent")))
}

func TestFrontmatterName(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "SKILL.md")
	require.NoError(t, os.WriteFile(path, []byte("---\nname: custom-name\n---\nbody"), 0644))
	assert.Equal(t, "custom-name", frontmatterName(path, "fallback"))

	noFM := filepath.Join(dir, "plain.md")
	require.NoError(t, os.WriteFile(noFM, []byte("# just markdown"), 0644))
	assert.Equal(t, "fallback", frontmatterName(noFM, "fallback"))

	assert.Equal(t, "fallback", frontmatterName(filepath.Join(dir, "absent.md"), "fallback"))
}

func TestSemverLess(t *testing.T) {
	assert.True(t, semverLess("1.9.0", "1.10.0"))
	assert.False(t, semverLess("1.10.0", "1.9.0"))
	assert.True(t, semverLess("1.2", "1.2.1"))
	assert.False(t, semverLess("2.0.0", "2.0.0"))
}
