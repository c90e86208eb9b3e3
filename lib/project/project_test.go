package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRootStopsAtGitMarker(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	assert.Equal(t, root, FindRoot(nested))
}

func TestFindRootTerminatesWhenNoMarkerNearby(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "x")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	// No marker anywhere up the chain within the temp dir itself; since the
	// walk continues past root to the real filesystem root, just assert it
	// terminates and returns some ancestor rather than looping forever.
	got := FindRoot(nested)
	assert.NotEmpty(t, got)
}

func TestResolveSessionIDPrefersEventThenEnv(t *testing.T) {
	assert.Equal(t, "from-event", ResolveSessionID("from-event", "QUADRUPLE_VERIFY_TEST_SESSION", "/tmp/root"))

	t.Setenv("QUADRUPLE_VERIFY_TEST_SESSION", "from-env")
	assert.Equal(t, "from-env", ResolveSessionID("", "QUADRUPLE_VERIFY_TEST_SESSION", "/tmp/root"))
}

func TestResolveSessionIDFallbackIsStableWithinProcess(t *testing.T) {
	id1 := ResolveSessionID("", "QUADRUPLE_VERIFY_UNSET_VAR", "/tmp/project-a")
	id2 := ResolveSessionID("", "QUADRUPLE_VERIFY_UNSET_VAR", "/tmp/project-a")
	assert.Equal(t, id1, id2)

	id3 := ResolveSessionID("", "QUADRUPLE_VERIFY_UNSET_VAR", "/tmp/project-b")
	assert.NotEqual(t, id1, id3)
}

func TestDefaultRegistryPaths(t *testing.T) {
	reg := DefaultRegistry("/opt/plugin")
	assert.Equal(t, "/opt/plugin", reg.PluginRoot)
	assert.Equal(t, ".claude/quadruple-verify-audit", reg.AuditDirName)
	assert.Equal(t, filepath.Join("/opt/plugin", "config", "default-rules.json"), reg.DefaultRulesPath())
}

func TestLoadRegistryOverridesFromPathsToml(t *testing.T) {
	pluginRoot := t.TempDir()
	tomlContent := `audit_dir_name = ".claude/custom-audit"` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(pluginRoot, "paths.toml"), []byte(tomlContent), 0o644))

	reg := LoadRegistry(pluginRoot)
	assert.Equal(t, ".claude/custom-audit", reg.AuditDirName)
}

func TestProjectConfigPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/proj", ".claude", "quadruple-verify-config.json"), ProjectConfigPath("/proj"))
}
