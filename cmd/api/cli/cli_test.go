package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(VersionInfo{Version: "test", Commit: "abc"})
	root.AddCommand(NewServeCommand(), NewMigrateCommand())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestMigrate_UpDownStatus(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "pcns.db")
	flags := []string{"--database-driver", "sqlite", "--database-url", dsn, "--log-level", "error"}

	out, err := run(t, append([]string{"migrate", "status"}, flags...)...)
	require.NoError(t, err)
	assert.Equal(t, 7, strings.Count(out, "false"))

	_, err = run(t, append([]string{"migrate", "up"}, flags...)...)
	require.NoError(t, err)
	out, err = run(t, append([]string{"migrate", "status"}, flags...)...)
	require.NoError(t, err)
	assert.Equal(t, 7, strings.Count(out, "true"))

	_, err = run(t, append([]string{"migrate", "down"}, flags...)...)
	require.NoError(t, err)
	out, err = run(t, append([]string{"migrate", "status"}, flags...)...)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "false"))
}

func TestMigrate_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := run(t, "migrate", "up", "--database-url", "")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "test.abc")
}
