package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// env is a temporary home with nvset pointed at it.
type env struct {
	home       string
	configPath string
	dataDir    string
	settings   string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("NO_COLOR", "1")
	e := &env{
		home:       home,
		configPath: filepath.Join(home, ".neovate", "config.json"),
		dataDir:    filepath.Join(home, "data"),
		settings:   filepath.Join(home, "nvset.yaml"),
	}
	e.writeSettings(t, "neovate:\n  backup: false\n")
	return e
}

func (e *env) writeSettings(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(e.settings, []byte(content), 0o600))
}

func (e *env) writeConfig(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(e.configPath), 0o755))
	require.NoError(t, os.WriteFile(e.configPath, []byte(content), 0o600))
}

func (e *env) readConfig(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(e.configPath)
	require.NoError(t, err)
	return string(data)
}

// run executes nvset with args and returns what it printed.
func (e *env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return e.runWithInput(t, "", args...)
}

func (e *env) runWithInput(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root, opts := newRootCmd()
	defer opts.finish()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args,
		"--config-path", e.configPath,
		"--data-dir", e.dataDir,
		"--settings-file", e.settings,
	))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
