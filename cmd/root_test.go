package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/oakwood-commons/nvset/internal/config"
	"github.com/oakwood-commons/nvset/pkg/logger"
	"github.com/oakwood-commons/nvset/pkg/settings"
)

func TestRootRegistersCommands(t *testing.T) {
	root, _ := newRootCmd()
	want := []string{
		"show", "get", "set", "unset", "commit", "notification", "desktop", "agent",
		"mcp", "plugins", "skills", "catalog", "patch", "invoke", "path", "version", "config",
	}
	for _, name := range want {
		c, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}
	for _, flag := range []string{"config-path", "data-dir", "settings-file", "log-file", "debug", "no-color", "quiet", "force"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestRootNeedsTerminal(t *testing.T) {
	orig := isInteractive
	isInteractive = func() bool { return false }
	t.Cleanup(func() { isInteractive = orig })

	e := newEnv(t)
	_, err := e.run(t)
	assert.ErrorIs(t, err, errNotTerminal)
}

func TestLogFileClosedWhenCommandFails(t *testing.T) {
	var opened []string
	closed := 0
	orig := openLogSink
	openLogSink = func(path string) (zapcore.WriteSyncer, func(), error) {
		opened = append(opened, path)
		return logger.DiscardSink(), func() { closed++ }, nil
	}
	t.Cleanup(func() { openLogSink = orig })

	e := newEnv(t)
	logFile := filepath.Join(e.home, "nvset.log")
	_, err := e.run(t, "get", "temperature", "--log-file", logFile)
	require.Error(t, err)
	assert.Equal(t, []string{logFile}, opened)
	assert.Equal(t, 1, closed)

	_, err = e.run(t, "version", "--log-file", logFile)
	require.NoError(t, err)
	assert.Equal(t, 2, closed)
}

func TestVersionCommand(t *testing.T) {
	e := newEnv(t)
	out, err := e.run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, cliVersionString()+"\n", out)
	assert.Contains(t, out, settings.CliBinaryName+" ")
}

func TestPathCommand(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "path")
	require.NoError(t, err)
	assert.Equal(t, e.configPath+"\n", out)

	out, err = e.run(t, "path", "--data")
	require.NoError(t, err)
	assert.Equal(t, e.dataDir+"\n", out)
}

func TestUnderscoreFlagsAreAccepted(t *testing.T) {
	e := newEnv(t)
	root, _ := newRootCmd()
	require.NoError(t, root.ParseFlags([]string{"--config_path", e.configPath}))
	got, err := root.PersistentFlags().GetString("config-path")
	require.NoError(t, err)
	assert.Equal(t, e.configPath, got)
}

func TestConfigCommand(t *testing.T) {
	e := newEnv(t)
	e.writeSettings(t, "output:\n  format: YAML\nskills:\n  source: /src\n")

	out, err := e.run(t, "config", "--default")
	require.NoError(t, err)
	assert.Equal(t, string(config.DefaultConfigYAML()), out)

	out, err = e.run(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "format: yaml")
	assert.Contains(t, out, "source: /src")

	out, err = e.run(t, "config", "-o", "path")
	require.NoError(t, err)
	assert.Equal(t, e.settings+"\n", out)

	_, err = e.run(t, "config", "-o", "json")
	assert.Error(t, err)
}

func TestSettingsFormatIsDefault(t *testing.T) {
	e := newEnv(t)
	e.writeSettings(t, "output:\n  format: toml\nneovate:\n  backup: false\n")
	e.writeConfig(t, `{"quiet":true,"desktop":{"theme":"dark"}}`)

	out, err := e.run(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "quiet = true\n")
	assert.Contains(t, out, "[desktop]\n")
	assert.Contains(t, out, "theme = ")
	assert.NotContains(t, out, "{")
}

func TestMissingSettingsFile(t *testing.T) {
	e := newEnv(t)
	e.settings = e.settings + ".missing"
	_, err := e.run(t, "show")
	assert.ErrorContains(t, err, "read settings file")
}
