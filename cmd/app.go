package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/nvset/internal/config"
	"github.com/oakwood-commons/nvset/internal/formatter"
	"github.com/oakwood-commons/nvset/pkg/host"
	"github.com/oakwood-commons/nvset/pkg/logger"
	"github.com/oakwood-commons/nvset/pkg/session"
	"github.com/oakwood-commons/nvset/pkg/settings"
)

var errInvalidFile = errors.New("the settings file is not valid JSON; fix it by hand or pass --force to replace it")

// app bundles what a command needs: merged tool settings, the bridge and a
// session over it.
type app struct {
	cfg    config.Config
	run    *settings.Run
	bridge *host.Local
	store  *config.StateStore
	sess   *session.Session
	lgr    *logr.Logger
	out    io.Writer
	force  bool
}

func newApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	ctx := cmd.Context()
	run, ok := settings.FromContext(ctx)
	if !ok {
		run = settings.NewCliParams()
	}
	lgr := logger.FromContext(ctx)

	home, _ := host.HomeDir()
	settingsPath := config.ResolvePath(run.Paths.SettingsFile, home)
	cfg, err := config.Load(settingsPath)
	if err != nil {
		return nil, err
	}

	configPath := firstNonEmpty(run.Paths.ConfigPath, cfg.Neovate.ConfigPath)
	dataDir := firstNonEmpty(run.Paths.DataDir, cfg.Neovate.DataDir)
	bridge, err := host.NewLocal(host.Options{
		ConfigPath:    configPath,
		DataDir:       dataDir,
		DisableBackup: !cfg.Neovate.Backup,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	store := config.NewStateStore(bridge.DataDir())
	sessOpts := []session.Option{
		session.WithLogger(lgr),
		session.WithPathStore(store),
		session.WithBuiltinNotifyPath(host.BuiltinPluginPath(bridge.DataDir(), host.NotifyPluginID)),
	}
	if cfg.Skills.Source != "" || cfg.Skills.Target != "" {
		sessOpts = append(sessOpts, session.WithSkillsPaths(cfg.Skills.Source, cfg.Skills.Target))
	}
	lgr.V(1).Info("resolved paths", logger.PathKey, configPath, "data_dir", bridge.DataDir(), "settings_file", settingsPath)

	return &app{
		cfg:    cfg,
		run:    run,
		bridge: bridge,
		store:  store,
		sess:   session.New(bridge, sessOpts...),
		lgr:    lgr,
		out:    cmd.OutOrStdout(),
		force:  opts.force,
	}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// load reads the settings file into the session.
func (a *app) load(ctx context.Context) error {
	if err := a.sess.Reload(ctx); err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	return nil
}

// mutate loads the file, applies fn and saves once when anything changed.
func (a *app) mutate(ctx context.Context, fn func(s *session.Session) error) error {
	if err := a.load(ctx); err != nil {
		return err
	}
	if !a.sess.IsValid() && !a.force {
		return errInvalidFile
	}
	if err := fn(a.sess); err != nil {
		return err
	}
	if !a.sess.Dirty() {
		a.info("no changes")
		return nil
	}
	res, err := a.sess.Save(ctx)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	a.reportWrite(res)
	return nil
}

func (a *app) reportWrite(res *host.WriteConfigResponse) {
	if res.BackupPath != "" {
		a.info(fmt.Sprintf("saved %s (backup %s)", res.Path, res.BackupPath))
		return
	}
	a.info("saved " + res.Path)
}

// info prints a status line unless --quiet is set.
func (a *app) info(msg string) {
	if a.run.IsQuiet {
		return
	}
	fmt.Fprintln(a.out, msg)
}

// colorOutput reports whether JSON output should be highlighted.
func (a *app) colorOutput() bool {
	if a.run.NoColor {
		return false
	}
	f, ok := a.out.(*os.File)
	return ok && formatter.IsTerminal(f)
}

// render prints v in the requested format, falling back to the configured
// default.
func (a *app) render(v any, format string, tree formatter.TreeOptions) error {
	if format == "" {
		format = a.cfg.Output.Format
	}
	f, err := formatter.ParseFormat(format)
	if err != nil {
		return err
	}
	out, err := formatter.Render(v, f, formatter.Options{Color: a.colorOutput(), Tree: tree})
	if err != nil {
		return err
	}
	_, err = io.WriteString(a.out, out)
	return err
}
