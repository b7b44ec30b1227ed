// Package host performs the side effects the editor needs: reading and
// writing the configuration file, installing bundled plugins and migrating
// skills directories.
package host

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUnknownPlugin  = errors.New("unknown builtin plugin")
	ErrInvalidMode    = errors.New("invalid migration mode (replace or skip)")
	ErrUnknownCommand = errors.New("unknown host command")
	ErrNoHome         = errors.New("cannot locate the home directory (HOME and USERPROFILE are unset)")
)

// Bridge is the boundary between editor state and the outside world.
type Bridge interface {
	ConfigPath(ctx context.Context) (string, error)
	ReadConfig(ctx context.Context) (*ReadConfigResponse, error)
	WriteConfig(ctx context.Context, req WriteConfigRequest) (*WriteConfigResponse, error)
	InstallBuiltinPlugin(ctx context.Context, req InstallPluginRequest) (*InstallPluginResponse, error)
	PlanSkillsMigration(ctx context.Context, req SkillsPlanRequest) (*SkillsMigrationPlan, error)
	ApplySkillsMigration(ctx context.Context, req SkillsApplyRequest) (*SkillsMigrationResult, error)
}

// Options configures a Local bridge. Zero values fall back to the standard
// locations under the user's home directory.
type Options struct {
	// Home overrides HOME/USERPROFILE.
	Home string
	// ConfigPath overrides <home>/.neovate/config.json.
	ConfigPath string
	// DataDir is where bundled plugins are installed.
	DataDir string
	// DisableBackup skips the timestamped copy made before overwriting.
	DisableBackup bool
	// Now is used for backup names.
	Now func() time.Time
}

// Local implements Bridge on the local filesystem.
type Local struct {
	home       string
	configPath string
	dataDir    string
	backup     bool
	now        func() time.Time
}

var _ Bridge = (*Local)(nil)

// NewLocal resolves opts into a ready bridge.
func NewLocal(opts Options) (*Local, error) {
	home := opts.Home
	if home == "" {
		h, err := HomeDir()
		if err != nil && (opts.ConfigPath == "" || opts.DataDir == "") {
			return nil, err
		}
		home = h
	}
	l := &Local{
		home:       home,
		configPath: opts.ConfigPath,
		dataDir:    opts.DataDir,
		backup:     !opts.DisableBackup,
		now:        opts.Now,
	}
	if l.configPath == "" {
		l.configPath = DefaultConfigPath(home)
	} else {
		p, err := ExpandTilde(l.configPath, home)
		if err != nil {
			return nil, err
		}
		l.configPath = p
	}
	if l.dataDir == "" {
		l.dataDir = DefaultDataDir(home)
	} else {
		p, err := ExpandTilde(l.dataDir, home)
		if err != nil {
			return nil, err
		}
		l.dataDir = p
	}
	if l.now == nil {
		l.now = time.Now
	}
	return l, nil
}

// DataDir returns the directory bundled plugins are installed into.
func (l *Local) DataDir() string {
	return l.dataDir
}

// Home returns the resolved home directory, which may be empty when both
// paths were given explicitly.
func (l *Local) Home() string {
	return l.home
}

func (l *Local) ConfigPath(context.Context) (string, error) {
	return l.configPath, nil
}
