package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oakwood-commons/nvset/pkg/host"
	"github.com/oakwood-commons/nvset/pkg/logger"
	"github.com/oakwood-commons/nvset/pkg/reconcile"
)

func (s *Session) pluginsLocked() []string {
	raw, _ := s.base.Get("plugins")
	return reconcile.PickStringArray(raw)
}

func (s *Session) setPluginsLocked(plugins []string) {
	if len(plugins) == 0 {
		s.deleteBaseKey("plugins")
		return
	}
	s.setBaseKey("plugins", reconcile.StringsToValue(plugins))
}

func (s *Session) isBuiltinNotifyLocked(entry string) bool {
	return reconcile.IsBuiltinNotifyPluginEntry(entry, s.builtinNotifyPath)
}

// EnableBuiltinNotify installs the bundled notification plugin and adds its
// path to plugins unless an entry for it is already there.
func (s *Session) EnableBuiltinNotify(ctx context.Context) (*host.InstallPluginResponse, error) {
	if err := s.begin(&s.pluginBusy); err != nil {
		return nil, err
	}
	defer s.end(&s.pluginBusy)

	lgr := logger.FromContext(ctx)
	res, err := s.bridge.InstallBuiltinPlugin(ctx, host.InstallPluginRequest{ID: host.NotifyPluginID})
	if err != nil {
		lgr.Error(err, "failed to install builtin notify plugin")
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.builtinNotifyPath == "" && res.Path != "" {
		s.builtinNotifyPath = res.Path
	}
	plugins := s.pluginsLocked()
	present := false
	for _, p := range plugins {
		if reconcile.IsBuiltinNotifyPluginEntry(p, res.Path) || s.isBuiltinNotifyLocked(p) {
			present = true
			break
		}
	}
	if !present {
		plugins = append(plugins, res.Path)
	}
	s.setPluginsLocked(plugins)
	lgr.V(1).Info("builtin notify plugin enabled", "path", res.Path, "wrote", res.Wrote)
	return res, nil
}

// DisableBuiltinNotify removes every entry that refers to the bundled
// notification plugin. The plugin file stays on disk.
func (s *Session) DisableBuiltinNotify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []string
	for _, p := range s.pluginsLocked() {
		if !s.isBuiltinNotifyLocked(p) {
			kept = append(kept, p)
		}
	}
	s.setPluginsLocked(kept)
}

// AddCustomPlugin appends a plugin path.
func (s *Session) AddCustomPlugin(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("plugin path must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	plugins := s.pluginsLocked()
	for _, p := range plugins {
		if p == path {
			return fmt.Errorf("%w: %s", ErrPluginExists, path)
		}
	}
	s.setPluginsLocked(append(plugins, path))
	return nil
}

// RemoveCustomPlugin removes every entry equal to path.
func (s *Session) RemoveCustomPlugin(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []string
	for _, p := range s.pluginsLocked() {
		if p != path {
			kept = append(kept, p)
		}
	}
	s.setPluginsLocked(kept)
}
