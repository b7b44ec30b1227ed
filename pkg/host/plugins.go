package host

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/oakwood-commons/nvset/pkg/logger"
)

//go:embed plugins/*.js
var builtinPlugins embed.FS

// NotifyPluginID names the bundled notification plugin.
const NotifyPluginID = "notify"

// BuiltinPluginSource returns the bundled source of plugin id.
func BuiltinPluginSource(id string) ([]byte, error) {
	if id != NotifyPluginID {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlugin, id)
	}
	return builtinPlugins.ReadFile("plugins/" + id + ".js")
}

// BuiltinPluginPath is where plugin id is installed under dataDir.
func BuiltinPluginPath(dataDir, id string) string {
	return filepath.Join(dataDir, "plugins", id+".js")
}

// InstallBuiltinPlugin copies a bundled plugin into the data directory. An
// existing file is never overwritten.
func (l *Local) InstallBuiltinPlugin(ctx context.Context, req InstallPluginRequest) (*InstallPluginResponse, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return nil, errors.New("plugin id must not be empty")
	}
	src, err := BuiltinPluginSource(id)
	if err != nil {
		return nil, err
	}
	dest := BuiltinPluginPath(l.dataDir, id)
	resp := &InstallPluginResponse{ID: id, Path: dest}

	if _, err := os.Stat(dest); err == nil {
		logger.FromContext(ctx).V(1).Info("builtin plugin already installed", "id", id, "path", dest)
		return resp, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to inspect plugin path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create plugin directory: %w", err)
	}
	if err := os.WriteFile(dest, src, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write plugin: %w", err)
	}
	resp.Wrote = true
	logger.FromContext(ctx).V(1).Info("installed builtin plugin", "id", id, "path", dest)
	return resp, nil
}
