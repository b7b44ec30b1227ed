package host

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/oakwood-commons/nvset/pkg/document"
	"github.com/oakwood-commons/nvset/pkg/logger"
)

// EmptyConfig is returned as the content of a configuration file that does
// not exist yet.
const EmptyConfig = "{\n}\n"

func (l *Local) ReadConfig(ctx context.Context) (*ReadConfigResponse, error) {
	lgr := logger.FromContext(ctx)
	data, err := os.ReadFile(l.configPath)
	if errors.Is(err, fs.ErrNotExist) {
		lgr.V(1).Info("config file not found", "path", l.configPath)
		return &ReadConfigResponse{Path: l.configPath, Exists: false, Content: EmptyConfig}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	lgr.V(1).Info("read config", "path", l.configPath, "bytes", len(data))
	return &ReadConfigResponse{Path: l.configPath, Exists: true, Content: string(data)}, nil
}

// WriteConfig validates the content, backs up any existing file and
// replaces it through a temporary file in the same directory.
func (l *Local) WriteConfig(ctx context.Context, req WriteConfigRequest) (*WriteConfigResponse, error) {
	if _, err := document.Parse(req.Content); err != nil {
		return nil, fmt.Errorf("config is not valid JSON: %w", err)
	}
	dir := filepath.Dir(l.configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	resp := &WriteConfigResponse{Path: l.configPath}
	_, statErr := os.Stat(l.configPath)
	exists := statErr == nil
	if exists && l.backup {
		backup := fmt.Sprintf("%s.bak-%d", l.configPath, l.now().Unix())
		if err := copyFile(l.configPath, backup); err != nil {
			return nil, fmt.Errorf("failed to back up config: %w", err)
		}
		resp.BackupPath = backup
	}

	tmp := l.configPath + ".tmp"
	if err := os.WriteFile(tmp, []byte(req.Content), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write temporary config: %w", err)
	}
	if exists {
		// rename does not replace existing files on every platform
		if err := os.Remove(l.configPath); err != nil {
			_ = os.Remove(tmp)
			return nil, fmt.Errorf("failed to replace config (remove old file): %w", err)
		}
	}
	if err := os.Rename(tmp, l.configPath); err != nil {
		return nil, fmt.Errorf("failed to replace config (rename): %w", err)
	}

	logger.FromContext(ctx).V(1).Info("wrote config", "path", l.configPath, "backup", resp.BackupPath)
	return resp, nil
}
