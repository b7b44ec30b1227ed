// Package config loads the nvset tool settings: an embedded YAML default
// overlaid with the user's settings file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigYAML []byte

// DefaultConfigYAML returns the embedded default settings file.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), defaultConfigYAML...)
}

// Config is the merged tool configuration.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Neovate NeovateConfig `yaml:"neovate"`
	Skills  SkillsConfig  `yaml:"skills"`
	Output  OutputConfig  `yaml:"output"`
	UI      UIConfig      `yaml:"ui"`
}

type AppConfig struct {
	Name string `yaml:"name"`
}

// NeovateConfig locates the edited file and the tool's data directory.
type NeovateConfig struct {
	ConfigPath string `yaml:"config_path"`
	DataDir    string `yaml:"data_dir"`
	Backup     bool   `yaml:"backup"`
}

type SkillsConfig struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
}

type UIConfig struct {
	Colors map[string]string `yaml:"colors"`
}

// Default decodes the embedded settings.
func Default() (Config, error) {
	var cfg Config
	if len(defaultConfigYAML) == 0 {
		return cfg, errors.New("embedded default config is empty")
	}
	if err := yaml.Unmarshal(defaultConfigYAML, &cfg); err != nil {
		return cfg, fmt.Errorf("decode default config: %w", err)
	}
	return cfg, nil
}

// Load returns the defaults overlaid with the file at path. An empty path
// returns the defaults. Keys absent from the file keep their default.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read settings file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("decode settings file %s: %w", path, err)
		}
	}
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	return cfg, nil
}

// ResolvePath returns explicit when set, otherwise the first existing file of
// $XDG_CONFIG_HOME/nvset/config.yaml and ~/.config/nvset/config.yaml. It
// returns "" when none exists.
func ResolvePath(explicit, home string) string {
	if explicit != "" {
		return explicit
	}
	var candidates []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, "nvset", "config.yaml"))
	}
	if home != "" {
		candidates = append(candidates, filepath.Join(home, ".config", "nvset", "config.yaml"))
	}
	for _, c := range candidates {
		if st, err := os.Stat(c); err == nil && !st.IsDir() {
			return c
		}
	}
	return ""
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
