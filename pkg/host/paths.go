package host

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeDir reads HOME, then USERPROFILE.
func HomeDir() (string, error) {
	for _, env := range []string{"HOME", "USERPROFILE"} {
		if h := os.Getenv(env); strings.TrimSpace(h) != "" {
			return h, nil
		}
	}
	return "", ErrNoHome
}

// DefaultConfigPath is <home>/.neovate/config.json.
func DefaultConfigPath(home string) string {
	return filepath.Join(home, ".neovate", "config.json")
}

// DefaultDataDir follows the XDG data directory convention.
func DefaultDataDir(home string) string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "nvset")
	}
	return filepath.Join(home, ".local", "share", "nvset")
}

// ExpandTilde replaces a leading ~, ~/ or ~\ with home.
func ExpandTilde(path, home string) (string, error) {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		rest, ok = strings.CutPrefix(path, `~\`)
	}
	if !ok && strings.TrimSpace(path) == "~" {
		rest, ok = "", true
	}
	if !ok {
		return path, nil
	}
	if home == "" {
		h, err := HomeDir()
		if err != nil {
			return "", err
		}
		home = h
	}
	return filepath.Join(home, rest), nil
}
