package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// StateFileName is the state file kept in the data directory.
const StateFileName = "state.yaml"

type stateFile struct {
	Skills SkillsConfig `yaml:"skills"`
}

// StateStore remembers the skills migration paths between runs.
type StateStore struct {
	path string
}

// NewStateStore keeps state in dataDir/state.yaml.
func NewStateStore(dataDir string) *StateStore {
	return &StateStore{path: filepath.Join(dataDir, StateFileName)}
}

func (s *StateStore) Path() string {
	return s.path
}

// LoadSkillsPaths returns the remembered paths. A missing file yields empty
// paths and no error.
func (s *StateStore) LoadSkillsPaths() (string, string, error) {
	st, err := s.read()
	if err != nil {
		return "", "", err
	}
	return st.Skills.Source, st.Skills.Target, nil
}

// SaveSkillsPaths writes the paths, creating the data directory.
func (s *StateStore) SaveSkillsPaths(source, target string) error {
	st, err := s.read()
	if err != nil {
		st = stateFile{}
	}
	st.Skills = SkillsConfig{Source: source, Target: target}
	data, err := yaml.Marshal(st)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *StateStore) read() (stateFile, error) {
	var st stateFile
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, err
	}
	if err := yaml.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return st, nil
}
