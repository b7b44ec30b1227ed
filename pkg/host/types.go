package host

// ReadConfigResponse is the result of reading the configuration file.
type ReadConfigResponse struct {
	Path    string `json:"path"`
	Exists  bool   `json:"exists"`
	Content string `json:"content"`
}

type WriteConfigRequest struct {
	Content string `json:"content"`
}

// WriteConfigResponse reports where the file went and, when a previous
// file existed, where its backup copy is.
type WriteConfigResponse struct {
	Path       string `json:"path"`
	BackupPath string `json:"backup_path,omitempty"`
}

type InstallPluginRequest struct {
	ID string `json:"id"`
}

// InstallPluginResponse carries the installed plugin path. Wrote is false
// when the file already existed and was left alone.
type InstallPluginResponse struct {
	ID    string `json:"id"`
	Path  string `json:"path"`
	Wrote bool   `json:"wrote"`
}

type SkillsPlanRequest struct {
	SourcePath string `json:"sourcePath"`
	TargetPath string `json:"targetPath"`
}

// MigrationMode decides what happens to skills that already exist in the
// target directory.
type MigrationMode string

const (
	ModeReplace MigrationMode = "replace"
	ModeSkip    MigrationMode = "skip"
)

type SkillsApplyRequest struct {
	SourcePath string        `json:"sourcePath"`
	TargetPath string        `json:"targetPath"`
	Mode       MigrationMode `json:"mode"`
}

// SkillsMigrationItem is one file or directory to copy.
type SkillsMigrationItem struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Target string `json:"target"`
	Exists bool   `json:"exists"`
	IsDir  bool   `json:"isDir"`
}

type SkillsMigrationPlan struct {
	Items         []SkillsMigrationItem `json:"items"`
	ConflictCount int                   `json:"conflictCount"`
}

// Conflicts returns the items whose target already exists.
func (p *SkillsMigrationPlan) Conflicts() []SkillsMigrationItem {
	var out []SkillsMigrationItem
	for _, it := range p.Items {
		if it.Exists {
			out = append(out, it)
		}
	}
	return out
}

type SkillsMigrationResult struct {
	Copied   int `json:"copied"`
	Skipped  int `json:"skipped"`
	Replaced int `json:"replaced"`
}
