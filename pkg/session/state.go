package session

import (
	"github.com/oakwood-commons/nvset/pkg/catalog"
	"github.com/oakwood-commons/nvset/pkg/document"
	"github.com/oakwood-commons/nvset/pkg/host"
	"github.com/oakwood-commons/nvset/pkg/reconcile"
)

// State is a consistent copy of the session for rendering.
type State struct {
	Path       string
	Exists     bool
	Loaded     bool
	SourceText string
	Valid      bool

	Form         reconcile.FormState
	Commit       reconcile.CommitConfig
	Notification reconcile.NotificationDraft
	Desktop      reconcile.DesktopDraft
	Agents       reconcile.AgentDraft
	McpDraft     string
	McpError     string

	SearchText string
	Loading    bool
	PluginBusy bool
	SkillsBusy bool

	BuiltinNotifyPath string
	SkillsSource      string
	SkillsTarget      string
	PendingSkillsPlan *host.SkillsMigrationPlan

	Preview     *document.Object
	PreviewText string
	Dirty       bool
}

// Snapshot returns the current state with every selector evaluated once.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	preview := s.previewLocked()
	text := reconcile.StringifyConfig(preview)
	return State{
		Path:              s.path,
		Exists:            s.exists,
		Loaded:            s.loaded,
		SourceText:        s.sourceText,
		Valid:             s.validLocked(),
		Form:              s.form.Clone(),
		Commit:            s.commit,
		Notification:      s.notification,
		Desktop:           s.desktop,
		Agents:            append(reconcile.AgentDraft(nil), s.agents...),
		McpDraft:          s.mcpDraft,
		McpError:          s.mcpError,
		SearchText:        s.searchText,
		Loading:           s.loading,
		PluginBusy:        s.pluginBusy,
		SkillsBusy:        s.skillsBusy,
		BuiltinNotifyPath: s.builtinNotifyPath,
		SkillsSource:      s.skillsSource,
		SkillsTarget:      s.skillsTarget,
		PendingSkillsPlan: s.pendingPlan,
		Preview:           preview,
		PreviewText:       text,
		Dirty:             text != s.baseline,
	}
}

func (s *Session) previewLocked() *document.Object {
	return reconcile.ApplyFormValues(s.base, s.form)
}

func (s *Session) previewTextLocked() string {
	return reconcile.StringifyConfig(s.previewLocked())
}

func (s *Session) validLocked() bool {
	_, err := reconcile.ParseConfigText(s.sourceText)
	return err == nil
}

// IsValid reports whether the last loaded text was valid JSON.
func (s *Session) IsValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validLocked()
}

// PreviewConfig is the base configuration overlaid with the form values.
func (s *Session) PreviewConfig() *document.Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previewLocked()
}

// PreviewText is what Save would write.
func (s *Session) PreviewText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previewTextLocked()
}

// Dirty reports whether the preview differs from what was last loaded or
// saved.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previewTextLocked() != s.baseline
}

// Path returns the configuration file path, known after the first load.
func (s *Session) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// FilteredSettings applies the search text to the catalog.
func (s *Session) FilteredSettings() []catalog.SettingDef {
	s.mu.Lock()
	kw := s.searchText
	s.mu.Unlock()
	return catalog.Filter(kw)
}

// Value returns the preview value stored under key.
func (s *Session) Value(key string) (any, bool) {
	return s.PreviewConfig().Get(key)
}

// Plugins returns the string entries of the preview plugins list.
func (s *Session) Plugins() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pluginsLocked()
}

// BuiltinNotifyEntry returns the plugins entry for the bundled notification
// plugin, if any.
func (s *Session) BuiltinNotifyEntry() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pluginsLocked() {
		if s.isBuiltinNotifyLocked(p) {
			return p, true
		}
	}
	return "", false
}

// BuiltinNotifyEnabled reports whether BuiltinNotifyEntry finds an entry.
func (s *Session) BuiltinNotifyEnabled() bool {
	_, ok := s.BuiltinNotifyEntry()
	return ok
}

// CustomPlugins returns the plugins that are not the bundled one.
func (s *Session) CustomPlugins() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, p := range s.pluginsLocked() {
		if !s.isBuiltinNotifyLocked(p) {
			out = append(out, p)
		}
	}
	return out
}

// AgentTypes lists the builtin agent types followed by any other type
// present in the draft.
func (s *Session) AgentTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AgentTypes(s.agents)
}

// AgentTypes merges the builtin agent types with the draft's types.
func AgentTypes(draft reconcile.AgentDraft) []string {
	out := append([]string(nil), catalog.BuiltinAgentTypes...)
	for _, t := range draft.Types() {
		if !catalog.IsBuiltinAgentType(t) {
			out = append(out, t)
		}
	}
	return out
}
