package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oakwood-commons/nvset/pkg/catalog"
	"github.com/oakwood-commons/nvset/pkg/reconcile"
)

// SetFormValue sets a scalar setting. A nil value restores the default.
func (s *Session) SetFormValue(key string, value any) error {
	def, ok := catalog.Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	if def.IsComplex() {
		return fmt.Errorf("%w: %s", ErrNotScalar, key)
	}
	if err := reconcile.CheckFormValue(def, value); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.form.Clone()
	if value == nil {
		delete(next, key)
	} else {
		next[key] = value
	}
	s.form = next
	return nil
}

// UpdateCommitDraft edits the commit draft and mirrors the normalized value
// into the configuration.
func (s *Session) UpdateCommitDraft(fn func(*reconcile.CommitConfig)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := s.commit
	fn(&draft)
	s.commit = draft
	if n := reconcile.NormalizeCommitConfig(draft); n != nil {
		s.setBaseKey("commit", n.Value())
	} else {
		s.deleteBaseKey("commit")
	}
}

func (s *Session) ResetCommitDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit = reconcile.CommitConfig{}
	s.deleteBaseKey("commit")
}

// UpdateNotificationDraft edits the notification draft.
func (s *Session) UpdateNotificationDraft(fn func(*reconcile.NotificationDraft)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := s.notification
	fn(&draft)
	s.notification = draft
	if v := reconcile.NormalizeNotificationValue(draft); v != nil {
		s.setBaseKey("notification", v)
	} else {
		s.deleteBaseKey("notification")
	}
}

func (s *Session) ResetNotificationDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notification = reconcile.NotificationDraft{Mode: reconcile.NotifyOff}
	s.deleteBaseKey("notification")
}

// UpdateDesktopDraft edits the desktop draft.
func (s *Session) UpdateDesktopDraft(fn func(*reconcile.DesktopDraft)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft := s.desktop
	if draft.TerminalFontSize != nil {
		size := *draft.TerminalFontSize
		draft.TerminalFontSize = &size
	}
	fn(&draft)
	s.desktop = draft
	if n := reconcile.NormalizeDesktopConfig(draft); n != nil {
		s.setBaseKey("desktop", n.Value())
	} else {
		s.deleteBaseKey("desktop")
	}
}

func (s *Session) ResetDesktopDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.desktop = reconcile.DesktopDraft{}
	s.deleteBaseKey("desktop")
}

func (s *Session) applyAgents(draft reconcile.AgentDraft) {
	s.agents = draft
	if n := reconcile.NormalizeAgentConfig(draft); n != nil {
		s.setBaseKey("agent", n.Value())
	} else {
		s.deleteBaseKey("agent")
	}
}

// UpdateAgentModel sets the model for one agent type. An empty model keeps
// the type in the draft but drops it from the configuration.
func (s *Session) UpdateAgentModel(agentType, model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyAgents(s.agents.With(agentType, model))
}

// RemoveAgent drops an agent type from the draft.
func (s *Session) RemoveAgent(agentType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyAgents(s.agents.Without(agentType))
}

func (s *Session) ResetAgentDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agents = nil
	s.deleteBaseKey("agent")
}

// UpdateMcpServersDraft stores the raw mcpServers text. Text that parses to
// an object is applied; anything else records an inline error, returned as
// a *reconcile.DraftError, and leaves the configuration unchanged.
func (s *Session) UpdateMcpServersDraft(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mcpDraft = text
	obj, err := reconcile.ParseMcpServersText(text)
	if err != nil {
		s.mcpError = err.Error()
		var draftErr *reconcile.DraftError
		if errors.As(err, &draftErr) {
			s.mcpError = draftErr.Msg
		}
		return err
	}
	s.mcpError = ""
	if obj == nil {
		s.deleteBaseKey("mcpServers")
	} else {
		s.setBaseKey("mcpServers", obj)
	}
	return nil
}

// FormatMcpServersDraft pretty prints the draft when it holds an object.
func (s *Session) FormatMcpServersDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if formatted, ok := reconcile.FormatMcpServersText(s.mcpDraft); ok {
		s.mcpDraft = formatted
		s.mcpError = ""
	}
}

func (s *Session) ResetMcpServersDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mcpDraft = ""
	s.mcpError = ""
	s.deleteBaseKey("mcpServers")
}

// SetSearchText sets the catalog filter keyword.
func (s *Session) SetSearchText(text string) {
	s.mu.Lock()
	s.searchText = text
	s.mu.Unlock()
}

// SetSkillsSourcePath sets and remembers the migration source.
func (s *Session) SetSkillsSourcePath(path string) {
	s.mu.Lock()
	s.skillsSource = path
	src, tgt := s.skillsSource, s.skillsTarget
	s.mu.Unlock()
	s.rememberSkillsPaths(src, tgt)
}

// SetSkillsTargetPath sets and remembers the migration target.
func (s *Session) SetSkillsTargetPath(path string) {
	s.mu.Lock()
	s.skillsTarget = path
	src, tgt := s.skillsSource, s.skillsTarget
	s.mu.Unlock()
	s.rememberSkillsPaths(src, tgt)
}

func (s *Session) rememberSkillsPaths(src, tgt string) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveSkillsPaths(src, tgt); err != nil {
		s.lgr.Error(err, "failed to remember skills paths")
	}
}

// defaultSkillsPaths fills unset skills paths from the home directory
// implied by the config path. Callers hold s.mu.
func (s *Session) defaultSkillsPaths() {
	home, ok := reconcile.InferHomeFromConfigPath(s.path)
	if !ok {
		return
	}
	sep := "/"
	if strings.HasSuffix(s.path, `\config.json`) {
		sep = `\`
	}
	if strings.TrimSpace(s.skillsSource) == "" {
		s.skillsSource = strings.Join([]string{home, ".claude", "skills"}, sep)
	}
	if strings.TrimSpace(s.skillsTarget) == "" {
		s.skillsTarget = strings.Join([]string{home, ".neovate", "skills"}, sep)
	}
}
