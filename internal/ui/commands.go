package ui

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/nvset/pkg/host"
	"github.com/oakwood-commons/nvset/pkg/session"
)

type loadedMsg struct{ err error }

type savedMsg struct {
	res *host.WriteConfigResponse
	err error
}

type notifyEnabledMsg struct {
	res *host.InstallPluginResponse
	err error
}

type skillsRunMsg struct {
	outcome *session.SkillsOutcome
	err     error
}

type skillsAppliedMsg struct {
	mode host.MigrationMode
	res  *host.SkillsMigrationResult
	err  error
}

func reloadCmd(ctx context.Context, s *session.Session) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: s.Reload(ctx)}
	}
}

func saveCmd(ctx context.Context, s *session.Session) tea.Cmd {
	return func() tea.Msg {
		res, err := s.Save(ctx)
		return savedMsg{res: res, err: err}
	}
}

func enableNotifyCmd(ctx context.Context, s *session.Session) tea.Cmd {
	return func() tea.Msg {
		res, err := s.EnableBuiltinNotify(ctx)
		return notifyEnabledMsg{res: res, err: err}
	}
}

func runSkillsCmd(ctx context.Context, s *session.Session) tea.Cmd {
	return func() tea.Msg {
		outcome, err := s.RunSkillsMigration(ctx)
		return skillsRunMsg{outcome: outcome, err: err}
	}
}

func applySkillsCmd(ctx context.Context, s *session.Session, mode host.MigrationMode) tea.Cmd {
	return func() tea.Msg {
		res, err := s.ApplySkillsMigration(ctx, mode)
		return skillsAppliedMsg{mode: mode, res: res, err: err}
	}
}
