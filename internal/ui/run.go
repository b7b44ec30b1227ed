package ui

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/nvset/pkg/logger"
	"github.com/oakwood-commons/nvset/pkg/session"
)

// Run starts the editor and blocks until the user quits. Extra program
// options (custom input or output) are passed to tea.NewProgram.
func Run(ctx context.Context, sess *session.Session, opts Options, progOpts ...tea.ProgramOption) error {
	lgr := logger.FromContext(ctx)
	progOpts = append([]tea.ProgramOption{tea.WithContext(ctx)}, progOpts...)
	p := tea.NewProgram(New(ctx, sess, opts), progOpts...)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		lgr.Error(err, "editor exited with error")
		return err
	}
	lgr.V(1).Info("editor closed")
	return nil
}
