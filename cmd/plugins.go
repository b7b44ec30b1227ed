package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/nvset/pkg/session"
)

func newPluginsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "List and change plugin entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			entries := a.sess.Plugins()
			if len(entries) == 0 {
				a.info("no plugins configured")
				return nil
			}
			builtin, _ := a.sess.BuiltinNotifyEntry()
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				kind := "custom"
				if e == builtin {
					kind = "builtin notify"
				}
				rows = append(rows, []string{e, kind})
			}
			printTable(a.out, a.run.NoColor, []string{"ENTRY", "KIND"}, rows)
			return nil
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "enable-notify",
			Short: "Install the builtin notify plugin and add it to plugins",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := newApp(cmd, opts)
				if err != nil {
					return err
				}
				ctx := cmd.Context()
				return a.mutate(ctx, func(s *session.Session) error {
					res, err := s.EnableBuiltinNotify(ctx)
					if err != nil {
						return err
					}
					if res != nil && res.Wrote {
						a.info("installed " + res.Path)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "disable-notify",
			Short: "Remove the builtin notify plugin entry",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := newApp(cmd, opts)
				if err != nil {
					return err
				}
				return a.mutate(cmd.Context(), func(s *session.Session) error {
					s.DisableBuiltinNotify()
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "add PATH",
			Short: "Append a custom plugin entry",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				entry := strings.TrimSpace(args[0])
				if entry == "" {
					return errors.New("plugin path is empty")
				}
				a, err := newApp(cmd, opts)
				if err != nil {
					return err
				}
				return a.mutate(cmd.Context(), func(s *session.Session) error {
					err := s.AddCustomPlugin(entry)
					if errors.Is(err, session.ErrPluginExists) {
						a.info(entry + " is already listed")
						return nil
					}
					return err
				})
			},
		},
		&cobra.Command{
			Use:   "remove PATH",
			Short: "Remove a custom plugin entry",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd, opts)
				if err != nil {
					return err
				}
				return a.mutate(cmd.Context(), func(s *session.Session) error {
					s.RemoveCustomPlugin(args[0])
					return nil
				})
			},
		},
	)
	return cmd
}
