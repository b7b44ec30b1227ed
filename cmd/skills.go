package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/nvset/pkg/host"
	"github.com/oakwood-commons/nvset/pkg/session"
)

type skillsFlags struct {
	source string
	target string
}

func (f *skillsFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.source, "source", "", "directory to copy skills from (default ~/.claude/skills)")
	cmd.Flags().StringVar(&f.target, "target", "", "directory to copy skills to (default ~/.neovate/skills)")
}

// prepare loads the session and applies any path flags, which are then
// remembered for the next run.
func (f *skillsFlags) prepare(ctx context.Context, cmd *cobra.Command, a *app) error {
	if err := a.load(ctx); err != nil {
		return err
	}
	if cmd.Flags().Changed("source") {
		a.sess.SetSkillsSourcePath(strings.TrimSpace(f.source))
	}
	if cmd.Flags().Changed("target") {
		a.sess.SetSkillsTargetPath(strings.TrimSpace(f.target))
	}
	return nil
}

func newSkillsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skills",
		Short: "Copy skills from another tool's skills directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newSkillsPlanCmd(opts), newSkillsApplyCmd(opts))
	return cmd
}

func newSkillsPlanCmd(opts *rootOptions) *cobra.Command {
	var flags skillsFlags
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what a skills migration would copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := flags.prepare(ctx, cmd, a); err != nil {
				return err
			}
			st := a.sess.Snapshot()
			if strings.TrimSpace(st.SkillsSource) == "" || strings.TrimSpace(st.SkillsTarget) == "" {
				return session.ErrSkillsPathsRequired
			}
			plan, err := a.bridge.PlanSkillsMigration(ctx, host.SkillsPlanRequest{
				SourcePath: st.SkillsSource,
				TargetPath: st.SkillsTarget,
			})
			if err != nil {
				return err
			}
			if len(plan.Items) == 0 {
				a.info("nothing to migrate from " + st.SkillsSource)
				return nil
			}
			rows := make([][]string, 0, len(plan.Items))
			for _, it := range plan.Items {
				status := "new"
				if it.Exists {
					status = "exists"
				}
				rows = append(rows, []string{it.Name, status, it.Target})
			}
			printTable(a.out, a.run.NoColor, []string{"NAME", "STATUS", "TARGET"}, rows)
			a.info(fmt.Sprintf("%d item(s), %d conflict(s)", len(plan.Items), plan.ConflictCount))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newSkillsApplyCmd(opts *rootOptions) *cobra.Command {
	var (
		flags skillsFlags
		mode  string
	)
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Copy skills into the Neovate skills directory",
		Long: `Copy every skill from the source directory into the target directory.
When some skills already exist in the target, --mode decides whether they
are replaced or skipped; without it the command stops and lists them.`,
		Example: "\n  nvset skills apply\n  nvset skills apply --mode skip --source ~/work/skills\n",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var m host.MigrationMode
			switch host.MigrationMode(mode) {
			case "":
			case host.ModeReplace, host.ModeSkip:
				m = host.MigrationMode(mode)
			default:
				return fmt.Errorf("invalid mode %q (replace, skip)", mode)
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := flags.prepare(ctx, cmd, a); err != nil {
				return err
			}
			out, err := a.sess.RunSkillsMigration(ctx)
			if err != nil {
				return err
			}
			switch out.Kind {
			case session.SkillsNothingToMigrate:
				a.info("nothing to migrate")
				return nil
			case session.SkillsApplied:
				a.info(skillsResultLine(out.Result))
				return nil
			}
			if m == "" {
				names := make([]string, 0, out.Plan.ConflictCount)
				for _, it := range out.Plan.Conflicts() {
					names = append(names, it.Name)
				}
				return errors.New("already in target: " + strings.Join(names, ", ") + "; rerun with --mode replace or --mode skip")
			}
			res, err := a.sess.ApplySkillsMigration(ctx, m)
			if err != nil {
				return err
			}
			a.info(skillsResultLine(res))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&mode, "mode", "", "what to do with existing skills: replace or skip")
	return cmd
}

func skillsResultLine(res *host.SkillsMigrationResult) string {
	return fmt.Sprintf("skills migrated: %d copied, %d replaced, %d skipped", res.Copied, res.Replaced, res.Skipped)
}
