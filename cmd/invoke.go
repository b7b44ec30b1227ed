package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/oakwood-commons/nvset/pkg/host"
)

func newInvokeCmd(opts *rootOptions) *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "invoke COMMAND [JSON]",
		Short: "Call a host bridge command directly",
		Long: `Run one of the host bridge commands the editor uses and print its JSON
result. Arguments are passed as a JSON object.`,
		Example: "\n  nvset invoke read_config\n  nvset invoke plan_skills_migration '{\"sourcePath\":\"~/.claude/skills\",\"targetPath\":\"~/.neovate/skills\"}'\n",
		Args:    cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(host.Commands(), "\n"))
				return nil
			}
			if len(args) == 0 {
				return errors.New("pass a command name or --list")
			}
			var payload []byte
			if len(args) == 2 {
				payload = []byte(args[1])
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			out, err := host.Invoke(cmd.Context(), a.bridge, args[0], payload)
			if err != nil {
				return err
			}
			out = pretty.Pretty(out)
			if a.colorOutput() {
				out = pretty.Color(out, pretty.TerminalStyle)
			}
			_, err = a.out.Write(out)
			return err
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list the available commands")
	return cmd
}
