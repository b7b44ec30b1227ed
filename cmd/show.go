package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/nvset/internal/config"
	"github.com/oakwood-commons/nvset/internal/formatter"
	"github.com/oakwood-commons/nvset/internal/limiter"
	"github.com/oakwood-commons/nvset/internal/query"
	"github.com/oakwood-commons/nvset/pkg/catalog"
	"github.com/oakwood-commons/nvset/pkg/host"
	"github.com/oakwood-commons/nvset/pkg/jsontext"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	var (
		output string
		tree   formatter.TreeOptions
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the settings as nvset would save them",
		Long: `Print the settings file normalized the way the editor writes it.

A file that is not valid JSON is shown as an empty object, which is what
saving would write.

With -o tree the settings print as a tree; --types labels every node with
its JSON type and --depth stops descending after N levels.`,
		Example: "\n  nvset show -o yaml\n  nvset show -o tree --types --depth 1\n",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			if !a.sess.IsValid() {
				a.lgr.Info("settings file is not valid JSON", "path", a.sess.Path())
			}
			return a.render(a.sess.PreviewConfig(), output, tree)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: json|yaml|toml|tree (default from settings)")
	cmd.Flags().BoolVar(&tree.Types, "types", false, "tree output: label nodes with their JSON type")
	cmd.Flags().IntVar(&tree.MaxDepth, "depth", 0, "tree output: maximum depth (0 = unlimited)")
	return cmd
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	var (
		output string
		expr   string
		raw    bool
		limit  limiter.Config
	)
	cmd := &cobra.Command{
		Use:   "get [KEY]",
		Short: "Print one setting or a CEL expression over the settings",
		Long: `Print the value stored at KEY. KEY is a setting name or a path such as
commit.language, plugins[0] or mcpServers["my-server"].

With -e, evaluate a CEL expression; the settings object is bound to '_'.`,
		Example: "\n  nvset get model\n  nvset get commit.language\n  nvset get -e '_.plugins.size()'\n  nvset get -e 'has(_.quiet) && _.quiet'\n",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (expr == "") == (len(args) == 0) {
				return fmt.Errorf("pass either KEY or --expression")
			}
			if err := limit.Validate(); err != nil {
				return err
			}
			var ev *query.Evaluator
			if expr != "" {
				var err error
				if ev, err = query.NewEvaluator(); err != nil {
					return err
				}
				if err := ev.Check(expr); err != nil {
					return err
				}
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			preview := a.sess.PreviewConfig()

			var value any
			if ev != nil {
				if value, err = ev.Evaluate(expr, preview); err != nil {
					return err
				}
			} else {
				path, err := jsontext.ParsePath(args[0])
				if err != nil {
					return err
				}
				v, ok := jsontext.GetValueAtPath(preview, path)
				if !ok {
					return fmt.Errorf("%s is not set", jsontext.PathToDisplay(path))
				}
				value = v
			}
			value = limit.Apply(value)
			if s, ok := value.(string); ok && raw {
				fmt.Fprintln(a.out, s)
				return nil
			}
			return a.render(value, output, formatter.TreeOptions{})
		},
	}
	cmd.Flags().StringVarP(&expr, "expression", "e", "", "CEL expression using '_' as the settings object")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json|yaml|toml|tree")
	cmd.Flags().BoolVarP(&raw, "raw", "r", false, "print strings without JSON quoting")
	cmd.Flags().IntVar(&limit.Limit, "limit", 0, "print only the first N array items or object keys")
	cmd.Flags().IntVar(&limit.Offset, "offset", 0, "skip the first N array items or object keys")
	cmd.Flags().IntVar(&limit.Tail, "tail", 0, "print only the last N array items or object keys")
	return cmd
}

func newPathCmd(opts *rootOptions) *cobra.Command {
	var showData bool
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the path of the settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			if showData {
				fmt.Fprintln(a.out, a.bridge.DataDir())
				return nil
			}
			p, err := a.bridge.ConfigPath(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, p)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showData, "data", false, "print the data directory instead")
	return cmd
}

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	var kindName string
	cmd := &cobra.Command{
		Use:   "catalog [SEARCH]",
		Short: "List the known settings",
		Long: `List the settings nvset knows about, optionally filtered by a
case-insensitive keyword and by kind (enum, boolean, string, number, complex).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword := ""
			if len(args) == 1 {
				keyword = args[0]
			}
			defs := catalog.Filter(keyword)
			if kindName != "" {
				kind, err := catalog.ParseKind(kindName)
				if err != nil {
					return err
				}
				defs = slices.DeleteFunc(defs, func(d catalog.SettingDef) bool { return d.Kind != kind })
			}
			if len(defs) == 0 {
				return fmt.Errorf("no settings match %q", keyword)
			}
			rows := make([][]string, 0, len(defs))
			for _, d := range defs {
				kind := d.Kind.String()
				if len(d.Options) > 0 {
					kind += " (" + strings.Join(d.Options, "|") + ")"
				}
				rows = append(rows, []string{d.Key, kind, d.DefaultHint, d.Description})
			}
			printTable(cmd.OutOrStdout(), opts.noColor, []string{"KEY", "KIND", "DEFAULT", "DESCRIPTION"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&kindName, "kind", "", "only list settings of this kind")
	return cmd
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the merged nvset settings",
		Long: `Print nvset's own settings: the embedded defaults merged with the settings
file. Use --default to print the embedded defaults as a starting point.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if d, _ := cmd.Flags().GetBool("default"); d {
				_, err := cmd.OutOrStdout().Write(config.DefaultConfigYAML())
				return err
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			switch output {
			case "yaml", "":
				data, err := config.Marshal(a.cfg)
				if err != nil {
					return err
				}
				_, err = a.out.Write(data)
				return err
			case "path":
				home, _ := host.HomeDir()
				fmt.Fprintln(a.out, config.ResolvePath(a.run.Paths.SettingsFile, home))
				return nil
			default:
				return fmt.Errorf("invalid output for config: %s (use yaml|path)", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output: yaml|path")
	cmd.Flags().Bool("default", false, "print the embedded default settings")
	return cmd
}

// printTable writes rows as an aligned table. Colour and truncation only
// apply when out is a terminal.
func printTable(out io.Writer, noColor bool, headers []string, rows [][]string) {
	width := 0
	if f, ok := out.(*os.File); ok && formatter.IsTerminal(f) {
		width = formatter.TerminalWidth(0)
	} else {
		noColor = true
	}
	fmt.Fprint(out, formatter.RenderRows(headers, rows, noColor, width))
}
