package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oakwood-commons/nvset/internal/formatter"
	"github.com/oakwood-commons/nvset/internal/ui"
	"github.com/oakwood-commons/nvset/pkg/logger"
	"github.com/oakwood-commons/nvset/pkg/settings"
)

// rootOptions are the global flags.
type rootOptions struct {
	configPath   string
	dataDir      string
	settingsFile string
	logFile      string
	debug        bool
	noColor      bool
	quiet        bool
	force        bool

	closeLog func()
}

// finish flushes the logger and closes the --log-file sink. It runs after
// every command, including failed ones.
func (o *rootOptions) finish() {
	logger.Sync()
	if o.closeLog != nil {
		o.closeLog()
		o.closeLog = nil
	}
}

var errNotTerminal = errors.New("the editor needs a terminal; use `nvset show` or the other subcommands in scripts")

// isInteractive reports whether both stdin and stdout are terminals.
var isInteractive = func() bool {
	return formatter.IsTerminal(os.Stdout) && formatter.IsTerminal(os.Stdin)
}

var openLogSink = logger.OpenSink

func newRootCmd() (*cobra.Command, *rootOptions) {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   settings.CliBinaryName,
		Short: "Edit the Neovate settings file (~/.neovate/config.json)",
		Long: `nvset edits the Neovate settings file.

Without a subcommand it opens an interactive editor. The subcommands read and
change single settings from scripts. Every change is written atomically and
the previous file is kept as <name>.bak-<unix seconds>.`,
		Example: "\n  nvset\n  nvset show -o yaml\n  nvset set model openai/gpt-4o\n  nvset get -e '_.plugins.size()'\n  nvset plugins enable-notify\n",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			run := settings.NewCliParams()
			run.NoColor = opts.noColor || os.Getenv("NO_COLOR") != ""
			run.IsQuiet = opts.quiet
			run.Paths = settings.Paths{
				ConfigPath:   opts.configPath,
				DataDir:      opts.dataDir,
				SettingsFile: opts.settingsFile,
				LogFile:      opts.logFile,
			}
			if opts.debug {
				run.MinLogLevel = settings.DebugLogLevel
			}

			var logOpts []logger.Option
			switch {
			case opts.logFile != "":
				ws, closeFn, err := openLogSink(opts.logFile)
				if err != nil {
					return err
				}
				opts.closeLog = closeFn
				logOpts = append(logOpts, logger.WithSink(ws))
			case !cmd.HasParent():
				// The editor owns the screen.
				logOpts = append(logOpts, logger.WithSink(logger.DiscardSink()))
			}
			lgr := logger.Get(run.MinLogLevel, logOpts...)
			lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = logger.WithLogger(ctx, lgr)
			ctx = settings.IntoContext(ctx, run)
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isInteractive() {
				return errNotTerminal
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return ui.Run(cmd.Context(), a.sess, ui.Options{
				Theme:   ui.ThemeFromColors(a.cfg.UI.Colors),
				NoColor: a.run.NoColor,
			})
		},
	}

	root.SetGlobalNormalizationFunc(normalizeFlagName)
	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config-path", "", "Neovate settings file to edit (default ~/.neovate/config.json)")
	pf.StringVar(&opts.dataDir, "data-dir", "", "directory for bundled plugins and editor state (default $XDG_DATA_HOME/nvset)")
	pf.StringVar(&opts.settingsFile, "settings-file", "", "nvset settings file (default $XDG_CONFIG_HOME/nvset/config.yaml)")
	pf.StringVar(&opts.logFile, "log-file", "", "append JSON logs to this file")
	pf.BoolVar(&opts.debug, "debug", false, "enable verbose logging")
	pf.BoolVar(&opts.noColor, "no-color", false, "disable color output")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "only print requested values")
	pf.BoolVar(&opts.force, "force", false, "allow changes when the current file is not valid JSON (it is replaced)")

	root.AddCommand(
		newShowCmd(opts),
		newGetCmd(opts),
		newSetCmd(opts),
		newUnsetCmd(opts),
		newCommitCmd(opts),
		newNotificationCmd(opts),
		newDesktopCmd(opts),
		newAgentCmd(opts),
		newMcpCmd(opts),
		newPluginsCmd(opts),
		newSkillsCmd(opts),
		newCatalogCmd(opts),
		newPatchCmd(opts),
		newInvokeCmd(opts),
		newPathCmd(opts),
		newVersionCmd(),
		newConfigCmd(opts),
	)
	return root, opts
}

// normalizeFlagName accepts underscores in long flags, so --config_path
// works like --config-path.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// Execute runs the command line.
func Execute() error {
	root, opts := newRootCmd()
	defer opts.finish()
	return root.ExecuteContext(context.Background())
}

func cliVersionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s)", settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the nvset version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
			return nil
		},
	}
}
