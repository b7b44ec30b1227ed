package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/nvset/pkg/catalog"
	"github.com/oakwood-commons/nvset/pkg/document"
	"github.com/oakwood-commons/nvset/pkg/host"
	"github.com/oakwood-commons/nvset/pkg/jsontext"
	"github.com/oakwood-commons/nvset/pkg/loader"
	"github.com/oakwood-commons/nvset/pkg/reconcile"
	"github.com/oakwood-commons/nvset/pkg/session"
)

// errUseSubcommand points complex settings to their own commands.
func errUseSubcommand(key string) error {
	switch key {
	case "commit", "notification", "desktop", "agent", "plugins", "skills":
		return fmt.Errorf("%s is structured; use `nvset %s`", key, key)
	case "mcpServers":
		return errors.New("mcpServers is structured; use `nvset mcp set`")
	}
	return fmt.Errorf("%s is structured; use `nvset patch %s JSON`", key, key)
}

func lookupSetting(key string) (catalog.SettingDef, error) {
	def, ok := catalog.Lookup(key)
	if !ok {
		return def, fmt.Errorf("unknown setting %q (see `nvset catalog`)", key)
	}
	return def, nil
}

func newSetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a simple setting",
		Long: `Set a string, number, boolean or enum setting. An empty VALUE removes the
setting. Structured settings have their own commands.`,
		Example: "\n  nvset set model openai/gpt-4o\n  nvset set quiet true\n  nvset set approvalMode autoEdit\n  nvset set temperature ''\n",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := lookupSetting(args[0])
			if err != nil {
				return err
			}
			if def.IsComplex() {
				return errUseSubcommand(def.Key)
			}
			v, err := reconcile.ParseFormInput(def, strings.TrimSpace(args[1]))
			if err != nil {
				return err
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.mutate(cmd.Context(), func(s *session.Session) error {
				return s.SetFormValue(def.Key, v)
			})
		},
	}
}

func newUnsetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Remove a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := lookupSetting(args[0])
			if err != nil {
				return err
			}
			var fn func(s *session.Session) error
			switch {
			case !def.IsComplex():
				fn = func(s *session.Session) error { return s.SetFormValue(def.Key, nil) }
			case def.Key == "commit":
				fn = func(s *session.Session) error { s.ResetCommitDraft(); return nil }
			case def.Key == "notification":
				fn = func(s *session.Session) error { s.ResetNotificationDraft(); return nil }
			case def.Key == "desktop":
				fn = func(s *session.Session) error { s.ResetDesktopDraft(); return nil }
			case def.Key == "agent":
				fn = func(s *session.Session) error { s.ResetAgentDraft(); return nil }
			case def.Key == "mcpServers":
				fn = func(s *session.Session) error { s.ResetMcpServersDraft(); return nil }
			default:
				return fmt.Errorf("%s cannot be unset here; use `nvset patch --delete %s`", def.Key, def.Key)
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.mutate(cmd.Context(), fn)
		},
	}
}

func newCommitCmd(opts *rootOptions) *cobra.Command {
	var (
		language, prompt, model string
		reset                   bool
	)
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Configure commit message generation",
		Long: `Set the commit message language, system prompt and model. Flags that are
not given keep their value; an empty value clears a field. Only
language "en" is the same as not configuring commit at all.`,
		Example: "\n  nvset commit --language fr\n  nvset commit --model openai/gpt-4o-mini --system-prompt ''\n  nvset commit --reset\n",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if !reset && !flags.Changed("language") && !flags.Changed("system-prompt") && !flags.Changed("model") {
				return errors.New("nothing to change; pass --language, --system-prompt, --model or --reset")
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.mutate(cmd.Context(), func(s *session.Session) error {
				if reset {
					s.ResetCommitDraft()
					return nil
				}
				s.UpdateCommitDraft(func(c *reconcile.CommitConfig) {
					if flags.Changed("language") {
						c.Language = language
					}
					if flags.Changed("system-prompt") {
						c.SystemPrompt = prompt
					}
					if flags.Changed("model") {
						c.Model = model
					}
				})
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&language, "language", "", "commit message language")
	cmd.Flags().StringVar(&prompt, "system-prompt", "", "system prompt for commit messages")
	cmd.Flags().StringVar(&model, "model", "", "model for commit messages (provider_id/model_id)")
	cmd.Flags().BoolVar(&reset, "reset", false, "remove the commit setting")
	return cmd
}

func newNotificationCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "notification MODE [VALUE]",
		Short: "Configure the session stop notification",
		Long: `Set how Neovate announces a finished session. MODE is one of:

  off            no notification
  defaultSound   play the default sound
  sound NAME     play a macOS system sound (` + strings.Join(catalog.MacOSSounds, ", ") + `)
  webhook URL    call an http(s) webhook`,
		Example: "\n  nvset notification sound Glass\n  nvset notification webhook https://example.com/hook\n  nvset notification off\n",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, ok := reconcile.ParseNotificationMode(args[0])
			if !ok {
				return fmt.Errorf("unknown mode %q (off, defaultSound, sound, webhook)", args[0])
			}
			draft := reconcile.NotificationDraft{Mode: mode}
			value := ""
			if len(args) == 2 {
				value = strings.TrimSpace(args[1])
			}
			switch mode {
			case reconcile.NotifySound:
				if value == "" {
					value = catalog.DefaultNotificationSound
				}
				draft.SoundName = value
			case reconcile.NotifyWebhook:
				if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
					return errors.New("webhook mode needs an http(s) URL")
				}
				draft.WebhookURL = value
			default:
				if value != "" {
					return fmt.Errorf("mode %s takes no value", mode)
				}
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.mutate(cmd.Context(), func(s *session.Session) error {
				s.UpdateNotificationDraft(func(d *reconcile.NotificationDraft) { *d = draft })
				return nil
			})
		},
	}
}

func newDesktopCmd(opts *rootOptions) *cobra.Command {
	var (
		theme, sendWith, font, fontSize string
		reset                           bool
	)
	cmd := &cobra.Command{
		Use:   "desktop",
		Short: "Configure the desktop application",
		Long: `Set desktop application options. Flags that are not given keep their
value; an empty value clears the field. Default values are not written.`,
		Example: "\n  nvset desktop --theme dark --send-with cmdEnter\n  nvset desktop --font-size 14\n",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("theme") && theme != "" && !contains(reconcile.DesktopThemes, theme) {
				return fmt.Errorf("invalid theme %q (%s)", theme, strings.Join(reconcile.DesktopThemes, ", "))
			}
			if flags.Changed("send-with") && sendWith != "" && !contains(reconcile.DesktopSendKeys, sendWith) {
				return fmt.Errorf("invalid send key %q (%s)", sendWith, strings.Join(reconcile.DesktopSendKeys, ", "))
			}
			var size *float64
			if flags.Changed("font-size") && fontSize != "" {
				def := catalog.SettingDef{Key: "terminalFontSize", Kind: catalog.KindNumber}
				v, err := reconcile.ParseFormInput(def, strings.TrimSpace(fontSize))
				if err != nil {
					return err
				}
				f := v.(float64)
				size = &f
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			return a.mutate(cmd.Context(), func(s *session.Session) error {
				if reset {
					s.ResetDesktopDraft()
					return nil
				}
				s.UpdateDesktopDraft(func(d *reconcile.DesktopDraft) {
					if flags.Changed("theme") {
						d.Theme = theme
					}
					if flags.Changed("send-with") {
						d.SendMessageWith = sendWith
					}
					if flags.Changed("font") {
						d.TerminalFont = font
					}
					if flags.Changed("font-size") {
						d.TerminalFontSize = size
					}
				})
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "light, dark or system")
	cmd.Flags().StringVar(&sendWith, "send-with", "", "enter or cmdEnter")
	cmd.Flags().StringVar(&font, "font", "", "terminal font family")
	cmd.Flags().StringVar(&fontSize, "font-size", "", "terminal font size")
	cmd.Flags().BoolVar(&reset, "reset", false, "remove the desktop setting")
	return cmd
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func newAgentCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Configure per agent type models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			if err := a.load(cmd.Context()); err != nil {
				return err
			}
			draft := a.sess.Snapshot().Agents
			rows := make([][]string, 0)
			for _, typ := range a.sess.AgentTypes() {
				model, _ := draft.Model(typ)
				rows = append(rows, []string{typ, model})
			}
			printTable(a.out, a.run.NoColor, []string{"TYPE", "MODEL"}, rows)
			return nil
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set TYPE MODEL",
			Short: "Set the model for an agent type",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd, opts)
				if err != nil {
					return err
				}
				return a.mutate(cmd.Context(), func(s *session.Session) error {
					s.UpdateAgentModel(strings.TrimSpace(args[0]), args[1])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "remove TYPE",
			Short: "Remove the override for an agent type",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(cmd, opts)
				if err != nil {
					return err
				}
				return a.mutate(cmd.Context(), func(s *session.Session) error {
					s.RemoveAgent(args[0])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Remove every agent override",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := newApp(cmd, opts)
				if err != nil {
					return err
				}
				return a.mutate(cmd.Context(), func(s *session.Session) error {
					s.ResetAgentDraft()
					return nil
				})
			},
		},
	)
	return cmd
}

func newMcpCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Configure MCP servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set [FILE]",
			Short: "Replace mcpServers with an object read from FILE or stdin",
			Long: `Replace mcpServers with an object read from FILE or stdin. The input may
be JSON, YAML or TOML; it is stored as JSON.`,
			Example: "\n  nvset mcp set servers.json\n" +
				"  echo '{\"fs\":{\"command\":\"npx\",\"args\":[\"-y\",\"@modelcontextprotocol/server-filesystem\"]}}' | nvset mcp set\n",
			Args: cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := readValue(cmd, args)
				if err != nil {
					return err
				}
				text := document.Stringify(v, "  ")
				if _, err := reconcile.ParseMcpServersText(text); err != nil {
					return fmt.Errorf("mcpServers: %w", err)
				}
				a, err := newApp(cmd, opts)
				if err != nil {
					return err
				}
				return a.mutate(cmd.Context(), func(s *session.Session) error {
					return s.UpdateMcpServersDraft(text)
				})
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Remove mcpServers",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := newApp(cmd, opts)
				if err != nil {
					return err
				}
				return a.mutate(cmd.Context(), func(s *session.Session) error {
					s.ResetMcpServersDraft()
					return nil
				})
			},
		},
	)
	return cmd
}

// readValue decodes FILE, or stdin when FILE is absent or "-". JSON, YAML
// and TOML are accepted.
func readValue(cmd *cobra.Command, args []string) (any, error) {
	if len(args) == 1 && args[0] != "-" {
		return loader.LoadFile(args[0])
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	return loader.Load(string(data), loader.FormatAuto)
}

func newPatchCmd(opts *rootOptions) *cobra.Command {
	var (
		del  bool
		file string
	)
	cmd := &cobra.Command{
		Use:   "patch PATH [JSON]",
		Short: "Change one location of the file, keeping the rest of its formatting",
		Long: `Set the JSON value at PATH, or remove it with --delete. Only the addressed
location is rewritten; indentation, key order and unknown settings
elsewhere in the file stay as they are. PATH uses the same
notation as "nvset get", for example tools.bash or provider["my-provider"].`,
		Example: "\n  nvset patch tools.bash false\n  nvset patch 'provider[\"local\"]' '{\"api\":\"http://localhost:11434\"}'\n  nvset patch --delete extensions.old\n",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := jsontext.ParsePath(args[0])
			if err != nil {
				return err
			}
			var value any = jsontext.Delete
			given := len(args) == 2 || file != ""
			switch {
			case len(args) == 2 && file != "":
				return errors.New("pass either a JSON value or --file")
			case del && given:
				return errors.New("--delete takes no value")
			case !del && !given:
				return errors.New("pass a JSON value, --file or --delete")
			case file != "":
				if value, err = loader.LoadFile(file); err != nil {
					return fmt.Errorf("value: %w", err)
				}
			case !del:
				if value, err = document.Parse(args[1]); err != nil {
					return fmt.Errorf("value: %w", err)
				}
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			cur, err := a.bridge.ReadConfig(ctx)
			if err != nil {
				return err
			}
			text := cur.Content
			if strings.TrimSpace(text) != "" {
				if _, perr := document.Parse(text); perr != nil {
					if !a.force {
						return errInvalidFile
					}
					text = ""
				}
			}
			old, exists := jsontext.GetTextAtPath(text, path)
			if (del && !exists) || (!del && exists && document.Equal(old, value)) {
				a.info("no changes")
				return nil
			}
			next, err := jsontext.ApplyPathUpdate(text, path, value)
			if err != nil {
				return err
			}
			if next == cur.Content {
				a.info("no changes")
				return nil
			}
			res, err := a.bridge.WriteConfig(ctx, host.WriteConfigRequest{Content: next})
			if err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}
			a.reportWrite(res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&del, "delete", false, "remove PATH instead of setting it")
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the value from a JSON, YAML or TOML file")
	return cmd
}
