// Package ui is the interactive editor for the Neovate settings file.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/nvset/pkg/catalog"
	"github.com/oakwood-commons/nvset/pkg/host"
	"github.com/oakwood-commons/nvset/pkg/logger"
	"github.com/oakwood-commons/nvset/pkg/reconcile"
	"github.com/oakwood-commons/nvset/pkg/session"
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeInput
	modeFields
	modeMcp
	modeSkillsDecision
)

// Options configure the editor model.
type Options struct {
	Theme   Theme
	NoColor bool
}

// Model is the Bubble Tea model of the editor. Operations that touch the
// file system run as commands against the session and report back through
// messages.
type Model struct {
	ctx  context.Context
	sess *session.Session

	styles  styles
	noColor bool

	state  session.State
	defs   []catalog.SettingDef
	fields []field

	mode        mode
	cursor      int
	fieldCursor int
	// editKey is the scalar setting being typed; empty when a field is.
	editKey string

	input  textinput.Model
	search textinput.Model
	mcp    textarea.Model

	status    string
	statusErr bool
	quitArmed bool

	width         int
	height        int
	previewOffset int
}

// New builds a model over sess. The session is loaded by Init.
func New(ctx context.Context, sess *session.Session, opts Options) *Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 4096
	ti.SetWidth(60)

	si := textinput.New()
	si.Prompt = "/"
	si.Placeholder = "filter settings"
	si.CharLimit = 200
	si.SetWidth(40)

	ta := textarea.New()
	ta.Placeholder = `{"server": {"command": "npx", "args": []}}`
	ta.ShowLineNumbers = true
	ta.SetWidth(80)
	ta.SetHeight(12)

	th := opts.Theme
	if th.Accent == nil {
		th = DefaultTheme()
	}
	m := &Model{
		ctx:     ctx,
		sess:    sess,
		styles:  newStyles(th, opts.NoColor),
		noColor: opts.NoColor,
		input:   ti,
		search:  si,
		mcp:     ta,
		width:   100,
		height:  30,
	}
	m.refresh()
	return m
}

func (m *Model) Init() tea.Cmd {
	m.setStatus("loading...", false)
	return reloadCmd(m.ctx, m.sess)
}

// refresh re-reads the session and clamps the cursors.
func (m *Model) refresh() {
	m.state = m.sess.Snapshot()
	m.defs = m.sess.FilteredSettings()
	if m.cursor >= len(m.defs) {
		m.cursor = max(len(m.defs)-1, 0)
	}
	if m.mode == modeFields || (m.mode == modeInput && m.editKey == "") {
		if def, ok := m.selected(); ok {
			m.fields = fieldsFor(def.Key, m.state, m.sess.AgentTypes())
		}
		if m.fieldCursor >= len(m.fields) {
			m.fieldCursor = max(len(m.fields)-1, 0)
		}
	}
}

func (m *Model) selected() (catalog.SettingDef, bool) {
	if m.cursor < 0 || m.cursor >= len(m.defs) {
		return catalog.SettingDef{}, false
	}
	return m.defs[m.cursor], true
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *Model) setError(prefix string, err error) {
	logger.FromContext(m.ctx).V(1).Info(prefix, "error", err.Error())
	m.setStatus(fmt.Sprintf("%s: %v", prefix, err), true)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.mcp.SetWidth(max(m.width-4, 20))
		m.input.SetWidth(max(m.width-20, 20))
		return m, nil
	case loadedMsg:
		m.refresh()
		if msg.err != nil {
			m.setError("load failed", msg.err)
		} else if !m.state.Valid {
			m.setStatus("file is not valid JSON, editing from an empty object", true)
		} else {
			m.setStatus("loaded "+m.state.Path, false)
		}
		return m, nil
	case savedMsg:
		m.refresh()
		switch {
		case msg.err != nil:
			m.setError("save failed", msg.err)
		case msg.res.BackupPath != "":
			m.setStatus(fmt.Sprintf("saved %s (backup %s)", msg.res.Path, msg.res.BackupPath), false)
		default:
			m.setStatus("saved "+msg.res.Path, false)
		}
		return m, nil
	case notifyEnabledMsg:
		m.refresh()
		if msg.err != nil {
			m.setError("enable notify failed", msg.err)
		} else {
			m.setStatus("notify plugin enabled: "+msg.res.Path, false)
		}
		return m, nil
	case skillsRunMsg:
		return m.handleSkillsRun(msg), nil
	case skillsAppliedMsg:
		m.refresh()
		if msg.err != nil {
			m.setError("skills migration failed", msg.err)
		} else {
			m.setStatus(skillsSummary(msg.res), false)
		}
		if m.mode == modeSkillsDecision {
			m.mode = modeList
		}
		return m, nil
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, m.forward(msg)
}

// forward passes other messages, such as cursor blinks, to the focused
// input.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.mode {
	case modeSearch:
		m.search, cmd = m.search.Update(msg)
	case modeInput:
		m.input, cmd = m.input.Update(msg)
	case modeMcp:
		m.mcp, cmd = m.mcp.Update(msg)
	}
	return cmd
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if key != "q" {
		m.quitArmed = false
	}
	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg, key)
	case modeInput:
		return m.handleInputKey(msg, key)
	case modeMcp:
		return m.handleMcpKey(msg, key)
	case modeSkillsDecision:
		return m.handleDecisionKey(key)
	case modeFields:
		return m.handleFieldsKey(key)
	}
	return m.handleListKey(key)
}

func (m *Model) handleListKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.defs)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = max(len(m.defs)-1, 0)
	case "pgdown":
		m.previewOffset += max(m.height/2, 1)
	case "pgup":
		m.previewOffset = max(m.previewOffset-max(m.height/2, 1), 0)
	case "/":
		m.mode = modeSearch
		m.search.SetValue(m.state.SearchText)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case "esc":
		if m.state.SearchText != "" {
			m.sess.SetSearchText("")
			m.refresh()
		}
	case "enter":
		return m, m.editSelected()
	case "x":
		m.resetSelected()
	case "ctrl+s":
		m.setStatus("saving...", false)
		return m, saveCmd(m.ctx, m.sess)
	case "ctrl+r":
		m.setStatus("reloading...", false)
		return m, reloadCmd(m.ctx, m.sess)
	case "n":
		if def, ok := m.selected(); ok && def.Key == "plugins" {
			return m, m.toggleNotify()
		}
	case "a":
		if def, ok := m.selected(); ok && def.Key == "plugins" {
			m.openFields(def)
			m.fieldCursor = len(m.fields) - 1
			return m, m.beginFieldInput(m.fields[m.fieldCursor])
		}
	case "m":
		return m, m.startSkills()
	case "q":
		if m.state.Dirty && !m.quitArmed {
			m.quitArmed = true
			m.setStatus("unsaved changes: press q again to quit, ctrl+s to save", true)
			return m, nil
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyPressMsg, key string) (tea.Model, tea.Cmd) {
	switch key {
	case "enter", "esc", "up", "down":
		m.search.Blur()
		m.mode = modeList
		if key == "esc" {
			m.sess.SetSearchText("")
		}
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.sess.SetSearchText(m.search.Value())
	m.cursor = 0
	m.refresh()
	return m, cmd
}

// editSelected toggles, cycles or opens an editor for the selected setting.
func (m *Model) editSelected() tea.Cmd {
	def, ok := m.selected()
	if !ok {
		return nil
	}
	cur, present := m.state.Form[def.Key]
	switch def.Kind {
	case catalog.KindBoolean:
		var next any
		switch {
		case !present:
			next = true
		case cur == true:
			next = false
		}
		m.applyScalar(def, next)
	case catalog.KindEnum:
		m.applyScalar(def, nextEnum(def.Options, cur))
	case catalog.KindString, catalog.KindNumber:
		m.editKey = def.Key
		m.input.SetValue(formValueText(cur))
		m.input.Placeholder = def.DefaultHint
		m.input.CursorEnd()
		m.mode = modeInput
		return m.input.Focus()
	case catalog.KindComplex:
		m.openFields(def)
	}
	return nil
}

func nextEnum(options []string, cur any) any {
	s, _ := cur.(string)
	if s == "" {
		if len(options) == 0 {
			return nil
		}
		return options[0]
	}
	for i, o := range options {
		if o == s {
			if i+1 < len(options) {
				return options[i+1]
			}
			return nil
		}
	}
	return nil
}

func formValueText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func (m *Model) applyScalar(def catalog.SettingDef, v any) {
	if err := m.sess.SetFormValue(def.Key, v); err != nil {
		m.setError("invalid value", err)
		return
	}
	m.refresh()
	m.setStatus(fmt.Sprintf("%s = %s", def.Key, displayValue(v)), false)
}

func displayValue(v any) string {
	if v == nil {
		return "(unset)"
	}
	return formValueText(v)
}

func (m *Model) resetSelected() {
	def, ok := m.selected()
	if !ok {
		return
	}
	switch def.Key {
	case "commit":
		m.sess.ResetCommitDraft()
	case "notification":
		m.sess.ResetNotificationDraft()
	case "desktop":
		m.sess.ResetDesktopDraft()
	case "agent":
		m.sess.ResetAgentDraft()
	case "mcpServers":
		m.sess.ResetMcpServersDraft()
	default:
		if def.IsComplex() {
			m.setStatus(def.Key+" cannot be reset here", true)
			return
		}
		if err := m.sess.SetFormValue(def.Key, nil); err != nil {
			m.setError("reset failed", err)
			return
		}
	}
	m.refresh()
	m.setStatus(def.Key+" reset", false)
}

func (m *Model) openFields(def catalog.SettingDef) {
	m.mode = modeFields
	m.fieldCursor = 0
	m.fields = fieldsFor(def.Key, m.state, m.sess.AgentTypes())
}

func (m *Model) handleFieldsKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "left", "h":
		m.mode = modeList
		m.fields = nil
	case "up", "k":
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}
	case "down", "j":
		if m.fieldCursor < len(m.fields)-1 {
			m.fieldCursor++
		}
	case "enter", "space":
		if m.fieldCursor < len(m.fields) {
			return m, m.activateField(m.fields[m.fieldCursor])
		}
	case "x":
		m.resetSelected()
	case "d":
		if m.fieldCursor < len(m.fields) && m.fields[m.fieldCursor].plugin != "" {
			p := m.fields[m.fieldCursor].plugin
			m.sess.RemoveCustomPlugin(p)
			m.refresh()
			m.setStatus("removed plugin "+p, false)
		}
	case "n":
		if def, ok := m.selected(); ok && def.Key == "plugins" {
			return m, m.toggleNotify()
		}
	case "a":
		if def, ok := m.selected(); ok && def.Key == "plugins" && len(m.fields) > 0 {
			m.fieldCursor = len(m.fields) - 1
			return m, m.beginFieldInput(m.fields[m.fieldCursor])
		}
	case "ctrl+s":
		m.setStatus("saving...", false)
		return m, saveCmd(m.ctx, m.sess)
	case "m":
		return m, m.startSkills()
	}
	return m, nil
}

func (m *Model) activateField(f field) tea.Cmd {
	switch f.kind {
	case fieldCycle:
		m.applyField(f, f.next())
	case fieldText:
		return m.beginFieldInput(f)
	case fieldAction:
		if f.action != nil {
			return f.action(m)
		}
	case fieldInfo:
		m.setStatus("edit this value in the JSON file or with nvset patch", false)
	}
	return nil
}

func (m *Model) beginFieldInput(f field) tea.Cmd {
	m.editKey = ""
	m.input.SetValue(f.value)
	m.input.Placeholder = f.label
	m.input.CursorEnd()
	m.mode = modeInput
	return m.input.Focus()
}

func (m *Model) applyField(f field, text string) {
	if f.set == nil {
		return
	}
	if err := f.set(m.sess, text); err != nil {
		switch {
		case errors.Is(err, session.ErrPluginExists):
			m.setStatus("plugin already listed", true)
		default:
			m.setError("invalid value", err)
		}
		return
	}
	m.refresh()
	m.setStatus(f.label+" updated", false)
}

func (m *Model) handleInputKey(msg tea.KeyPressMsg, key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc":
		m.input.Blur()
		m.leaveInput()
		return m, nil
	case "enter":
		text := m.input.Value()
		m.input.Blur()
		if m.editKey != "" {
			def, _ := catalog.Lookup(m.editKey)
			v, err := reconcile.ParseFormInput(def, strings.TrimSpace(text))
			if err != nil {
				m.setError("invalid value", err)
				m.leaveInput()
				return m, nil
			}
			m.leaveInput()
			m.applyScalar(def, v)
			return m, nil
		}
		if m.fieldCursor < len(m.fields) {
			f := m.fields[m.fieldCursor]
			m.leaveInput()
			m.applyField(f, text)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) leaveInput() {
	if m.editKey != "" {
		m.mode = modeList
	} else {
		m.mode = modeFields
	}
	m.editKey = ""
	m.refresh()
}

func (m *Model) openMcpEditor() tea.Cmd {
	m.mcp.SetValue(m.state.McpDraft)
	m.mode = modeMcp
	return m.mcp.Focus()
}

func (m *Model) handleMcpKey(msg tea.KeyPressMsg, key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc":
		m.mcp.Blur()
		m.mode = modeFields
		m.refresh()
		return m, nil
	case "ctrl+f":
		m.sess.FormatMcpServersDraft()
		m.refresh()
		m.mcp.SetValue(m.state.McpDraft)
		return m, nil
	case "ctrl+s":
		m.setStatus("saving...", false)
		return m, saveCmd(m.ctx, m.sess)
	}
	var cmd tea.Cmd
	m.mcp, cmd = m.mcp.Update(msg)
	if err := m.sess.UpdateMcpServersDraft(m.mcp.Value()); err != nil {
		m.setStatus("mcpServers: "+err.Error(), true)
	} else {
		m.setStatus("", false)
	}
	m.refresh()
	return m, cmd
}

func (m *Model) toggleNotify() tea.Cmd {
	if m.sess.BuiltinNotifyEnabled() {
		m.sess.DisableBuiltinNotify()
		m.refresh()
		m.setStatus("notify plugin disabled", false)
		return nil
	}
	m.setStatus("installing notify plugin...", false)
	return enableNotifyCmd(m.ctx, m.sess)
}

func (m *Model) startSkills() tea.Cmd {
	m.setStatus("planning skills migration...", false)
	return runSkillsCmd(m.ctx, m.sess)
}

func (m *Model) handleSkillsRun(msg skillsRunMsg) tea.Model {
	m.refresh()
	if msg.err != nil {
		if errors.Is(msg.err, session.ErrSkillsPathsRequired) {
			m.setStatus("set the skills source and target paths first", true)
			return m
		}
		m.setError("skills migration failed", msg.err)
		return m
	}
	switch msg.outcome.Kind {
	case session.SkillsNothingToMigrate:
		m.setStatus("no skills to migrate", false)
	case session.SkillsNeedsDecision:
		m.mode = modeSkillsDecision
		m.setStatus(fmt.Sprintf("%d of %d skills already exist: r replace, s skip, esc cancel",
			msg.outcome.Plan.ConflictCount, len(msg.outcome.Plan.Items)), true)
	case session.SkillsApplied:
		m.setStatus(skillsSummary(msg.outcome.Result), false)
	}
	return m
}

func (m *Model) handleDecisionKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "r":
		m.setStatus("replacing...", false)
		return m, applySkillsCmd(m.ctx, m.sess, host.ModeReplace)
	case "s":
		m.setStatus("copying...", false)
		return m, applySkillsCmd(m.ctx, m.sess, host.ModeSkip)
	case "esc", "q":
		m.sess.DismissSkillsPlan()
		m.mode = modeList
		m.refresh()
		m.setStatus("skills migration cancelled", false)
	}
	return m, nil
}

func skillsSummary(res *host.SkillsMigrationResult) string {
	if res == nil {
		return "skills migrated"
	}
	return fmt.Sprintf("skills migrated: %d copied, %d replaced, %d skipped", res.Copied, res.Replaced, res.Skipped)
}
