// Package session owns the editing state for one configuration file. All
// reads go through selector methods and all writes through actions, so the
// terminal UI and the CLI share one implementation.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/go-logr/logr"
	"github.com/oakwood-commons/nvset/pkg/document"
	"github.com/oakwood-commons/nvset/pkg/host"
	"github.com/oakwood-commons/nvset/pkg/logger"
	"github.com/oakwood-commons/nvset/pkg/reconcile"
)

var (
	ErrBusy                = errors.New("another operation is in progress")
	ErrPluginExists        = errors.New("plugin already present")
	ErrUnknownSetting      = errors.New("unknown setting")
	ErrNotScalar           = errors.New("setting has a structured editor")
	ErrSkillsPathsRequired = errors.New("skills source and target paths are required")
)

// PathStore remembers the skills migration paths between runs.
type PathStore interface {
	LoadSkillsPaths() (source, target string, err error)
	SaveSkillsPaths(source, target string) error
}

// Session is safe for concurrent use. Bridge calls run without holding the
// state lock; overlapping calls of the same kind fail with ErrBusy.
type Session struct {
	mu     sync.Mutex
	bridge host.Bridge
	store  PathStore
	lgr    logr.Logger

	path       string
	exists     bool
	loaded     bool
	sourceText string
	base       *document.Object
	form       reconcile.FormState
	baseline   string

	commit       reconcile.CommitConfig
	notification reconcile.NotificationDraft
	desktop      reconcile.DesktopDraft
	agents       reconcile.AgentDraft
	mcpDraft     string
	mcpError     string

	searchText string

	loading    bool
	pluginBusy bool
	skillsBusy bool

	builtinNotifyPath string
	skillsSource      string
	skillsTarget      string
	pendingPlan       *host.SkillsMigrationPlan
}

// Option configures a Session.
type Option func(*Session)

// WithPathStore persists skills paths through store.
func WithPathStore(store PathStore) Option {
	return func(s *Session) {
		s.store = store
	}
}

// WithLogger sets the logger used by actions that take no context.
func WithLogger(lgr *logr.Logger) Option {
	return func(s *Session) {
		if lgr != nil {
			s.lgr = *lgr
		}
	}
}

// WithBuiltinNotifyPath seeds the installed notify plugin path, which lets
// the first load rewrite legacy plugin entries.
func WithBuiltinNotifyPath(path string) Option {
	return func(s *Session) {
		s.builtinNotifyPath = path
	}
}

// WithSkillsPaths seeds the skills migration paths.
func WithSkillsPaths(source, target string) Option {
	return func(s *Session) {
		s.skillsSource = source
		s.skillsTarget = target
	}
}

// New creates an empty session. Call Reload to load the file.
func New(bridge host.Bridge, opts ...Option) *Session {
	s := &Session{
		bridge: bridge,
		lgr:    *logger.GetNoopLogger(),
		base:   document.NewObject(),
		form:   reconcile.FormState{},
	}
	s.notification = reconcile.NotificationDraft{Mode: reconcile.NotifyOff}
	s.sourceText = host.EmptyConfig
	s.baseline = reconcile.StringifyConfig(s.base)
	for _, opt := range opts {
		opt(s)
	}
	if s.store != nil && s.skillsSource == "" && s.skillsTarget == "" {
		src, tgt, err := s.store.LoadSkillsPaths()
		if err != nil {
			s.lgr.V(1).Info("no remembered skills paths", "error", err.Error())
		} else {
			s.skillsSource, s.skillsTarget = src, tgt
		}
	}
	return s
}

// begin marks an operation in flight, failing if one already is.
func (s *Session) begin(flag *bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if *flag {
		return ErrBusy
	}
	*flag = true
	return nil
}

func (s *Session) end(flag *bool) {
	s.mu.Lock()
	*flag = false
	s.mu.Unlock()
}

// Reload reads the file through the bridge and replaces all editing state.
// On failure the state is left as it was.
func (s *Session) Reload(ctx context.Context) error {
	if err := s.begin(&s.loading); err != nil {
		return err
	}
	defer s.end(&s.loading)

	lgr := logger.FromContext(ctx)
	res, err := s.bridge.ReadConfig(ctx)
	if err != nil {
		lgr.Error(err, "failed to load config")
		return err
	}

	s.mu.Lock()
	s.path = res.Path
	s.exists = res.Exists
	s.syncFromContent(res.Content)
	s.defaultSkillsPaths()
	s.loaded = true
	s.mu.Unlock()

	lgr.V(1).Info("config loaded", "path", res.Path, "exists", res.Exists)
	return nil
}

// Save writes the preview text and reloads the editing state from it.
func (s *Session) Save(ctx context.Context) (*host.WriteConfigResponse, error) {
	if err := s.begin(&s.loading); err != nil {
		return nil, err
	}
	defer s.end(&s.loading)

	s.mu.Lock()
	text := s.previewTextLocked()
	s.mu.Unlock()

	lgr := logger.FromContext(ctx)
	res, err := s.bridge.WriteConfig(ctx, host.WriteConfigRequest{Content: text})
	if err != nil {
		lgr.Error(err, "failed to save config")
		return nil, err
	}

	s.mu.Lock()
	if res.Path != "" {
		s.path = res.Path
	}
	s.syncFromContent(text)
	s.exists = true
	s.mu.Unlock()

	lgr.V(1).Info("config saved", "path", res.Path, "backup", res.BackupPath)
	return res, nil
}

// syncFromContent rebuilds every derived piece of state from text. Callers
// hold s.mu.
func (s *Session) syncFromContent(content string) {
	base := reconcile.BaseFromText(content)
	if s.builtinNotifyPath != "" {
		s.migrateLegacyNotify(base)
	}
	picked := reconcile.PickFormValues(base)

	s.sourceText = content
	s.base = base
	s.form = picked

	commit, _ := base.Get("commit")
	s.commit = reconcile.PickCommitConfig(commit)
	notification, _ := base.Get("notification")
	s.notification = reconcile.PickNotificationDraft(notification)
	desktop, _ := base.Get("desktop")
	s.desktop = reconcile.PickDesktopDraft(desktop)
	agent, _ := base.Get("agent")
	s.agents = reconcile.PickAgentDraft(agent)
	mcp, _ := base.Get("mcpServers")
	s.mcpDraft = reconcile.McpServersDraftText(mcp)
	s.mcpError = ""

	s.baseline = reconcile.StringifyConfig(reconcile.ApplyFormValues(base, picked))
}

// migrateLegacyNotify swaps the builtin:notify sentinel for the installed
// plugin path. base is freshly parsed so it is modified in place.
func (s *Session) migrateLegacyNotify(base *document.Object) {
	raw, _ := base.Get("plugins")
	plugins := reconcile.PickStringArray(raw)
	changed := false
	for i, p := range plugins {
		if p == reconcile.LegacyNotifyPluginEntry {
			plugins[i] = s.builtinNotifyPath
			changed = true
		}
	}
	if changed {
		base.Set("plugins", reconcile.StringsToValue(plugins))
	}
}

// setBaseKey replaces the base object rather than mutating it so snapshots
// handed out earlier stay unchanged.
func (s *Session) setBaseKey(key string, v any) {
	next := s.base.Clone()
	next.Set(key, v)
	s.base = next
}

func (s *Session) deleteBaseKey(key string) {
	if !s.base.Has(key) {
		return
	}
	next := s.base.Clone()
	next.Delete(key)
	s.base = next
}
