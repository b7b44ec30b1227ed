package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/oakwood-commons/nvset/pkg/document"
	"github.com/oakwood-commons/nvset/pkg/host"
	"github.com/oakwood-commons/nvset/pkg/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigPath = "/home/me/.neovate/config.json"

type fakeBridge struct {
	mu         sync.Mutex
	content    string
	exists     bool
	writes     []string
	readErr    error
	writeErr   error
	pluginPath string
	plan       *host.SkillsMigrationPlan
	applied    []host.SkillsApplyRequest
	block      chan struct{}
}

func newFake(content string) *fakeBridge {
	return &fakeBridge{content: content, exists: true, pluginPath: "/data/nvset/plugins/notify.js"}
}

func (f *fakeBridge) ConfigPath(context.Context) (string, error) { return testConfigPath, nil }

func (f *fakeBridge) ReadConfig(context.Context) (*host.ReadConfigResponse, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	if !f.exists {
		return &host.ReadConfigResponse{Path: testConfigPath, Content: host.EmptyConfig}, nil
	}
	return &host.ReadConfigResponse{Path: testConfigPath, Exists: true, Content: f.content}, nil
}

func (f *fakeBridge) WriteConfig(_ context.Context, req host.WriteConfigRequest) (*host.WriteConfigResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	f.content = req.Content
	f.exists = true
	f.writes = append(f.writes, req.Content)
	return &host.WriteConfigResponse{Path: testConfigPath}, nil
}

func (f *fakeBridge) InstallBuiltinPlugin(_ context.Context, req host.InstallPluginRequest) (*host.InstallPluginResponse, error) {
	return &host.InstallPluginResponse{ID: req.ID, Path: f.pluginPath, Wrote: true}, nil
}

func (f *fakeBridge) PlanSkillsMigration(context.Context, host.SkillsPlanRequest) (*host.SkillsMigrationPlan, error) {
	return f.plan, nil
}

func (f *fakeBridge) ApplySkillsMigration(_ context.Context, req host.SkillsApplyRequest) (*host.SkillsMigrationResult, error) {
	f.applied = append(f.applied, req)
	return &host.SkillsMigrationResult{Copied: len(f.plan.Items)}, nil
}

func loaded(t *testing.T, content string, opts ...Option) (*Session, *fakeBridge) {
	t.Helper()
	f := newFake(content)
	s := New(f, opts...)
	require.NoError(t, s.Reload(context.Background()))
	return s, f
}

func TestLoadAndPreview(t *testing.T) {
	s, _ := loaded(t, `{"model":"openai/gpt-4o","quiet":true}`)
	st := s.Snapshot()
	assert.True(t, st.Valid)
	assert.True(t, st.Exists)
	assert.Equal(t, testConfigPath, st.Path)
	assert.Equal(t, "{\n  \"model\": \"openai/gpt-4o\",\n  \"quiet\": true\n}\n", st.PreviewText)
	assert.False(t, st.Dirty)
}

func TestInvalidJSONLoadsAsEmpty(t *testing.T) {
	s, f := loaded(t, "{not json")
	assert.False(t, s.IsValid())
	assert.Equal(t, 0, s.PreviewConfig().Len())

	_, err := s.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"{}\n"}, f.writes)
	assert.True(t, s.IsValid())
}

func TestMissingFile(t *testing.T) {
	f := newFake("")
	f.exists = false
	s := New(f)
	require.NoError(t, s.Reload(context.Background()))
	st := s.Snapshot()
	assert.False(t, st.Exists)
	assert.Equal(t, "{}\n", st.PreviewText)

	require.NoError(t, s.SetFormValue("quiet", true))
	_, err := s.Save(context.Background())
	require.NoError(t, err)
	assert.True(t, s.Snapshot().Exists)
}

func TestDirtyLifecycle(t *testing.T) {
	ctx := context.Background()
	s, f := loaded(t, `{"model":"a"}`)
	assert.False(t, s.Dirty())

	require.NoError(t, s.SetFormValue("model", "b"))
	assert.True(t, s.Dirty())

	_, err := s.Save(ctx)
	require.NoError(t, err)
	assert.False(t, s.Dirty())
	assert.Equal(t, "{\n  \"model\": \"b\"\n}\n", f.content)
}

func TestClearingStringField(t *testing.T) {
	ctx := context.Background()
	s, _ := loaded(t, `{"model":"a","quiet":true}`)
	require.NoError(t, s.SetFormValue("model", ""))
	_, err := s.Save(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Reload(ctx))
	_, ok := s.Value("model")
	assert.False(t, ok)
	assert.Equal(t, "{\n  \"quiet\": true\n}\n", s.PreviewText())
}

func TestSetFormValueValidation(t *testing.T) {
	s, _ := loaded(t, `{}`)
	assert.ErrorIs(t, s.SetFormValue("nope", "x"), ErrUnknownSetting)
	assert.ErrorIs(t, s.SetFormValue("commit", "x"), ErrNotScalar)

	var inputErr *reconcile.InputError
	assert.ErrorAs(t, s.SetFormValue("temperature", "hot"), &inputErr)
	assert.ErrorAs(t, s.SetFormValue("approvalMode", "never"), &inputErr)

	require.NoError(t, s.SetFormValue("temperature", 0.2))
	require.NoError(t, s.SetFormValue("temperature", nil))
	assert.False(t, s.Dirty())
}

func TestFailuresLeaveStateUnchanged(t *testing.T) {
	ctx := context.Background()
	s, f := loaded(t, `{"model":"a"}`)
	require.NoError(t, s.SetFormValue("model", "b"))

	f.writeErr = errors.New("disk full")
	_, err := s.Save(ctx)
	require.Error(t, err)
	assert.True(t, s.Dirty())

	f.readErr = errors.New("permission denied")
	require.Error(t, s.Reload(ctx))
	v, _ := s.Value("model")
	assert.Equal(t, "b", v)
}

func TestReloadWhileBusy(t *testing.T) {
	f := newFake(`{}`)
	f.block = make(chan struct{})
	s := New(f)

	done := make(chan error)
	go func() { done <- s.Reload(context.Background()) }()
	require.Eventually(t, func() bool { return s.Snapshot().Loading }, testWait, testTick)

	assert.ErrorIs(t, s.Reload(context.Background()), ErrBusy)
	_, err := s.Save(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	close(f.block)
	require.NoError(t, <-done)
	assert.False(t, s.Snapshot().Loading)
}

func TestUnknownKeysPassThrough(t *testing.T) {
	s, _ := loaded(t, `{"zeta":{"deep":[1,2]},"model":"m","approvalMode":"bogus"}`)
	// mismatched scalar values are dropped on load, so they do not count as edits
	assert.False(t, s.Dirty())
	require.NoError(t, s.SetFormValue("quiet", false))
	assert.Equal(t, "{\n  \"zeta\": {\n    \"deep\": [\n      1,\n      2\n    ]\n  },\n  \"model\": \"m\",\n  \"quiet\": false\n}\n", s.PreviewText())
}

func TestSnapshotIsStable(t *testing.T) {
	s, _ := loaded(t, `{"commit":{"language":"fr"}}`)
	before := s.Snapshot()
	s.ResetCommitDraft()
	assert.True(t, before.Preview.Has("commit"))
	assert.False(t, s.PreviewConfig().Has("commit"))
	assert.Equal(t, document.NewObject().Len(), s.PreviewConfig().Len())
}
