package session

import (
	"context"
	"testing"

	"github.com/oakwood-commons/nvset/pkg/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnableBuiltinNotifyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, f := loaded(t, `{"plugins":["/opt/custom.js"]}`)

	res, err := s.EnableBuiltinNotify(ctx)
	require.NoError(t, err)
	assert.Equal(t, f.pluginPath, res.Path)
	_, err = s.EnableBuiltinNotify(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"/opt/custom.js", f.pluginPath}, s.Plugins())
	assert.True(t, s.BuiltinNotifyEnabled())
	assert.Equal(t, []string{"/opt/custom.js"}, s.CustomPlugins())
	assert.Equal(t, f.pluginPath, s.Snapshot().BuiltinNotifyPath)
}

func TestEnableBuiltinNotifyKeepsLegacyEntry(t *testing.T) {
	s, _ := loaded(t, `{"plugins":["builtin:notify"]}`)
	_, err := s.EnableBuiltinNotify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"builtin:notify"}, s.Plugins())
}

func TestLegacyNotifyMigratedOnLoad(t *testing.T) {
	s, _ := loaded(t, `{"plugins":["builtin:notify","/x.js"]}`, WithBuiltinNotifyPath("/data/plugins/notify.js"))
	assert.Equal(t, []string{"/data/plugins/notify.js", "/x.js"}, s.Plugins())
	assert.False(t, s.Dirty())
}

func TestDisableBuiltinNotify(t *testing.T) {
	s, _ := loaded(t, `{"plugins":["builtin:notify","/home/me/.neovate/plugins/notify.js"]}`)
	s.DisableBuiltinNotify()
	_, ok := s.Value("plugins")
	assert.False(t, ok)
	assert.False(t, s.BuiltinNotifyEnabled())

	s, _ = loaded(t, `{"plugins":["builtin:notify","/a.js"]}`)
	s.DisableBuiltinNotify()
	assert.Equal(t, []string{"/a.js"}, s.Plugins())
}

func TestCustomPlugins(t *testing.T) {
	s, _ := loaded(t, `{}`)
	require.NoError(t, s.AddCustomPlugin("/a.js"))
	require.NoError(t, s.AddCustomPlugin(" /b.js "))
	assert.ErrorIs(t, s.AddCustomPlugin("/a.js"), ErrPluginExists)
	assert.Error(t, s.AddCustomPlugin("  "))
	assert.Equal(t, []string{"/a.js", "/b.js"}, s.Plugins())

	s.RemoveCustomPlugin("/a.js")
	assert.Equal(t, []string{"/b.js"}, s.Plugins())
	s.RemoveCustomPlugin("/b.js")
	_, ok := s.Value("plugins")
	assert.False(t, ok)
}

func TestPluginBusy(t *testing.T) {
	s, _ := loaded(t, `{}`)
	require.NoError(t, s.begin(&s.pluginBusy))
	_, err := s.EnableBuiltinNotify(context.Background())
	assert.ErrorIs(t, err, ErrBusy)
	s.end(&s.pluginBusy)
	_, err = s.EnableBuiltinNotify(context.Background())
	assert.NoError(t, err)
}

var _ host.Bridge = (*fakeBridge)(nil)
