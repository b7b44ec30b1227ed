package reconcile

import (
	"math"
	"testing"

	"github.com/oakwood-commons/nvset/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCommitConfig(t *testing.T) {
	assert.Nil(t, NormalizeCommitConfig(CommitConfig{Language: "en"}))
	assert.Nil(t, NormalizeCommitConfig(CommitConfig{Language: "  ", Model: " "}))

	got := NormalizeCommitConfig(CommitConfig{Language: "fr"})
	require.NotNil(t, got)
	assert.Equal(t, `{"language":"fr"}`, document.Compact(got.Value()))

	got = NormalizeCommitConfig(CommitConfig{Language: " en ", Model: " small "})
	require.NotNil(t, got)
	assert.Equal(t, `{"language":"en","model":"small"}`, document.Compact(got.Value()))
}

func TestPickCommitConfig(t *testing.T) {
	obj := mustObject(t, `{"language":"de","systemPrompt":5,"model":"m"}`)
	assert.Equal(t, CommitConfig{Language: "de", Model: "m"}, PickCommitConfig(obj))
	assert.Equal(t, CommitConfig{}, PickCommitConfig("nope"))
}

func TestNotificationRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  NotificationDraft
	}{
		{"default sound", true, NotificationDraft{Mode: NotifyDefaultSound}},
		{"webhook", "https://x/y", NotificationDraft{Mode: NotifyWebhook, WebhookURL: "https://x/y"}},
		{"sound", "Glass", NotificationDraft{Mode: NotifySound, SoundName: "Glass"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := PickNotificationDraft(tt.value)
			assert.Equal(t, tt.want, draft)
			assert.Equal(t, tt.value, NormalizeNotificationValue(draft))
		})
	}
}

func TestPickNotificationDraftOff(t *testing.T) {
	for _, v := range []any{false, nil, 3.0, []any{}} {
		assert.Equal(t, NotifyOff, PickNotificationDraft(v).Mode)
	}
	assert.Equal(t, NotificationDraft{Mode: NotifyWebhook, WebhookURL: "http://h"}, PickNotificationDraft("  http://h "))
}

func TestNormalizeNotificationValue(t *testing.T) {
	assert.Nil(t, NormalizeNotificationValue(NotificationDraft{Mode: NotifyOff, SoundName: "Glass"}))
	assert.Nil(t, NormalizeNotificationValue(NotificationDraft{Mode: NotifySound, SoundName: "  "}))
	assert.Nil(t, NormalizeNotificationValue(NotificationDraft{Mode: NotifyWebhook}))
	assert.Equal(t, "Ping", NormalizeNotificationValue(NotificationDraft{Mode: NotifySound, SoundName: " Ping "}))

	m, ok := ParseNotificationMode("webhook")
	assert.True(t, ok)
	assert.Equal(t, NotifyWebhook, m)
	_, ok = ParseNotificationMode("loud")
	assert.False(t, ok)
}

func TestDesktopDraft(t *testing.T) {
	obj := mustObject(t, `{"theme":"dark","sendMessageWith":"shift","terminalFont":"Fira","terminalFontSize":13}`)
	draft := PickDesktopDraft(obj)
	assert.Equal(t, "dark", draft.Theme)
	assert.Empty(t, draft.SendMessageWith)
	require.NotNil(t, draft.TerminalFontSize)
	assert.Equal(t, 13.0, *draft.TerminalFontSize)

	norm := NormalizeDesktopConfig(draft)
	require.NotNil(t, norm)
	assert.Equal(t, `{"theme":"dark","terminalFont":"Fira","terminalFontSize":13}`, document.Compact(norm.Value()))

	assert.Nil(t, NormalizeDesktopConfig(DesktopDraft{Theme: ThemeLight, SendMessageWith: SendWithEnter, TerminalFont: "  "}))

	inf := math.Inf(1)
	assert.Nil(t, NormalizeDesktopConfig(DesktopDraft{TerminalFontSize: &inf}))
}

func TestAgentDraft(t *testing.T) {
	obj := mustObject(t, `{"explore":{"model":"a"},"bad":"x","custom":{"model":3}}`)
	draft := PickAgentDraft(obj)
	assert.Equal(t, AgentDraft{{Type: "explore", Model: "a"}, {Type: "custom"}}, draft)

	draft = draft.With("custom", " b ").With("new", "c")
	assert.Equal(t, []string{"explore", "custom", "new"}, draft.Types())
	m, ok := draft.Model("custom")
	assert.True(t, ok)
	assert.Equal(t, " b ", m)

	norm := NormalizeAgentConfig(draft.With("explore", "  "))
	assert.Equal(t, `{"custom":{"model":"b"},"new":{"model":"c"}}`, document.Compact(norm.Value()))

	assert.Nil(t, NormalizeAgentConfig(AgentDraft{{Type: "x"}}))
	assert.Equal(t, []string{"explore", "new"}, draft.Without("custom").Types())
}
