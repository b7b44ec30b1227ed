package session

import (
	"strings"
	"testing"

	"github.com/oakwood-commons/nvset/pkg/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compactValue(s *Session, key string) string {
	return reconcile.FormatComplexValue(s.Value(key))
}

func TestCommitDraft(t *testing.T) {
	s, _ := loaded(t, `{"commit":{"language":"fr","extra":1}}`)
	assert.Equal(t, reconcile.CommitConfig{Language: "fr"}, s.Snapshot().Commit)

	s.UpdateCommitDraft(func(c *reconcile.CommitConfig) { c.Language = "en" })
	assert.Equal(t, "unset", compactValue(s, "commit"))

	s.UpdateCommitDraft(func(c *reconcile.CommitConfig) { c.Model = " fast " })
	assert.Equal(t, `{"language":"en","model":"fast"}`, compactValue(s, "commit"))

	s.ResetCommitDraft()
	assert.Equal(t, reconcile.CommitConfig{}, s.Snapshot().Commit)
	assert.Equal(t, "unset", compactValue(s, "commit"))
}

func TestNotificationDraft(t *testing.T) {
	s, _ := loaded(t, `{"notification":"Glass"}`)
	assert.Equal(t, reconcile.NotifySound, s.Snapshot().Notification.Mode)

	s.UpdateNotificationDraft(func(d *reconcile.NotificationDraft) {
		d.Mode = reconcile.NotifyWebhook
		d.WebhookURL = "https://hooks.example/x"
	})
	v, _ := s.Value("notification")
	assert.Equal(t, "https://hooks.example/x", v)

	s.UpdateNotificationDraft(func(d *reconcile.NotificationDraft) { d.Mode = reconcile.NotifyDefaultSound })
	v, _ = s.Value("notification")
	assert.Equal(t, true, v)

	s.ResetNotificationDraft()
	_, ok := s.Value("notification")
	assert.False(t, ok)
	assert.Equal(t, reconcile.NotifyOff, s.Snapshot().Notification.Mode)
}

func TestDesktopDraft(t *testing.T) {
	s, _ := loaded(t, `{}`)
	size := 14.0
	s.UpdateDesktopDraft(func(d *reconcile.DesktopDraft) {
		d.Theme = reconcile.ThemeDark
		d.TerminalFontSize = &size
	})
	assert.Equal(t, `{"theme":"dark","terminalFontSize":14}`, compactValue(s, "desktop"))
	assert.True(t, s.Dirty())

	s.UpdateDesktopDraft(func(d *reconcile.DesktopDraft) {
		d.Theme = reconcile.ThemeLight
		d.TerminalFontSize = nil
	})
	assert.Equal(t, "unset", compactValue(s, "desktop"))
	assert.False(t, s.Dirty())
}

func TestAgentDraft(t *testing.T) {
	s, _ := loaded(t, `{"agent":{"reviewer":{"model":"m1"}}}`)
	assert.Equal(t, []string{"explore", "general-purpose", "reviewer"}, s.AgentTypes())

	s.UpdateAgentModel("explore", "m2")
	assert.Equal(t, `{"reviewer":{"model":"m1"},"explore":{"model":"m2"}}`, compactValue(s, "agent"))

	s.UpdateAgentModel("reviewer", "")
	assert.Equal(t, `{"explore":{"model":"m2"}}`, compactValue(s, "agent"))
	assert.Contains(t, s.AgentTypes(), "reviewer")

	s.RemoveAgent("reviewer")
	assert.NotContains(t, s.AgentTypes(), "reviewer")

	s.ResetAgentDraft()
	assert.Equal(t, "unset", compactValue(s, "agent"))
}

func TestMcpServersDraft(t *testing.T) {
	s, _ := loaded(t, `{"mcpServers":{"fs":{"command":"npx"}}}`)
	assert.Equal(t, "{\n  \"fs\": {\n    \"command\": \"npx\"\n  }\n}", s.Snapshot().McpDraft)

	err := s.UpdateMcpServersDraft(`{"fs":`)
	var draftErr *reconcile.DraftError
	require.ErrorAs(t, err, &draftErr)
	st := s.Snapshot()
	assert.Equal(t, reconcile.McpJSONFormatError, st.McpError)
	assert.Equal(t, `{"fs":`, st.McpDraft)
	assert.Equal(t, `{"fs":{"command":"npx"}}`, compactValue(s, "mcpServers"))

	require.Error(t, s.UpdateMcpServersDraft(`"str"`))
	assert.Equal(t, reconcile.McpNotObjectError, s.Snapshot().McpError)

	require.NoError(t, s.UpdateMcpServersDraft(`{"web":{"url":"http://x"}}`))
	assert.Empty(t, s.Snapshot().McpError)
	assert.Equal(t, `{"web":{"url":"http://x"}}`, compactValue(s, "mcpServers"))

	s.FormatMcpServersDraft()
	assert.Equal(t, "{\n  \"web\": {\n    \"url\": \"http://x\"\n  }\n}", s.Snapshot().McpDraft)

	require.NoError(t, s.UpdateMcpServersDraft("{}"))
	assert.Equal(t, "unset", compactValue(s, "mcpServers"))

	require.NoError(t, s.UpdateMcpServersDraft(`{"a":{}}`))
	s.ResetMcpServersDraft()
	assert.Empty(t, s.Snapshot().McpDraft)
	assert.Equal(t, "unset", compactValue(s, "mcpServers"))
}

func TestSearchText(t *testing.T) {
	s, _ := loaded(t, `{}`)
	s.SetSearchText("MODEL")
	for _, d := range s.FilteredSettings() {
		haystack := strings.ToLower(strings.Join([]string{d.Key, d.Description, d.DefaultHint}, " "))
		assert.Contains(t, haystack, "model")
	}
	assert.NotEmpty(t, s.FilteredSettings())
	assert.Equal(t, "MODEL", s.Snapshot().SearchText)
}
