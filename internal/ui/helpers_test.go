package ui

import (
	"github.com/oakwood-commons/nvset/pkg/document"
)

func compact(m *Model, key string) string {
	v, ok := m.sess.PreviewConfig().Get(key)
	if !ok {
		return ""
	}
	return document.Compact(v)
}

func jsonString(s string) string {
	return document.Compact(s)
}
