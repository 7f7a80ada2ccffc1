package tui

import (
	"strings"
)

// RenderStatusLine joins status items with a separator
func RenderStatusLine(t Theme, items []string) string {
	return t.Status.Render(strings.Join(items, " • "))
}

func renderNotice(t Theme, n noticeMsg) string {
	switch n.level {
	case levelError:
		return t.Error.Render("✗ " + n.text)
	case levelWarning:
		return t.Warning.Render("! " + n.text)
	default:
		return t.Normal.Render(n.text)
	}
}
