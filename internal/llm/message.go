package llm

import (
	"regexp"
	"strings"
)

var conventionalLine = regexp.MustCompile(`^(feat|fix|refactor|chore|docs|style|test|perf|ci|build)(\(.+?\))?:\s*.+`)

// ExtractCommitLine picks the commit subject out of a model reply that may
// include reasoning. The last conventional-commit line wins; otherwise the
// last non-blank line; otherwise the text as given.
func ExtractCommitLine(text string) string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	for i := len(lines) - 1; i >= 0; i-- {
		if conventionalLine.MatchString(lines[i]) {
			return lines[i]
		}
	}

	if len(lines) > 0 {
		return lines[len(lines)-1]
	}
	return text
}

// CleanMessage trims whitespace and any surrounding quote or backtick runs
func CleanMessage(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'`")
	return strings.TrimSpace(s)
}
