package llm

import (
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

const snapshotChars = 300

// ContentExtractor pulls the assistant text out of a chat response
type ContentExtractor interface {
	Extract(body gjson.Result) (string, bool)
}

// PathExtractor reads a non-empty string at a gjson path
type PathExtractor string

// Extract implements ContentExtractor
func (p PathExtractor) Extract(body gjson.Result) (string, bool) {
	v := body.Get(string(p))
	if v.Type != gjson.String || v.Str == "" {
		return "", false
	}
	return v.Str, true
}

// DefaultExtractors is tried in order; reasoning models sometimes leave
// content empty and answer in reasoning_content.
var DefaultExtractors = []ContentExtractor{
	PathExtractor("choices.0.message.content"),
	PathExtractor("choices.0.message.reasoning_content"),
}

func extractContent(raw []byte, extractors []ContentExtractor) (string, bool) {
	if !gjson.ValidBytes(raw) {
		return "", false
	}

	body := gjson.ParseBytes(raw)
	for _, e := range extractors {
		if content, ok := e.Extract(body); ok {
			return content, true
		}
	}
	return "", false
}

// snapshot returns the first 300 characters of the compacted response
func snapshot(raw []byte) string {
	s := string(raw)
	if gjson.ValidBytes(raw) {
		s = gjson.GetBytes(raw, "@ugly").Raw
	}
	if utf8.RuneCountInString(s) <= snapshotChars {
		return s
	}
	return string([]rune(s)[:snapshotChars])
}
