package llm

import "unicode/utf8"

// CommitPrompt is the system message sent with every request
const CommitPrompt = `You are a git commit message generator. Rules:
1. Use conventional commits format: type(scope): description
2. Types: feat, fix, refactor, chore, docs, style, test, perf, ci, build
3. Keep the subject line under 72 characters
4. Be concise - describe WHAT changed, not WHY
5. Use imperative mood: "add feature" not "added feature"
6. Output ONLY the commit message, nothing else - no explanation, no reasoning
7. If changes span multiple areas, use the most impactful type
8. For scope, use the main module/component affected`

const (
	// MaxDiffChars is the default number of diff characters sent upstream
	MaxDiffChars = 300000

	// TruncationMarker is appended to a diff that was cut
	TruncationMarker = "\n\n... (diff truncated)"

	userPrefix = "Generate a commit message for this diff:\n\n"
)

// Message is a single chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TruncateDiff keeps the first max characters of diff and appends
// TruncationMarker when anything was cut. Characters are runes.
func TruncateDiff(diff string, max int) (string, bool) {
	if max <= 0 {
		max = MaxDiffChars
	}
	if len(diff) <= max || utf8.RuneCountInString(diff) <= max {
		return diff, false
	}

	n := 0
	for i := range diff {
		if n == max {
			return diff[:i] + TruncationMarker, true
		}
		n++
	}
	return diff, false
}

// BuildMessages returns the system and user messages for a diff that has
// already been truncated.
func BuildMessages(diff string) []Message {
	return []Message{
		{Role: "system", Content: CommitPrompt},
		{Role: "user", Content: userPrefix + diff},
	}
}
