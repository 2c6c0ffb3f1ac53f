package engine

import "strings"

// keyTokens bounds how much of a headline participates in the
// clustering key. A wider window merges more aggressively.
const keyTokens = 9

// NormalizeTitle reduces a headline to its clustering key: lowercased,
// everything outside [a-z0-9 ] flattened to spaces, rejoined from the
// first 9 tokens. Titles that reduce to nothing return "" and must not
// be clustered.
func NormalizeTitle(title string) string {
	lower := strings.ToLower(title)

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	tokens := strings.Fields(b.String())
	if len(tokens) > keyTokens {
		tokens = tokens[:keyTokens]
	}
	return strings.Join(tokens, " ")
}
