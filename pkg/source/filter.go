package source

import "strings"

// Filter drops headlines matching any exclude keyword. Matching is
// case-insensitive substring.
type Filter struct {
	exclude []string
}

// NewFilter creates a headline filter from exclude keywords.
func NewFilter(excludeKeywords []string) *Filter {
	exclude := make([]string, len(excludeKeywords))
	for i, kw := range excludeKeywords {
		exclude[i] = strings.ToLower(kw)
	}
	return &Filter{exclude: exclude}
}

// Excluded returns true if the title matches an exclude keyword.
func (f *Filter) Excluded(title string) bool {
	lower := strings.ToLower(title)
	for _, ex := range f.exclude {
		if ex != "" && strings.Contains(lower, ex) {
			return true
		}
	}
	return false
}
