package engine

import "testing"

func TestNormalizeTitle(t *testing.T) {
	cases := []struct {
		name  string
		title string
		want  string
	}{
		{"plain", "Big Storm Hits Coast", "big storm hits coast"},
		{"punctuation", "Breaking: Markets Fall, Again!", "breaking markets fall again"},
		{"collapse spaces", "  too    many   spaces  ", "too many spaces"},
		{"digits kept", "Top 10 moments of 2026", "top 10 moments of 2026"},
		{"unicode flattened", "Café prices soar", "caf prices soar"},
		{"only punctuation", "?!?! --- ***", ""},
		{"empty", "", ""},
		{
			"truncated to nine tokens",
			"one two three four five six seven eight nine ten eleven",
			"one two three four five six seven eight nine",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeTitle(tc.title); got != tc.want {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tc.title, got, tc.want)
			}
		})
	}
}

func TestNormalizeTitleIdempotent(t *testing.T) {
	titles := []string{
		"Big Storm Hits Coast",
		"Breaking: Markets Fall, Again!",
		"one two three four five six seven eight nine ten",
		"?!?!",
		"",
		"MiXeD CaSe 123",
	}
	for _, title := range titles {
		once := NormalizeTitle(title)
		twice := NormalizeTitle(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", title, once, twice)
		}
	}
}
