package source

import "testing"

func TestFilterExcluded(t *testing.T) {
	f := NewFilter([]string{"sponsored", "Horoscope"})

	cases := []struct {
		title string
		want  bool
	}{
		{"Daily Horoscope for August", true},
		{"SPONSORED: best deals today", true},
		{"Regular headline", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := f.Excluded(tc.title); got != tc.want {
			t.Errorf("Excluded(%q) = %v, want %v", tc.title, got, tc.want)
		}
	}
}

func TestFilterNoKeywords(t *testing.T) {
	f := NewFilter(nil)
	if f.Excluded("anything at all") {
		t.Error("empty filter excluded a headline")
	}
}
