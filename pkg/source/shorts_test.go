package source

import "testing"

func TestExtractVideoIDs(t *testing.T) {
	html := `
		<a href="/shorts/abc123XYZ_-">one</a>
		{"url":"/shorts/abc123XYZ_-"}
		<a href="/shorts/zyx987CBA-_">two</a>
		<a href="/shorts/short">too short, ignored</a>
		<a href="/watch?v=notashort00">not a short</a>
	`
	ids := ExtractVideoIDs(html)
	want := []string{"abc123XYZ_-", "zyx987CBA-_"}
	if len(ids) != len(want) {
		t.Fatalf("got %d ids %v, want %d", len(ids), ids, len(want))
	}
	for i, id := range want {
		if ids[i] != id {
			t.Errorf("ids[%d] = %q, want %q (dedup, first-appearance order)", i, ids[i], id)
		}
	}
}

func TestExtractVideoIDsEmpty(t *testing.T) {
	if ids := ExtractVideoIDs("<html><body>nothing here</body></html>"); len(ids) != 0 {
		t.Errorf("got %v from page without shorts links", ids)
	}
}
