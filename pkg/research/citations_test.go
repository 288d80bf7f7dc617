package research

import (
	"strings"
	"testing"
)

func TestExtractCitations(t *testing.T) {
	content := "Solar capacity grew 24% last year. See https://example.com/report for the data."

	citations := ExtractCitations(content)
	if len(citations) != 1 {
		t.Fatalf("got %d citations, want 1", len(citations))
	}

	c := citations[0]
	if c.URL != "https://example.com/report" {
		t.Errorf("URL = %q", c.URL)
	}
	if content[c.StartIndex:c.EndIndex] != c.URL {
		t.Errorf("offsets [%d:%d] do not span the URL", c.StartIndex, c.EndIndex)
	}
	if !strings.HasPrefix(c.Title, "Solar capacity") {
		t.Errorf("Title = %q, want the nearby sentence", c.Title)
	}
}

func TestExtractCitationsMultiple(t *testing.T) {
	content := "sources: http://a.example.org/x and https://b.example.org/y listed below"

	citations := ExtractCitations(content)
	if len(citations) != 2 {
		t.Fatalf("got %d citations, want 2", len(citations))
	}
	// No capitalized fragment nearby, so titles fall back to Source N
	if citations[0].Title != "Source 1" || citations[1].Title != "Source 2" {
		t.Errorf("fallback titles = %q, %q", citations[0].Title, citations[1].Title)
	}
	for _, c := range citations {
		if content[c.StartIndex:c.EndIndex] != c.URL {
			t.Errorf("offsets [%d:%d] do not span %q", c.StartIndex, c.EndIndex, c.URL)
		}
	}
}

func TestExtractCitationsNone(t *testing.T) {
	if got := ExtractCitations("no links in this text"); len(got) != 0 {
		t.Errorf("got %d citations, want 0", len(got))
	}
}

func TestExtractCitationsTitleTruncated(t *testing.T) {
	long := "A" + strings.Repeat("x", 200) + " https://example.com/long"
	citations := ExtractCitations(long)
	if len(citations) != 1 {
		t.Fatalf("got %d citations, want 1", len(citations))
	}
	if len(citations[0].Title) > maxTitleLen {
		t.Errorf("title length = %d, want <= %d", len(citations[0].Title), maxTitleLen)
	}
}

func TestReanchorCitations(t *testing.T) {
	search := "Raw result with https://example.com/a plus https://example.com/b trailing"
	citations := ExtractCitations(search)

	answer := "In summary (https://example.com/b), capacity doubled."
	reanchored := ReanchorCitations(citations, answer)

	if len(reanchored) != 2 {
		t.Fatalf("got %d citations, want 2", len(reanchored))
	}

	// URL present in the answer is repointed there
	b := reanchored[1]
	if answer[b.StartIndex:b.EndIndex] != b.URL {
		t.Errorf("reanchored offsets [%d:%d] do not span %q in the answer", b.StartIndex, b.EndIndex, b.URL)
	}

	// URL dropped by synthesis keeps its original offsets
	if reanchored[0] != citations[0] {
		t.Errorf("citation without a match changed: %+v -> %+v", citations[0], reanchored[0])
	}

	// Input slice is never mutated
	if citations[1].StartIndex == b.StartIndex && citations[1].StartIndex != strings.Index(search, citations[1].URL) {
		t.Error("ReanchorCitations mutated its input")
	}
}
