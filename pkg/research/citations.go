package research

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	urlRe = regexp.MustCompile(`https?://[^\s)]+(?:\.[^\s)]+)+`)
	// A capitalized sentence fragment near the URL doubles as its title.
	titleRe = regexp.MustCompile(`[A-Z][^.!?]*(?:[.!?]|$)`)
)

const maxTitleLen = 100

// ExtractCitations finds inline source URLs in the search output and builds
// citations with byte offsets into that text.
func ExtractCitations(content string) []Citation {
	var citations []Citation

	for i, url := range urlRe.FindAllString(content, -1) {
		start := strings.Index(content, url)
		if start == -1 {
			continue
		}

		// Grab surrounding context to guess a title
		ctxStart := start - 100
		if ctxStart < 0 {
			ctxStart = 0
		}
		ctxEnd := start + len(url) + 100
		if ctxEnd > len(content) {
			ctxEnd = len(content)
		}

		title := titleRe.FindString(content[ctxStart:ctxEnd])
		if title == "" {
			title = fmt.Sprintf("Source %d", i+1)
		}
		title = strings.TrimSpace(title)
		if len(title) > maxTitleLen {
			title = title[:maxTitleLen]
		}

		citations = append(citations, Citation{
			URL:        url,
			Title:      title,
			StartIndex: start,
			EndIndex:   start + len(url),
		})
	}

	return citations
}

// ReanchorCitations repoints citation offsets at the final answer wherever
// the URL survived synthesis. Citations whose URL was dropped keep their
// search-result offsets so the source list stays complete.
func ReanchorCitations(citations []Citation, answer string) []Citation {
	out := make([]Citation, len(citations))
	copy(out, citations)
	for i := range out {
		if idx := strings.Index(answer, out[i].URL); idx >= 0 {
			out[i].StartIndex = idx
			out[i].EndIndex = idx + len(out[i].URL)
		}
	}
	return out
}
