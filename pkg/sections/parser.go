// Package sections decodes the labeled-section replies produced by the
// analysis models (lines like "TOXICITY_DETECTED: YES"). Model output is
// treated as an untrusted, best-effort encoding: every accessor resolves
// missing or malformed fields to a documented default and never fails, so no
// other package has to touch raw model text.
package sections

import (
	"regexp"
	"strconv"
	"strings"
)

// NoDetails is the default returned for an absent free-text field.
const NoDetails = "No details provided"

var (
	floatTokenRe = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)
	labelLineRe  = regexp.MustCompile(`(?m)^\s*[A-Z][A-Z0-9_]*:`)
)

// Report is a parsed view over one model reply.
type Report struct {
	raw string
}

func Parse(raw string) *Report {
	return &Report{raw: raw}
}

// Raw returns the underlying text (used only for trace recording).
func (r *Report) Raw() string {
	return r.raw
}

// Bool reports whether the literal marker YES immediately follows the label.
// Anything else, including a missing label, is false.
func (r *Report) Bool(label string) bool {
	rest, ok := r.after(label)
	if !ok {
		return false
	}
	return strings.HasPrefix(strings.TrimLeft(rest, " \t"), "YES")
}

// Confidence returns the first floating-point token after the label, clamped
// to [0,1]. Missing or unparsable values default to 0.0.
func (r *Report) Confidence(label string) float64 {
	rest, ok := r.after(label)
	if !ok {
		return 0.0
	}
	// Only look at the label's own line
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		rest = rest[:idx]
	}
	token := floatTokenRe.FindString(rest)
	if token == "" {
		return 0.0
	}
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0.0
	}
	if value < 0 {
		return 0.0
	}
	if value > 1 {
		return 1.0
	}
	return value
}

// Details returns the free text between the label and the next all-caps
// label line (or end of text), trimmed. Absent or empty sections resolve to
// NoDetails.
func (r *Report) Details(label string) string {
	rest, ok := r.after(label)
	if !ok {
		return NoDetails
	}
	if loc := labelLineRe.FindStringIndex(rest); loc != nil {
		rest = rest[:loc[0]]
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return NoDetails
	}
	return rest
}

// List reads a bracketed, comma-separated token group following the label,
// e.g. "PII_TYPES: [phone, email]". Missing brackets yield an empty list.
func (r *Report) List(label string) []string {
	rest, ok := r.after(label)
	if !ok {
		return nil
	}
	open := strings.IndexByte(rest, '[')
	if open == -1 {
		return nil
	}
	end := strings.IndexByte(rest[open:], ']')
	if end == -1 {
		return nil
	}
	var items []string
	for _, part := range strings.Split(rest[open+1:open+end], ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// Contains reports whether the raw text contains the given marker. Used for
// sentinel checks like "SANITIZED_QUERY: REJECTED".
func (r *Report) Contains(marker string) bool {
	return strings.Contains(r.raw, marker)
}

// after returns the text following "LABEL:" for the first occurrence of the
// label, or ok=false if the label is absent.
func (r *Report) after(label string) (string, bool) {
	idx := strings.Index(r.raw, label+":")
	if idx == -1 {
		return "", false
	}
	return r.raw[idx+len(label)+1:], true
}
