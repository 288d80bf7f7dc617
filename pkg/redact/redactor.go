package redact

import "regexp"

// pattern pairs a PII category with its detection regex and placeholder.
type pattern struct {
	category    string
	re          *regexp.Regexp
	placeholder string // empty = detect only, never substituted
}

// Patterns are applied independently in this fixed order. Because each
// category runs its own pass, a span matching two categories can be redacted
// twice; that overlap is intentional and not deduplicated.
// IP addresses are detect-only: they are reported by Detect but left in place
// by Redact.
var patterns = []pattern{
	{"phone", regexp.MustCompile(`\b(?:\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}\b`), "[PHONE_REDACTED]"},
	{"email", regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), "[EMAIL_REDACTED]"},
	{"ssn", regexp.MustCompile(`\b\d{3}-?\d{2}-?\d{4}\b`), "[SSN_REDACTED]"},
	{"credit_card", regexp.MustCompile(`\b(?:\d{4}[-\s]?){3}\d{4}\b`), "[CARD_REDACTED]"},
	{"ip_address", regexp.MustCompile(`\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`), ""},
	{"address", regexp.MustCompile(`\b\d+\s+[A-Za-z0-9\s,]+(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr)\b`), "[ADDRESS_REDACTED]"},
}

// Redactor detects and masks sensitive-data spans. Stateless; the pattern
// table is process-wide, read-only configuration.
type Redactor struct{}

func NewRedactor() *Redactor {
	return &Redactor{}
}

// Redact returns text with every redactable PII match replaced by its
// category placeholder.
func (r *Redactor) Redact(text string) string {
	for _, p := range patterns {
		if p.placeholder == "" {
			continue
		}
		text = p.re.ReplaceAllString(text, p.placeholder)
	}
	return text
}

// Detect returns the PII categories present in text, in pattern order.
// Unlike Redact it also reports detect-only categories such as ip_address.
func (r *Redactor) Detect(text string) []string {
	var found []string
	for _, p := range patterns {
		if p.re.MatchString(text) {
			found = append(found, p.category)
		}
	}
	return found
}

// Categories lists every PII category the redactor knows about.
func Categories() []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, p.category)
	}
	return out
}
