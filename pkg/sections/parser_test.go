package sections

import (
	"reflect"
	"testing"
)

const sampleReport = `NSFW_DETECTED: NO
NSFW_CONFIDENCE: 0.05
VIOLENCE_DETECTED: YES
VIOLENCE_CONFIDENCE: 0.85
HATE_SYMBOLS_DETECTED: NO
HATE_SYMBOLS_CONFIDENCE: 0
EXTRACTED_TEXT: Stop sign visible
in the background
DESCRIPTION: A street scene with a minor altercation
PII_TYPES: [phone, email]`

func TestBool(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		label string
		want  bool
	}{
		{"literal YES", sampleReport, "VIOLENCE_DETECTED", true},
		{"literal NO", sampleReport, "NSFW_DETECTED", false},
		{"missing label", sampleReport, "TOXICITY_DETECTED", false},
		{"lowercase yes is not a marker", "FLAG: yes", "FLAG", false},
		{"YES with leading spaces", "FLAG:   YES", "FLAG", true},
		{"empty input", "", "FLAG", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.raw).Bool(tt.label); got != tt.want {
				t.Errorf("Bool(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		label string
		want  float64
	}{
		{"plain decimal", sampleReport, "VIOLENCE_CONFIDENCE", 0.85},
		{"integer zero", sampleReport, "HATE_SYMBOLS_CONFIDENCE", 0.0},
		{"missing label defaults to zero", sampleReport, "TOXICITY_CONFIDENCE", 0.0},
		{"clamped above one", "SCORE: 3.5", "SCORE", 1.0},
		{"no numeric token", "SCORE: high", "SCORE", 0.0},
		{"only reads own line", "SCORE: n/a\nOTHER: 0.9", "SCORE", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.raw).Confidence(tt.label); got != tt.want {
				t.Errorf("Confidence(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}

func TestDetails(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		label string
		want  string
	}{
		{"stops at next label line", sampleReport, "EXTRACTED_TEXT", "Stop sign visible\nin the background"},
		{"runs to end of text", sampleReport, "PII_TYPES", "[phone, email]"},
		{"missing label", sampleReport, "REASONING", NoDetails},
		{"empty section", "REASONING:\nNEXT_LABEL: x", "REASONING", NoDetails},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.raw).Details(tt.label); got != tt.want {
				t.Errorf("Details(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}

func TestList(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		label string
		want  []string
	}{
		{"bracketed group", sampleReport, "PII_TYPES", []string{"phone", "email"}},
		{"empty brackets", "PII_TYPES: []", "PII_TYPES", nil},
		{"missing brackets", "PII_TYPES: phone, email", "PII_TYPES", nil},
		{"missing label", sampleReport, "RISK_CATEGORIES", nil},
		{"whitespace trimmed", "X: [ a ,  b ,]", "X", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw).List(tt.label)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("List(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	report := Parse("SAFETY_ASSESSMENT: UNSAFE\nSANITIZED_QUERY: REJECTED")
	if !report.Contains("SANITIZED_QUERY: REJECTED") {
		t.Error("expected sentinel marker to be found")
	}
	if report.Contains("SAFETY_ASSESSMENT: SAFE\n") {
		t.Error("unexpected marker match")
	}
}
