package moderation

import (
	"ai-research-safety-be/pkg/risk"
	"ai-research-safety-be/pkg/trace"
)

// Request is one piece of content to moderate. At least one of Text,
// ImageURL, ImageBase64 must be present.
type Request struct {
	Text            string
	ImageURL        string
	ImageBase64     string
	Context         string
	StrictMode      bool
	CheckCategories []string
}

// ImageAnalysis is the typed outcome of the vision stage.
type ImageAnalysis struct {
	HasNSFW          bool               `json:"has_nsfw"`
	HasViolence      bool               `json:"has_violence"`
	HasHateSymbols   bool               `json:"has_hate_symbols"`
	ExtractedText    string             `json:"extracted_text,omitempty"`
	Violations       []risk.Violation   `json:"violations"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`
	ProcessingNotes  string             `json:"processing_notes,omitempty"`
}

// TextAnalysis is the typed outcome of the text stage.
type TextAnalysis struct {
	HasToxicity      bool               `json:"has_toxicity"`
	HasHateSpeech    bool               `json:"has_hate_speech"`
	HasHarassment    bool               `json:"has_harassment"`
	HasPII           bool               `json:"has_pii"`
	Violations       []risk.Violation   `json:"violations"`
	DetectedPII      []string           `json:"detected_pii"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`
	CleanedText      string             `json:"cleaned_text"`
}

// Verdict is the final structured safety decision for one request.
type Verdict struct {
	IsSafe               bool             `json:"is_safe"`
	OverallRiskLevel     risk.Level       `json:"overall_risk_level"`
	Summary              string           `json:"summary"`
	Rationale            string           `json:"rationale"`
	ImageAnalysis        *ImageAnalysis   `json:"image_analysis,omitempty"`
	TextAnalysis         *TextAnalysis    `json:"text_analysis,omitempty"`
	ViolationsFound      []risk.Violation `json:"violations_found"`
	ViolationCategories  []string         `json:"violation_categories"`
	ProcessingSteps      []trace.Step     `json:"processing_steps"`
	ProcessingTime       float64          `json:"processing_time"`
	ContentTypesAnalyzed []string         `json:"content_types_analyzed"`
}
