package moderation

import (
	"strings"

	"ai-research-safety-be/pkg/risk"
	"ai-research-safety-be/pkg/sections"
)

const imageAnalysisPrompt = `Analyze this image thoroughly for content policy violations. Check for:

1. **NSFW/Adult Content**: Nudity, sexual content, suggestive poses
2. **Violence**: Blood, weapons, fighting, gore, harm to people/animals
3. **Hate Symbols**: Nazi symbols, confederate flags, gang signs, extremist imagery
4. **Text Content**: Extract ALL visible text using OCR capabilities
5. **Other Violations**: Drugs, self-harm, disturbing content

Provide your analysis in this exact format:

NSFW_DETECTED: [YES/NO]
NSFW_CONFIDENCE: [0.0-1.0]
NSFW_DETAILS: [specific description]

VIOLENCE_DETECTED: [YES/NO]
VIOLENCE_CONFIDENCE: [0.0-1.0]
VIOLENCE_DETAILS: [specific description]

HATE_SYMBOLS_DETECTED: [YES/NO]
HATE_CONFIDENCE: [0.0-1.0]
HATE_DETAILS: [specific description]

EXTRACTED_TEXT: [all visible text, or "NONE" if no text]

OVERALL_SAFETY: [SAFE/UNSAFE]
REASONING: [detailed explanation of findings]`

// parseImageAnalysis decodes the vision model's labeled reply into a typed
// result. Malformed replies degrade to "nothing detected" per field.
func parseImageAnalysis(analysisText string) *ImageAnalysis {
	report := sections.Parse(analysisText)

	hasNSFW := report.Bool("NSFW_DETECTED")
	hasViolence := report.Bool("VIOLENCE_DETECTED")
	hasHateSymbols := report.Bool("HATE_SYMBOLS_DETECTED")

	nsfwConf := report.Confidence("NSFW_CONFIDENCE")
	violenceConf := report.Confidence("VIOLENCE_CONFIDENCE")
	hateConf := report.Confidence("HATE_CONFIDENCE")

	extracted := report.Details("EXTRACTED_TEXT")
	if extracted == sections.NoDetails || strings.TrimSpace(extracted) == "NONE" {
		extracted = ""
	}

	var violations []risk.Violation
	if hasNSFW {
		violations = append(violations, risk.Violation{
			Category:    "nsfw",
			Detected:    true,
			Confidence:  nsfwConf,
			Description: report.Details("NSFW_DETAILS"),
			Evidence:    []string{"Visual content analysis"},
		})
	}
	if hasViolence {
		violations = append(violations, risk.Violation{
			Category:    "violence",
			Detected:    true,
			Confidence:  violenceConf,
			Description: report.Details("VIOLENCE_DETAILS"),
			Evidence:    []string{"Visual content analysis"},
		})
	}
	if hasHateSymbols {
		violations = append(violations, risk.Violation{
			Category:    "hate_symbols",
			Detected:    true,
			Confidence:  hateConf,
			Description: report.Details("HATE_DETAILS"),
			Evidence:    []string{"Visual content analysis"},
		})
	}

	return &ImageAnalysis{
		HasNSFW:        hasNSFW,
		HasViolence:    hasViolence,
		HasHateSymbols: hasHateSymbols,
		ExtractedText:  extracted,
		Violations:     violations,
		ConfidenceScores: map[string]float64{
			"nsfw":         nsfwConf,
			"violence":     violenceConf,
			"hate_symbols": hateConf,
		},
		ProcessingNotes: "Analyzed using vision model",
	}
}
