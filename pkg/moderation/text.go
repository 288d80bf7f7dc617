package moderation

import (
	"fmt"

	"ai-research-safety-be/pkg/redact"
	"ai-research-safety-be/pkg/risk"
	"ai-research-safety-be/pkg/sections"
)

// Default confidence for PII findings; the model reports types, not scores.
const piiConfidence = 0.8

func buildTextAnalysisPrompt(text string, strictMode bool) string {
	strictness := "balanced"
	if strictMode {
		strictness = "very strict"
	}

	return fmt.Sprintf(`Analyze this text content for policy violations using %s standards:

Text: %q

Check for:
1. **Toxicity**: Offensive, rude, or disrespectful language
2. **Hate Speech**: Content targeting individuals/groups based on identity
3. **Harassment**: Threats, intimidation, stalking, bullying
4. **PII**: Personal information like phone numbers, emails, addresses, SSNs
5. **Other Violations**: Spam, misinformation, illegal content

Provide analysis in this format:

TOXICITY_DETECTED: [YES/NO]
TOXICITY_CONFIDENCE: [0.0-1.0]
TOXICITY_DETAILS: [specific examples]

HATE_SPEECH_DETECTED: [YES/NO]
HATE_CONFIDENCE: [0.0-1.0]
HATE_DETAILS: [specific examples]

HARASSMENT_DETECTED: [YES/NO]
HARASSMENT_CONFIDENCE: [0.0-1.0]
HARASSMENT_DETAILS: [specific examples]

PII_DETECTED: [YES/NO]
PII_TYPES: [list types found: phone, email, ssn, address, etc.]
PII_DETAILS: [what was found]

OVERALL_SAFETY: [SAFE/UNSAFE]
REASONING: [detailed explanation]`, strictness, text)
}

// parseTextAnalysis decodes the text model's labeled reply and attaches the
// redacted form of the original text.
func parseTextAnalysis(analysisText, originalText string, redactor *redact.Redactor) *TextAnalysis {
	report := sections.Parse(analysisText)

	hasToxicity := report.Bool("TOXICITY_DETECTED")
	hasHateSpeech := report.Bool("HATE_SPEECH_DETECTED")
	hasHarassment := report.Bool("HARASSMENT_DETECTED")
	hasPII := report.Bool("PII_DETECTED")

	toxicityConf := report.Confidence("TOXICITY_CONFIDENCE")
	hateConf := report.Confidence("HATE_CONFIDENCE")
	harassmentConf := report.Confidence("HARASSMENT_CONFIDENCE")

	piiTypes := report.List("PII_TYPES")

	var violations []risk.Violation
	if hasToxicity {
		violations = append(violations, risk.Violation{
			Category:    "toxicity",
			Detected:    true,
			Confidence:  toxicityConf,
			Description: report.Details("TOXICITY_DETAILS"),
			Evidence:    []string{"Text content analysis"},
		})
	}
	if hasHateSpeech {
		violations = append(violations, risk.Violation{
			Category:    "hate_speech",
			Detected:    true,
			Confidence:  hateConf,
			Description: report.Details("HATE_DETAILS"),
			Evidence:    []string{"Text content analysis"},
		})
	}
	if hasHarassment {
		violations = append(violations, risk.Violation{
			Category:    "harassment",
			Detected:    true,
			Confidence:  harassmentConf,
			Description: report.Details("HARASSMENT_DETAILS"),
			Evidence:    []string{"Text content analysis"},
		})
	}
	if hasPII {
		violations = append(violations, risk.Violation{
			Category:    "pii",
			Detected:    true,
			Confidence:  piiConfidence,
			Description: report.Details("PII_DETAILS"),
			Evidence:    piiTypes,
		})
	}

	return &TextAnalysis{
		HasToxicity:   hasToxicity,
		HasHateSpeech: hasHateSpeech,
		HasHarassment: hasHarassment,
		HasPII:        hasPII,
		Violations:    violations,
		DetectedPII:   piiTypes,
		ConfidenceScores: map[string]float64{
			"toxicity":    toxicityConf,
			"hate_speech": hateConf,
			"harassment":  harassmentConf,
		},
		CleanedText: redactor.Redact(originalText),
	}
}
