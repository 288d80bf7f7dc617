package moderation

import (
	"fmt"
	"strings"

	"ai-research-safety-be/pkg/risk"
	"ai-research-safety-be/pkg/trace"
)

// errorVerdict is the well-typed response for a request that could not be
// analyzed. Defaults to unsafe: unanalyzed content is never vouched for.
func errorVerdict(message string, steps []trace.Step, processingTime float64) *Verdict {
	return &Verdict{
		IsSafe:               false,
		OverallRiskLevel:     risk.LevelHigh,
		Summary:              "⚠️ Content moderation failed due to processing error",
		Rationale:            fmt.Sprintf("Unable to complete content analysis: %s", message),
		ViolationsFound:      []risk.Violation{},
		ViolationCategories:  []string{},
		ProcessingSteps:      steps,
		ProcessingTime:       processingTime,
		ContentTypesAnalyzed: []string{},
	}
}

// summarize builds the human-readable summary and rationale for a verdict.
func summarize(isSafe bool, violations []risk.Violation, image *ImageAnalysis, text *TextAnalysis) (string, string) {
	if isSafe {
		summary := "✅ Content is SAFE: No significant policy violations detected."
		rationale := "The content analysis found no violations that exceed our safety thresholds. "
		if image != nil {
			rationale += "Image analysis found no NSFW, violent, or hate-related content. "
		}
		if text != nil {
			rationale += "Text analysis found no toxicity, hate speech, or harassment. "
		}
		return summary, rationale
	}

	detected := detectedCategories(violations)
	summary := fmt.Sprintf("🚫 Content is NOT SAFE: Detected violations in %s", strings.Join(detected, ", "))

	var rationale strings.Builder
	rationale.WriteString("The content analysis detected the following violations: ")
	for _, v := range violations {
		if v.Detected {
			rationale.WriteString(fmt.Sprintf("\n- %s: %s (confidence: %.2f)", titleCase(v.Category), v.Description, v.Confidence))
		}
	}
	return summary, rationale.String()
}

func detectedCategories(violations []risk.Violation) []string {
	var out []string
	for _, v := range violations {
		if v.Detected {
			out = append(out, v.Category)
		}
	}
	return out
}

// uniqueCategories preserves first-seen order.
func uniqueCategories(violations []risk.Violation) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, v := range violations {
		if v.Detected && !seen[v.Category] {
			seen[v.Category] = true
			out = append(out, v.Category)
		}
	}
	return out
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
