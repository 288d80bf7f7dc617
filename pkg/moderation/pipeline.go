package moderation

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"time"

	"ai-research-safety-be/pkg/llm"
	"ai-research-safety-be/pkg/redact"
	"ai-research-safety-be/pkg/risk"
	"ai-research-safety-be/pkg/trace"
)

// Pipeline runs the moderation flow:
// ValidateInput -> [AnalyzeImage] -> AnalyzeText -> ExternalModerate -> Aggregate.
// Per-stage failures contribute no violations instead of aborting the request;
// only input validation short-circuits.
type Pipeline struct {
	llmProvider        llm.LLMProvider
	visionProvider     llm.VisionProvider     // nil: image stage records an error step
	moderationProvider llm.ModerationProvider // nil: moderation pass skipped
	redactor           *redact.Redactor
	classifier         *risk.Classifier
	logger             *log.Logger
}

func NewPipeline(
	llmProvider llm.LLMProvider,
	visionProvider llm.VisionProvider,
	moderationProvider llm.ModerationProvider,
	redactor *redact.Redactor,
	classifier *risk.Classifier,
	logger *log.Logger,
) *Pipeline {
	return &Pipeline{
		llmProvider:        llmProvider,
		visionProvider:     visionProvider,
		moderationProvider: moderationProvider,
		redactor:           redactor,
		classifier:         classifier,
		logger:             logger,
	}
}

// Moderate analyzes one request and always returns a well-typed verdict.
func (p *Pipeline) Moderate(ctx context.Context, req Request) (verdict *Verdict) {
	start := time.Now()
	tracer := trace.NewTracer()
	var contentTypes []string

	defer func() {
		if r := recover(); r != nil {
			p.logger.Printf("[ERROR] Moderation pipeline panic: %v", r)
			tracer.Record("error_handling",
				"An error occurred during content moderation",
				fmt.Sprintf("Error: %v", r))
			verdict = errorVerdict(fmt.Sprintf("Content moderation failed: %v", r),
				tracer.Steps(), time.Since(start).Seconds())
		}
	}()

	// Step 1: Validate input
	if msg, ok := p.validateInput(req); !ok {
		tracer.Record("input_validation", "Input validation failed", "Error: "+msg)
		return errorVerdict(msg, tracer.Steps(), time.Since(start).Seconds())
	}
	tracer.Record("input_validation",
		"Input validation completed successfully",
		"Valid content provided for moderation")

	var allViolations []risk.Violation

	// Step 2: Analyze image if provided
	var imageAnalysis *ImageAnalysis
	if req.ImageURL != "" || req.ImageBase64 != "" {
		contentTypes = append(contentTypes, "image")
		imageAnalysis = p.analyzeImage(ctx, tracer, req)
		if imageAnalysis != nil {
			allViolations = append(allViolations, imageAnalysis.Violations...)
		}
	}

	// Step 3: Analyze text, direct and OCR-extracted combined
	textToAnalyze := req.Text
	if imageAnalysis != nil && imageAnalysis.ExtractedText != "" {
		if textToAnalyze != "" {
			textToAnalyze += "\n\n" + imageAnalysis.ExtractedText
		} else {
			textToAnalyze = imageAnalysis.ExtractedText
		}
	}

	var textAnalysis *TextAnalysis
	if textToAnalyze != "" {
		contentTypes = append(contentTypes, "text")
		textAnalysis = p.analyzeText(ctx, tracer, textToAnalyze, req.StrictMode)
		if textAnalysis != nil {
			allViolations = append(allViolations, textAnalysis.Violations...)
		}
	}

	// Step 4: External moderation API pass
	if textToAnalyze != "" {
		allViolations = append(allViolations, p.externalModerate(ctx, tracer, textToAnalyze)...)
	}

	// Step 5: Aggregate and decide
	p.recordAggregation(tracer, allViolations, req.StrictMode)
	isSafe, level := p.classifier.Classify(allViolations)
	summary, rationale := summarize(isSafe, allViolations, imageAnalysis, textAnalysis)

	if allViolations == nil {
		allViolations = []risk.Violation{}
	}

	return &Verdict{
		IsSafe:               isSafe,
		OverallRiskLevel:     level,
		Summary:              summary,
		Rationale:            rationale,
		ImageAnalysis:        imageAnalysis,
		TextAnalysis:         textAnalysis,
		ViolationsFound:      allViolations,
		ViolationCategories:  uniqueCategories(allViolations),
		ProcessingSteps:      tracer.Steps(),
		ProcessingTime:       time.Since(start).Seconds(),
		ContentTypesAnalyzed: contentTypes,
	}
}

// validateInput rejects only total absence of content or undecodable base64
// image data.
func (p *Pipeline) validateInput(req Request) (string, bool) {
	if req.Text == "" && req.ImageURL == "" && req.ImageBase64 == "" {
		return "No content provided for moderation", false
	}
	if req.ImageBase64 != "" {
		if _, err := base64.StdEncoding.DecodeString(stripDataURI(req.ImageBase64)); err != nil {
			return "Invalid base64 image data", false
		}
	}
	return "", true
}

func (p *Pipeline) analyzeImage(ctx context.Context, tracer *trace.Tracer, req Request) *ImageAnalysis {
	if p.visionProvider == nil {
		tracer.Record("image_analysis", "Image analysis failed",
			"Error analyzing image: no vision capability configured")
		return nil
	}

	imageURL := req.ImageURL
	if req.ImageBase64 != "" {
		if strings.HasPrefix(req.ImageBase64, "data:image/") {
			imageURL = req.ImageBase64
		} else {
			imageURL = "data:image/jpeg;base64," + req.ImageBase64
		}
	}

	analysis, err := p.visionProvider.AnalyzeImage(ctx, imageAnalysisPrompt, imageURL, llm.WithMaxTokens(500))
	if err != nil {
		p.logger.Printf("[ERROR] Image analysis failed: %v", err)
		tracer.Record("image_analysis", "Image analysis failed",
			fmt.Sprintf("Error analyzing image: %v", err))
		return nil
	}

	tracer.Record("image_analysis",
		"Analyzed image for NSFW, violence, hate symbols, and extracted text",
		analysis)
	return parseImageAnalysis(analysis)
}

func (p *Pipeline) analyzeText(ctx context.Context, tracer *trace.Tracer, text string, strictMode bool) *TextAnalysis {
	strictness := "balanced"
	if strictMode {
		strictness = "very strict"
	}

	analysis, err := p.llmProvider.Generate(ctx, buildTextAnalysisPrompt(text, strictMode),
		llm.WithTemperature(0.1), llm.WithMaxTokens(400))
	if err != nil {
		p.logger.Printf("[ERROR] Text analysis failed: %v", err)
		tracer.Record("text_analysis", "Text analysis failed",
			fmt.Sprintf("Error analyzing text: %v", err))
		return nil
	}

	tracer.Record("text_analysis",
		fmt.Sprintf("Analyzed text content for violations using %s standards", strictness),
		analysis)
	return parseTextAnalysis(analysis, text, p.redactor)
}

// externalModerate runs the hosted moderation model over the text. Failures
// contribute no violations.
func (p *Pipeline) externalModerate(ctx context.Context, tracer *trace.Tracer, text string) []risk.Violation {
	if p.moderationProvider == nil {
		return nil
	}

	outcome, err := p.moderationProvider.Moderate(ctx, text)
	if err != nil {
		p.logger.Printf("[ERROR] Moderation API error: %v", err)
		tracer.Record("external_moderation", "External moderation failed",
			fmt.Sprintf("Error: %v", err))
		return nil
	}

	if !outcome.Flagged {
		tracer.Record("external_moderation", "Applied external moderation API",
			"No violations detected by external moderation")
		return nil
	}

	var flagged []string
	var violations []risk.Violation
	for category, isFlagged := range outcome.Categories {
		if !isFlagged {
			continue
		}
		flagged = append(flagged, category)
		confidence := piiConfidence // default when the API omits a score
		if score, ok := outcome.CategoryScores[category]; ok {
			confidence = score
		}
		violations = append(violations, risk.Violation{
			Category:    "moderation_" + normalizeCategory(category),
			Detected:    true,
			Confidence:  confidence,
			Description: fmt.Sprintf("Flagged by external moderation for %s", category),
			Evidence:    []string{"Moderation API"},
		})
	}

	tracer.Record("external_moderation", "Applied external moderation API",
		fmt.Sprintf("Content flagged for: %s", strings.Join(flagged, ", ")))
	return violations
}

func (p *Pipeline) recordAggregation(tracer *trace.Tracer, violations []risk.Violation, strictMode bool) {
	count := 0
	maxConfidence := 0.0
	for _, v := range violations {
		if v.Detected {
			count++
			if v.Confidence > maxConfidence {
				maxConfidence = v.Confidence
			}
		}
	}

	decision := fmt.Sprintf("Found %d violations. Max confidence: %.2f", count, maxConfidence)
	if strictMode {
		decision += " (Strict mode enabled)"
	}
	tracer.Record("result_aggregation",
		"Aggregated all analysis results and applied decision logic",
		decision)
}

func normalizeCategory(category string) string {
	return strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(category, "/", "_"), "-", "_"))
}

func stripDataURI(data string) string {
	if strings.HasPrefix(data, "data:") {
		if idx := strings.Index(data, "base64,"); idx >= 0 {
			return data[idx+len("base64,"):]
		}
	}
	return data
}
