package research

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"ai-research-safety-be/pkg/guard"
	"ai-research-safety-be/pkg/llm"
	"ai-research-safety-be/pkg/sections"
	"ai-research-safety-be/pkg/trace"
)

// Fixed user-facing answers. The raw collaborator output is never shown when
// a safety decision replaces it.
const (
	refusalAnswer = "I cannot process this request as it may involve harmful, inappropriate, or potentially unsafe content."
	flaggedAnswer = "I apologize, but I cannot provide a response to this query due to safety concerns identified in the search results."
	errorAnswer   = "I apologize, but I encountered an error while processing your request. Please try again."
)

// Pipeline runs the research flow:
// Validate -> AnalyzeIntent -> WebSearch -> ExtractCitations ->
// ContextualModerate -> Synthesize.
// It holds only immutable collaborators and is safe to share across requests.
type Pipeline struct {
	guard              *guard.Guard
	llmProvider        llm.LLMProvider
	searchProvider     llm.SearchProvider     // nil disables live web search
	moderationProvider llm.ModerationProvider // nil skips the API moderation pass
	logger             *log.Logger
}

func NewPipeline(
	g *guard.Guard,
	llmProvider llm.LLMProvider,
	searchProvider llm.SearchProvider,
	moderationProvider llm.ModerationProvider,
	logger *log.Logger,
) *Pipeline {
	return &Pipeline{
		guard:              g,
		llmProvider:        llmProvider,
		searchProvider:     searchProvider,
		moderationProvider: moderationProvider,
		logger:             logger,
	}
}

// Run executes the pipeline. It always returns a well-typed Result: stage
// failures are downgraded to "no signal" steps and a panic anywhere inside is
// converted to an error_handling step with a generic apology. Nothing raw
// ever escapes to the caller.
func (p *Pipeline) Run(ctx context.Context, req Request) (result *Result) {
	start := time.Now()
	tracer := trace.NewTracer()

	defer func() {
		if r := recover(); r != nil {
			p.logger.Printf("[ERROR] Research pipeline panic: %v", r)
			tracer.Record("error_handling",
				"An error occurred during research",
				fmt.Sprintf("Error: %v", r))
			result = &Result{
				Query:             req.Query,
				Answer:            errorAnswer,
				ReasoningSteps:    tracer.Steps(),
				SafetyCheckPassed: false,
				ProcessingTime:    time.Since(start).Seconds(),
			}
		}
	}()

	// Step 1: Validate and sanitize input
	assessment := p.guard.Evaluate(ctx, req.Query)
	if !assessment.Accepted {
		tracer.RecordQuery(assessment.Tier,
			"Input validation failed",
			req.Query,
			fmt.Sprintf("REJECTED: Query flagged for safety concerns. Categories: %s",
				joinOrDefault(assessment.RiskCategories, "General safety")))
		return &Result{
			Query:             req.Query,
			Answer:            refusalAnswer,
			ReasoningSteps:    tracer.Steps(),
			SafetyCheckPassed: false,
			ProcessingTime:    time.Since(start).Seconds(),
		}
	}
	tracer.RecordQuery(assessment.Tier,
		"Input validation and sanitization completed",
		req.Query,
		"SAFE: "+assessment.Detail)

	query := assessment.SanitizedText
	if query == "" {
		query = req.Query
	}

	// Step 2: Query analysis
	p.analyzeQuery(ctx, tracer, query)

	// Step 3: Web search
	searchResponse := p.performWebSearch(ctx, tracer, query, req)

	// Step 4: Citation extraction
	citations := ExtractCitations(searchResponse)
	tracer.Record("citation_extraction",
		"Extracted citations from web search results",
		fmt.Sprintf("Found %d citations", len(citations)))

	// Step 5: Contextual moderation of the search output
	safetyPassed := p.moderateContent(ctx, tracer, searchResponse, query)
	var moderationFlags map[string]interface{}
	if !safetyPassed {
		moderationFlags = map[string]interface{}{
			"flagged": true,
			"reason":  "Content moderation failed",
		}
		// The pipeline still completes so the trace and citation count
		// stay populated; only the content is replaced.
		searchResponse = flaggedAnswer
	}

	// Step 6: Final synthesis
	answer := p.synthesize(ctx, tracer, searchResponse, query)

	return &Result{
		Query:             req.Query,
		Answer:            answer,
		Citations:         ReanchorCitations(citations, answer),
		ReasoningSteps:    tracer.Steps(),
		SafetyCheckPassed: safetyPassed,
		ModerationFlags:   moderationFlags,
		ProcessingTime:    time.Since(start).Seconds(),
	}
}

func (p *Pipeline) analyzeQuery(ctx context.Context, tracer *trace.Tracer, query string) {
	analysis, err := p.llmProvider.Generate(ctx, buildAnalysisPrompt(query), llm.WithMaxTokens(200))
	if err != nil {
		tracer.RecordQuery("query_analysis",
			"Query analysis failed",
			query,
			fmt.Sprintf("Analysis error: %v", err))
		return
	}
	tracer.RecordQuery("query_analysis",
		"Analyzed user query to understand research requirements",
		query,
		analysis)
}

func (p *Pipeline) performWebSearch(ctx context.Context, tracer *trace.Tracer, query string, req Request) string {
	if p.searchProvider == nil {
		result := "Search error: no web search capability configured"
		tracer.RecordQuery("web_search", "Web search unavailable", query, result)
		return result
	}

	searchResult, err := p.searchProvider.SearchGenerate(ctx, buildSearchPrompt(query), llm.SearchOptions{
		ContextSize:  req.ContextSize,
		UserLocation: req.UserLocation,
	})
	if err != nil {
		p.logger.Printf("[ERROR] Web search failed: %v", err)
		result := fmt.Sprintf("Search error: %v", err)
		tracer.RecordQuery("web_search", "Web search failed", query, result)
		return result
	}

	tracer.RecordQuery("web_search",
		"Performed comprehensive web search using the search-enabled model",
		query,
		searchResult)
	return searchResult
}

// moderateContent combines the hosted moderation API with an LLM contextual
// read. Any failure here downgrades to SAFE rather than blocking the answer.
func (p *Pipeline) moderateContent(ctx context.Context, tracer *trace.Tracer, content, query string) bool {
	if p.moderationProvider != nil {
		outcome, err := p.moderationProvider.Moderate(ctx, content)
		if err != nil {
			p.logger.Printf("[WARN] Moderation API error (defaulting to safe): %v", err)
		} else if outcome.Flagged {
			var flagged []string
			for cat, isFlagged := range outcome.Categories {
				if isFlagged {
					flagged = append(flagged, cat)
				}
			}
			tracer.Record("advanced_content_moderation",
				"Content moderation check failed (API flagged)",
				fmt.Sprintf("FLAGGED: Content flagged by moderation API for: %s", strings.Join(flagged, ", ")))
			return false
		}
	}

	analysis, err := p.llmProvider.Generate(ctx, buildContextModerationPrompt(content, query),
		llm.WithTemperature(0.1), llm.WithMaxTokens(200))
	if err != nil {
		// No signal from this stage; the answer is not blocked on a
		// moderation outage.
		tracer.Record("advanced_content_moderation",
			"Content moderation failed",
			fmt.Sprintf("SAFE: Moderation error (defaulting to safe): %v", err))
		return true
	}

	if sections.Parse(analysis).Contains("CONTEXTUAL_SAFETY: UNSAFE") {
		tracer.Record("advanced_content_moderation",
			"Content moderation check failed (LLM analysis)",
			"FLAGGED: Content flagged by contextual analysis. "+analysis)
		return false
	}

	tracer.Record("advanced_content_moderation",
		"Advanced content moderation check completed",
		"SAFE: Content passed moderation checks. "+analysis)
	return true
}

func (p *Pipeline) synthesize(ctx context.Context, tracer *trace.Tracer, searchResult, query string) string {
	answer, err := p.llmProvider.Generate(ctx, buildSynthesisPrompt(searchResult, query), llm.WithMaxTokens(1500))
	if err != nil {
		tracer.Record("answer_synthesis",
			"Answer synthesis failed, using original result",
			searchResult)
		return searchResult
	}

	tracer.Record("answer_synthesis",
		"Synthesized and polished final answer",
		answer)
	return answer
}

func joinOrDefault(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}
