package service

import (
	"context"
	"log"
	"time"

	"ai-research-safety-be/internal/dto"
	"ai-research-safety-be/internal/pkg/logger"
	"ai-research-safety-be/pkg/events"
	"ai-research-safety-be/pkg/moderation"
	"ai-research-safety-be/pkg/redact"
	"ai-research-safety-be/pkg/risk"
	"ai-research-safety-be/pkg/store"
)

// quickCheckCategories is the reduced set used by the quick-check endpoint.
var quickCheckCategories = []string{"nsfw", "violence", "toxicity", "hate_speech"}

type IModerationService interface {
	Analyze(ctx context.Context, req *dto.ModerationAnalyzeRequest) (*moderation.Verdict, error)
	BatchAnalyze(ctx context.Context, req *dto.BatchAnalyzeRequest) (*dto.BatchAnalyzeResponse, error)
	QuickCheck(ctx context.Context, req *dto.QuickCheckRequest) (*dto.QuickCheckResponse, error)
	Categories() *dto.CategoriesResponse
}

type moderationService struct {
	pipeline         *moderation.Pipeline
	coordinator      *moderation.Coordinator
	verdictCache     store.VerdictCache
	publisherService IPublisherService
	sysLogger        logger.ILogger
}

func NewModerationService(
	pipeline *moderation.Pipeline,
	coordinator *moderation.Coordinator,
	verdictCache store.VerdictCache,
	publisherService IPublisherService,
	sysLogger logger.ILogger,
) IModerationService {
	return &moderationService{
		pipeline:         pipeline,
		coordinator:      coordinator,
		verdictCache:     verdictCache,
		publisherService: publisherService,
		sysLogger:        sysLogger,
	}
}

func (s *moderationService) Analyze(ctx context.Context, req *dto.ModerationAnalyzeRequest) (*moderation.Verdict, error) {
	request := toModerationRequest(req)

	key := store.CacheKey(request)
	if cached, found := s.verdictCache.Get(ctx, key); found {
		s.sysLogger.Debug("moderation", "Verdict cache hit", map[string]interface{}{
			"risk_level": cached.OverallRiskLevel,
		})
		return cached, nil
	}

	verdict := s.pipeline.Moderate(ctx, request)
	s.verdictCache.Set(ctx, key, verdict)

	s.sysLogger.Info("moderation", "Content moderation completed", map[string]interface{}{
		"is_safe":         verdict.IsSafe,
		"risk_level":      verdict.OverallRiskLevel,
		"categories":      verdict.ViolationCategories,
		"processing_time": verdict.ProcessingTime,
	})

	s.publishIfFlagged(ctx, verdict)
	return verdict, nil
}

func (s *moderationService) BatchAnalyze(ctx context.Context, req *dto.BatchAnalyzeRequest) (*dto.BatchAnalyzeResponse, error) {
	start := time.Now()

	items := make([]moderation.Request, len(req.Items))
	for i := range req.Items {
		items[i] = toModerationRequest(&req.Items[i])
	}

	results := s.coordinator.Run(ctx, items, req.ParallelProcessing)
	summary := moderation.Summarize(results)

	s.sysLogger.Info("moderation", "Batch moderation completed", map[string]interface{}{
		"total_items":  summary.TotalItems,
		"safe_items":   summary.SafeItems,
		"unsafe_items": summary.UnsafeItems,
	})

	for _, verdict := range results {
		s.publishIfFlagged(ctx, verdict)
	}

	return &dto.BatchAnalyzeResponse{
		Results:            results,
		SummaryStats:       summary,
		OverallSafeCount:   summary.SafeItems,
		OverallUnsafeCount: summary.UnsafeItems,
		ProcessingTime:     time.Since(start).Seconds(),
	}, nil
}

// QuickCheck runs the full pipeline over a reduced category set and flattens
// the verdict for high-volume pre-filtering.
func (s *moderationService) QuickCheck(ctx context.Context, req *dto.QuickCheckRequest) (*dto.QuickCheckResponse, error) {
	verdict, err := s.Analyze(ctx, &dto.ModerationAnalyzeRequest{
		Text:            req.Text,
		ImageURL:        req.ImageURL,
		StrictMode:      req.StrictMode,
		CheckCategories: quickCheckCategories,
	})
	if err != nil {
		return nil, err
	}

	confidence := 0.0
	for _, v := range verdict.ViolationsFound {
		if v.Detected && v.Confidence > confidence {
			confidence = v.Confidence
		}
	}

	return &dto.QuickCheckResponse{
		IsSafe:              verdict.IsSafe,
		RiskLevel:           string(verdict.OverallRiskLevel),
		Summary:             verdict.Summary,
		ViolationCategories: verdict.ViolationCategories,
		Confidence:          confidence,
		ProcessingTime:      verdict.ProcessingTime,
	}, nil
}

func (s *moderationService) Categories() *dto.CategoriesResponse {
	return &dto.CategoriesResponse{
		ViolationCategories: map[string]dto.CategoryInfo{
			"nsfw": {
				Name:        "NSFW/Adult Content",
				Description: "Nudity, sexual content, suggestive poses",
				AppliesTo:   []string{"images"},
			},
			"violence": {
				Name:        "Violence",
				Description: "Blood, weapons, fighting, gore, harm to people/animals",
				AppliesTo:   []string{"images"},
			},
			"hate_symbols": {
				Name:        "Hate Symbols",
				Description: "Nazi symbols, confederate flags, gang signs, extremist imagery",
				AppliesTo:   []string{"images"},
			},
			"toxicity": {
				Name:        "Toxicity",
				Description: "Offensive, rude, or disrespectful language",
				AppliesTo:   []string{"text"},
			},
			"hate_speech": {
				Name:        "Hate Speech",
				Description: "Content targeting individuals/groups based on identity",
				AppliesTo:   []string{"text"},
			},
			"harassment": {
				Name:        "Harassment",
				Description: "Threats, intimidation, stalking, bullying",
				AppliesTo:   []string{"text"},
			},
			"pii": {
				Name:        "Personal Information",
				Description: "Phone numbers, emails, addresses, SSNs, credit cards",
				AppliesTo:   []string{"text"},
			},
		},
		RiskLevels: map[string]string{
			string(risk.LevelLow):      "Content is safe with minimal or no violations",
			string(risk.LevelMedium):   "Content has minor violations but may be acceptable in context",
			string(risk.LevelHigh):     "Content has significant violations and should be reviewed",
			string(risk.LevelCritical): "Content has severe violations and should be blocked",
		},
		PIITypes: redact.Categories(),
	}
}

func (s *moderationService) publishIfFlagged(ctx context.Context, verdict *moderation.Verdict) {
	if verdict.IsSafe {
		return
	}
	evt := events.NewContentFlagged(string(verdict.OverallRiskLevel),
		verdict.ViolationCategories, verdict.ProcessingTime)
	// Audit is auxiliary; a bus failure never fails the request
	if err := s.publisherService.Publish(ctx, evt); err != nil {
		log.Printf("[WARN] Failed to publish CONTENT_FLAGGED event: %v", err)
	}
}

func toModerationRequest(req *dto.ModerationAnalyzeRequest) moderation.Request {
	return moderation.Request{
		Text:            req.Text,
		ImageURL:        req.ImageURL,
		ImageBase64:     req.ImageBase64,
		Context:         req.Context,
		StrictMode:      req.StrictMode,
		CheckCategories: req.CheckCategories,
	}
}
