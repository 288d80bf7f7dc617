package service

import (
	"context"
	"log"

	"ai-research-safety-be/internal/dto"
	"ai-research-safety-be/internal/pkg/logger"
	"ai-research-safety-be/pkg/events"
	"ai-research-safety-be/pkg/guard"
	"ai-research-safety-be/pkg/research"
)

type IResearchService interface {
	Query(ctx context.Context, req *dto.ResearchQueryRequest) (*dto.ResearchQueryResponse, error)
}

type researchService struct {
	pipeline         *research.Pipeline
	publisherService IPublisherService
	sysLogger        logger.ILogger
}

func NewResearchService(
	pipeline *research.Pipeline,
	publisherService IPublisherService,
	sysLogger logger.ILogger,
) IResearchService {
	return &researchService{
		pipeline:         pipeline,
		publisherService: publisherService,
		sysLogger:        sysLogger,
	}
}

func (s *researchService) Query(ctx context.Context, req *dto.ResearchQueryRequest) (*dto.ResearchQueryResponse, error) {
	result := s.pipeline.Run(ctx, research.Request{
		Query:             req.Query,
		ContextSize:       req.ContextSize,
		UserLocation:      req.UserLocation,
		MaxReasoningSteps: req.MaxReasoningSteps,
	})

	s.sysLogger.Info("research", "Research query processed", map[string]interface{}{
		"safety_check_passed": result.SafetyCheckPassed,
		"citations":           len(result.Citations),
		"steps":               len(result.ReasoningSteps),
		"processing_time":     result.ProcessingTime,
	})

	if !result.SafetyCheckPassed {
		evt := events.NewResearchBlocked(blockReason(result), riskCategories(result))
		// Audit is auxiliary; a bus failure never fails the request
		if err := s.publisherService.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish RESEARCH_BLOCKED event: %v", err)
		}
	}

	if result.Citations == nil {
		result.Citations = []research.Citation{}
	}

	return &dto.ResearchQueryResponse{
		Query:             result.Query,
		Answer:            result.Answer,
		Citations:         result.Citations,
		ReasoningSteps:    result.ReasoningSteps,
		SafetyCheckPassed: result.SafetyCheckPassed,
		ModerationFlags:   result.ModerationFlags,
		ProcessingTime:    result.ProcessingTime,
	}, nil
}

func blockReason(result *research.Result) string {
	if result.ModerationFlags != nil {
		return "content_moderation"
	}
	return "input_validation"
}

// riskCategories pulls the validation tier's categories out of the trace.
func riskCategories(result *research.Result) []string {
	for _, step := range result.ReasoningSteps {
		if step.Action == guard.TierLLM || step.Action == guard.TierFallback {
			return []string{step.Action}
		}
	}
	return nil
}
