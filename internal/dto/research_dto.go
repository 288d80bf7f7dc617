package dto

import (
	"ai-research-safety-be/pkg/research"
	"ai-research-safety-be/pkg/trace"
)

type ResearchQueryRequest struct {
	Query             string                 `json:"query" validate:"required,min=1,max=1000"`
	ContextSize       string                 `json:"context_size,omitempty" validate:"omitempty,oneof=low medium high"`
	UserLocation      map[string]interface{} `json:"user_location,omitempty"`
	MaxReasoningSteps int                    `json:"max_reasoning_steps,omitempty" validate:"omitempty,min=1,max=10"`
}

type ResearchQueryResponse struct {
	Query             string                 `json:"query"`
	Answer            string                 `json:"answer"`
	Citations         []research.Citation    `json:"citations"`
	ReasoningSteps    []trace.Step           `json:"reasoning_steps"`
	SafetyCheckPassed bool                   `json:"safety_check_passed"`
	ModerationFlags   map[string]interface{} `json:"content_moderation_flags,omitempty"`
	ProcessingTime    float64                `json:"processing_time"`
}

type ResearchHealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
