package dto

import "ai-research-safety-be/pkg/moderation"

type ModerationAnalyzeRequest struct {
	Text            string   `json:"text,omitempty" validate:"omitempty,max=10000"`
	ImageURL        string   `json:"image_url,omitempty" validate:"omitempty,url"`
	ImageBase64     string   `json:"image_base64,omitempty"`
	Context         string   `json:"context,omitempty" validate:"omitempty,max=500"`
	StrictMode      bool     `json:"strict_mode,omitempty"`
	CheckCategories []string `json:"check_categories,omitempty"`
}

type BatchAnalyzeRequest struct {
	Items              []ModerationAnalyzeRequest `json:"items" validate:"required,min=1,max=20,dive"`
	ParallelProcessing bool                       `json:"parallel_processing,omitempty"`
}

type BatchAnalyzeResponse struct {
	Results            []*moderation.Verdict   `json:"results"`
	SummaryStats       moderation.BatchSummary `json:"summary_stats"`
	OverallSafeCount   int                     `json:"overall_safe_count"`
	OverallUnsafeCount int                     `json:"overall_unsafe_count"`
	ProcessingTime     float64                 `json:"processing_time"`
}

type QuickCheckRequest struct {
	Text       string `json:"text,omitempty" validate:"omitempty,max=10000"`
	ImageURL   string `json:"image_url,omitempty" validate:"omitempty,url"`
	StrictMode bool   `json:"strict_mode,omitempty"`
}

type QuickCheckResponse struct {
	IsSafe              bool     `json:"is_safe"`
	RiskLevel           string   `json:"risk_level"`
	Summary             string   `json:"summary"`
	ViolationCategories []string `json:"violation_categories"`
	Confidence          float64  `json:"confidence"`
	ProcessingTime      float64  `json:"processing_time"`
}

type CategoryInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	AppliesTo   []string `json:"applies_to"`
}

type CategoriesResponse struct {
	ViolationCategories map[string]CategoryInfo `json:"violation_categories"`
	RiskLevels          map[string]string       `json:"risk_levels"`
	PIITypes            []string                `json:"pii_types"`
}
