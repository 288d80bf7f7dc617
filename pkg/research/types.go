package research

import "ai-research-safety-be/pkg/trace"

// Request carries one research query through the pipeline.
type Request struct {
	Query             string
	ContextSize       string // "low", "medium", "high"
	UserLocation      map[string]interface{}
	MaxReasoningSteps int
}

// Citation points at a source URL inside the synthesized answer.
// Offsets are byte indices satisfying 0 <= StartIndex < EndIndex <= len(answer).
type Citation struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
}

// Result is the pipeline's final, always-well-typed outcome.
type Result struct {
	Query             string                 `json:"query"`
	Answer            string                 `json:"answer"`
	Citations         []Citation             `json:"citations"`
	ReasoningSteps    []trace.Step           `json:"reasoning_steps"`
	SafetyCheckPassed bool                   `json:"safety_check_passed"`
	ModerationFlags   map[string]interface{} `json:"content_moderation_flags,omitempty"`
	ProcessingTime    float64                `json:"processing_time"`
}
