package events

import (
	"time"

	"github.com/google/uuid"
)

// Event type codes emitted by the safety pipelines.
const (
	TypeContentFlagged  = "CONTENT_FLAGGED"
	TypeResearchBlocked = "RESEARCH_BLOCKED"
)

// NewContentFlagged records an unsafe moderation verdict for the audit trail.
func NewContentFlagged(riskLevel string, categories []string, processingTime float64) Event {
	return BaseEvent{
		Type: TypeContentFlagged,
		Data: map[string]interface{}{
			"event_id":        uuid.NewString(),
			"risk_level":      riskLevel,
			"categories":      categories,
			"processing_time": processingTime,
		},
		OccurredAt: time.Now(),
	}
}

// NewResearchBlocked records a research query stopped by validation or
// contextual moderation.
func NewResearchBlocked(reason string, riskCategories []string) Event {
	return BaseEvent{
		Type: TypeResearchBlocked,
		Data: map[string]interface{}{
			"event_id":   uuid.NewString(),
			"reason":     reason,
			"categories": riskCategories,
		},
		OccurredAt: time.Now(),
	}
}
