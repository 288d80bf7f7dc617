package risk

// Level is the discrete risk level assigned to a moderation verdict.
type Level string

const (
	LevelLow      Level = "LOW"
	LevelMedium   Level = "MEDIUM"
	LevelHigh     Level = "HIGH"
	LevelCritical Level = "CRITICAL"
)

// Violation is a single detected (or checked-and-clear) policy violation.
// Instances are never mutated after creation.
type Violation struct {
	Category    string   `json:"category"`
	Detected    bool     `json:"detected"`
	Confidence  float64  `json:"confidence"`
	Description string   `json:"description"`
	Evidence    []string `json:"evidence"`
}

// Confidence thresholds for the risk ladder.
const (
	thresholdCritical = 0.9
	thresholdHigh     = 0.7
	thresholdMedium   = 0.4
)

// criticalCategories get veto power: any detection in this set forces
// CRITICAL regardless of the reported confidence, so that severe categories
// are never under-flagged by a timid confidence score.
var criticalCategories = map[string]bool{
	"nsfw":         true,
	"violence":     true,
	"hate_speech":  true,
	"harassment":   true,
	"hate_symbols": true,
}

// Classifier maps a flat list of violations to a safety decision.
// It is stateless and safe to share across requests.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns whether the content is safe and its overall risk level.
// Safe is true only for LOW.
func (c *Classifier) Classify(violations []Violation) (bool, Level) {
	maxConfidence := 0.0
	hasDetected := false
	hasCritical := false

	for _, v := range violations {
		if !v.Detected {
			continue
		}
		hasDetected = true
		if v.Confidence > maxConfidence {
			maxConfidence = v.Confidence
		}
		if criticalCategories[v.Category] {
			hasCritical = true
		}
	}

	if !hasDetected {
		return true, LevelLow
	}

	switch {
	case hasCritical || maxConfidence >= thresholdCritical:
		return false, LevelCritical
	case maxConfidence >= thresholdHigh:
		return false, LevelHigh
	case maxConfidence >= thresholdMedium:
		return false, LevelMedium
	default:
		return true, LevelLow
	}
}

// IsCritical reports whether a category belongs to the veto set.
func IsCritical(category string) bool {
	return criticalCategories[category]
}
