package risk

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		violations []Violation
		wantSafe   bool
		wantLevel  Level
	}{
		{
			name:       "no violations",
			violations: nil,
			wantSafe:   true,
			wantLevel:  LevelLow,
		},
		{
			name: "nothing detected",
			violations: []Violation{
				{Category: "toxicity", Detected: false, Confidence: 0.95},
			},
			wantSafe:  true,
			wantLevel: LevelLow,
		},
		{
			name: "low confidence stays safe",
			violations: []Violation{
				{Category: "pii", Detected: true, Confidence: 0.3},
			},
			wantSafe:  true,
			wantLevel: LevelLow,
		},
		{
			name: "medium confidence",
			violations: []Violation{
				{Category: "toxicity", Detected: true, Confidence: 0.5},
			},
			wantSafe:  false,
			wantLevel: LevelMedium,
		},
		{
			name: "high confidence",
			violations: []Violation{
				{Category: "toxicity", Detected: true, Confidence: 0.75},
			},
			wantSafe:  false,
			wantLevel: LevelHigh,
		},
		{
			name: "confidence at critical threshold",
			violations: []Violation{
				{Category: "toxicity", Detected: true, Confidence: 0.9},
			},
			wantSafe:  false,
			wantLevel: LevelCritical,
		},
		{
			name: "critical category vetoes low confidence",
			violations: []Violation{
				{Category: "nsfw", Detected: true, Confidence: 0.1},
			},
			wantSafe:  false,
			wantLevel: LevelCritical,
		},
		{
			name: "max confidence wins across violations",
			violations: []Violation{
				{Category: "pii", Detected: true, Confidence: 0.2},
				{Category: "toxicity", Detected: true, Confidence: 0.8},
			},
			wantSafe:  false,
			wantLevel: LevelHigh,
		},
		{
			name: "undetected critical category has no veto",
			violations: []Violation{
				{Category: "violence", Detected: false, Confidence: 0.99},
				{Category: "pii", Detected: true, Confidence: 0.5},
			},
			wantSafe:  false,
			wantLevel: LevelMedium,
		},
	}

	classifier := NewClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSafe, gotLevel := classifier.Classify(tt.violations)
			if gotSafe != tt.wantSafe || gotLevel != tt.wantLevel {
				t.Errorf("Classify() = (%v, %v), want (%v, %v)",
					gotSafe, gotLevel, tt.wantSafe, tt.wantLevel)
			}
		})
	}
}

func TestIsCritical(t *testing.T) {
	for _, category := range []string{"nsfw", "violence", "hate_speech", "harassment", "hate_symbols"} {
		if !IsCritical(category) {
			t.Errorf("IsCritical(%q) = false, want true", category)
		}
	}
	for _, category := range []string{"toxicity", "pii", "moderation_sexual", ""} {
		if IsCritical(category) {
			t.Errorf("IsCritical(%q) = true, want false", category)
		}
	}
}
