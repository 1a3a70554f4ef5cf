package models

// ComponentScores breaks the final confidence down by detection signal.
// Each score is normalized to [0,1] before weighting.
type ComponentScores struct {
	Keyword    float64 `json:"keyword"`
	Pattern    float64 `json:"pattern"`
	Financial  float64 `json:"financial"`
	URL        float64 `json:"url"`
	Phone      float64 `json:"phone"`
	Linguistic float64 `json:"linguistic"`
}

// LinguisticFeatures captures the surface features of the analyzed text
type LinguisticFeatures struct {
	ExclamationCount int     `json:"exclamation_count"`
	CapsRatio        float64 `json:"caps_ratio"`
	UrgencyWords     int     `json:"urgency_words"`
	EmotionalWords   int     `json:"emotional_words"`
	Length           int     `json:"length"`
}

// DetectionAnalysis is the full per-message classification report.
// It is recomputed fresh for every message; only the final confidence
// and decision survive into session state.
type DetectionAnalysis struct {
	Confidence      float64            `json:"confidence"`
	ThresholdUsed   float64            `json:"threshold_used"`
	CategoryScores  map[string]float64 `json:"category_scores,omitempty"`
	ComponentScores ComponentScores    `json:"component_scores"`
	Linguistic      LinguisticFeatures `json:"linguistic_features"`
	DecisionFactors []string           `json:"decision_factors,omitempty"`
}
