// Package domain defines the data shapes exchanged with the language model,
// persisted to the flat-file store, and returned by the API.
package domain

import "encoding/json"

// Text directions accepted in LanguageInfo.Direction.
const (
	DirectionLTR = "ltr"
	DirectionRTL = "rtl"
)

// LanguageInfo is the language detected for an input text.
type LanguageInfo struct {
	LanguageCode string  `json:"language_code" example:"ja"`
	LanguageName string  `json:"language_name" example:"Japanese"`
	NativeName   string  `json:"native_name"   example:"日本語"`
	Confidence   float64 `json:"confidence"    example:"0.97"`
	Direction    string  `json:"direction"     example:"ltr"`
}

// EmotionalAnalysis describes the affect expressed in the text.
type EmotionalAnalysis struct {
	PrimaryEmotion     string   `json:"primary_emotion"`
	SecondaryEmotions  []string `json:"secondary_emotions"`
	EmotionalIntensity float64  `json:"emotional_intensity"`
	EmotionalStability float64  `json:"emotional_stability"`
	Valence            float64  `json:"valence"`
}

// PsychologicalInsights describes the author's mindset and reasoning.
type PsychologicalInsights struct {
	Mindset           string   `json:"mindset"`
	CognitivePatterns []string `json:"cognitive_patterns"`
	Motivations       []string `json:"motivations"`
	RationalityScore  float64  `json:"rationality_score"`
	CognitiveBiases   []string `json:"cognitive_biases"`
}

// RiskAssessment flags concerning content.
type RiskAssessment struct {
	RiskLevel float64  `json:"risk_level"`
	RedFlags  []string `json:"red_flags"`
	Urgency   float64  `json:"urgency"`
}

// AnalysisResult is the validated model output. All numeric fields are in
// [0,1]. LanguageInfo and TokensRemaining are attached by the service after
// validation and are part of both the API response and the persisted record.
type AnalysisResult struct {
	EmotionalAnalysis     EmotionalAnalysis     `json:"emotional_analysis"`
	PsychologicalInsights PsychologicalInsights `json:"psychological_insights"`
	RiskAssessment        RiskAssessment        `json:"risk_assessment"`
	Summary               string                `json:"summary"`

	LanguageInfo    *LanguageInfo `json:"language_info,omitempty"`
	TokensRemaining *int          `json:"tokens_remaining,omitempty"`
}

// AnalysisRecord is one entry of the JSON array file. Analysis is kept as
// raw JSON so records written by older versions round-trip untouched.
type AnalysisRecord struct {
	ID        int             `json:"id"`
	Text      string          `json:"text"`
	Analysis  json.RawMessage `json:"analysis" swaggertype:"object"`
	Timestamp string          `json:"timestamp" example:"2025-01-31T09:30:12.000000Z"`
}

// RiskLevels buckets records by risk_assessment.risk_level.
type RiskLevels struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// HistorySummary aggregates a window of analysis records.
type HistorySummary struct {
	TotalAnalyses           int            `json:"total_analyses"`
	RiskLevels              RiskLevels     `json:"risk_levels"`
	CommonEmotions          map[string]int `json:"common_emotions"`
	AverageObjectivity      float64        `json:"average_objectivity"`
	FrequentCognitiveBiases map[string]int `json:"frequent_cognitive_biases"`
}

// History is the payload of the history endpoint.
type History struct {
	Analyses []AnalysisRecord `json:"analyses"`
	Summary  HistorySummary   `json:"summary"`
}
