package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/text/language"

	"github.com/tbourn/go-sentiment-backend/internal/domain"
)

var languageFields = []string{"language_code", "language_name", "native_name", "confidence", "direction"}

var analysisSections = []string{"emotional_analysis", "psychological_insights", "risk_assessment", "summary"}

// scorePaths lists every numeric field that must lie in [0,1].
var scorePaths = []string{
	"emotional_analysis.emotional_intensity",
	"emotional_analysis.emotional_stability",
	"emotional_analysis.valence",
	"psychological_insights.rationality_score",
	"risk_assessment.risk_level",
	"risk_assessment.urgency",
}

// stripFences removes markdown code fences some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// parseLanguageInfo validates a detection reply. The language code is
// canonicalized when it parses as a BCP 47 tag; direction is lowercased.
func parseLanguageInfo(reply string) (*domain.LanguageInfo, error) {
	body := stripFences(reply)
	if !gjson.Valid(body) || !gjson.Parse(body).IsObject() {
		return nil, fmt.Errorf("%w: reply is not a JSON object", ErrLanguageDetection)
	}
	for i, r := range gjson.GetMany(body, languageFields...) {
		if !r.Exists() {
			return nil, fmt.Errorf("%w: missing %s", ErrLanguageDetection, languageFields[i])
		}
	}

	var li domain.LanguageInfo
	if err := json.Unmarshal([]byte(body), &li); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLanguageDetection, err)
	}

	li.LanguageCode = strings.TrimSpace(li.LanguageCode)
	if tag, err := language.Parse(li.LanguageCode); err == nil {
		li.LanguageCode = tag.String()
	}
	li.Direction = strings.ToLower(strings.TrimSpace(li.Direction))
	return &li, nil
}

// parseAnalysis validates an analysis reply and returns the unfenced JSON.
// Unknown fields the model adds are preserved.
func parseAnalysis(reply string) ([]byte, error) {
	body := stripFences(reply)
	if !gjson.Valid(body) {
		return nil, ErrAnalysisParse
	}
	doc := gjson.Parse(body)
	if !doc.IsObject() {
		return nil, ErrAnalysisParse
	}

	for i, r := range gjson.GetMany(body, analysisSections...) {
		if !r.Exists() {
			return nil, fmt.Errorf("%w: %s", ErrMissingFields, analysisSections[i])
		}
	}
	for i, r := range gjson.GetMany(body, scorePaths...) {
		if !r.Exists() {
			return nil, fmt.Errorf("%w: %s", ErrMissingFields, scorePaths[i])
		}
		if r.Type != gjson.Number {
			return nil, fmt.Errorf("%w: %s is not a number", ErrOutOfRange, scorePaths[i])
		}
		if v := r.Float(); v < 0 || v > 1 {
			return nil, fmt.Errorf("%w: %s=%v", ErrOutOfRange, scorePaths[i], v)
		}
	}

	return []byte(body), nil
}
