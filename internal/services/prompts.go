package services

import (
	"fmt"

	"github.com/tbourn/go-sentiment-backend/internal/domain"
)

const languageDetectionPrompt = `You are a language detection expert. Analyze the given text and return ONLY a JSON object with the detected language information. The response should be in this exact format:

{
    "language_code": "en",  // ISO 639-1 code (e.g., en, ja, es, fr)
    "language_name": "English",  // Full name in English
    "native_name": "English",    // Name in the detected language
    "confidence": 0.95,          // Confidence score between 0 and 1
    "direction": "ltr"           // Text direction: "ltr" or "rtl"
}

Return ONLY the JSON object, no other text or explanations.`

const analysisPrompt = `You are a multilingual sentiment analysis expert. Analyze the text in the specified language and provide your analysis in that SAME language. The input language details are provided.

Return the analysis in this exact JSON structure:

{
    "emotional_analysis": {
        "primary_emotion": "primary emotion in detected language",
        "secondary_emotions": ["emotion1", "emotion2"],
        "emotional_intensity": 0.75,  // 0-1 scale
        "emotional_stability": 0.8,   // 0-1 scale
        "valence": 0.6               // 0-1 scale
    },
    "psychological_insights": {
        "mindset": "mindset description in detected language",
        "cognitive_patterns": ["pattern1", "pattern2"],
        "motivations": ["motivation1", "motivation2"],
        "rationality_score": 0.85,
        "cognitive_biases": ["bias1", "bias2"]
    },
    "risk_assessment": {
        "risk_level": 0.3,
        "red_flags": ["flag1", "flag2"],
        "urgency": 0.4
    },
    "summary": "Analysis summary in detected language"
}

IMPORTANT:
1. All numeric values MUST be between 0 and 1
2. Return ONLY the JSON object, no other text
3. Ensure the JSON is properly formatted and valid
4. ALL text fields MUST be in the detected language
5. Do not add any explanations or markdown formatting
`

func detectionUserPrompt(text string) string {
	return "Detect language of this text: " + text
}

func analysisUserPrompt(text string, li *domain.LanguageInfo) string {
	return fmt.Sprintf(`Analyze this text in %s (%s):

Text: %s

Language Information:
- Code: %s
- Name: %s
- Native Name: %s
- Direction: %s`,
		li.NativeName, li.LanguageName,
		text,
		li.LanguageCode, li.LanguageName, li.NativeName, li.Direction,
	)
}
