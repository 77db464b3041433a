package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAnalysisResult_OptionalFieldsOmitted(t *testing.T) {
	b, err := json.Marshal(AnalysisResult{Summary: "s"})
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	if strings.Contains(s, "language_info") || strings.Contains(s, "tokens_remaining") {
		t.Fatalf("unset optional fields serialized: %s", s)
	}

	left := 0
	b, _ = json.Marshal(AnalysisResult{
		LanguageInfo:    &LanguageInfo{LanguageCode: "ar", Direction: DirectionRTL},
		TokensRemaining: &left,
	})
	s = string(b)
	if !strings.Contains(s, `"tokens_remaining":0`) || !strings.Contains(s, `"direction":"rtl"`) {
		t.Fatalf("optional fields missing: %s", s)
	}
}

func TestAnalysisRecord_AnalysisIsPassedThrough(t *testing.T) {
	in := `{"id":3,"text":"hi","analysis":{"summary":"x","custom":{"n":1}},"timestamp":"2025-01-31T09:30:12.000000Z"}`

	var rec AnalysisRecord
	if err := json.Unmarshal([]byte(in), &rec); err != nil {
		t.Fatal(err)
	}
	if rec.ID != 3 || rec.Text != "hi" {
		t.Fatalf("unexpected: %+v", rec)
	}
	if string(rec.Analysis) != `{"summary":"x","custom":{"n":1}}` {
		t.Fatalf("analysis altered: %s", rec.Analysis)
	}

	out, _ := json.Marshal(rec)
	if string(out) != in {
		t.Fatalf("round trip changed record:\n%s\n%s", out, in)
	}
}

func TestHistorySummary_Keys(t *testing.T) {
	b, _ := json.Marshal(HistorySummary{
		CommonEmotions:          map[string]int{"joy": 2},
		FrequentCognitiveBiases: map[string]int{},
	})
	for _, k := range []string{"total_analyses", "risk_levels", "common_emotions", "average_objectivity", "frequent_cognitive_biases"} {
		if !strings.Contains(string(b), `"`+k+`"`) {
			t.Fatalf("missing %s in %s", k, b)
		}
	}
}
