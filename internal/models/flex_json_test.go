package models

import (
	"encoding/json"
	"math"
	"testing"
)

func TestFlexUnmarshal_AllStrings(t *testing.T) {
	input := `{"id": "t1", "name": "Kenny Kawaguchis", "stats": {"HR": "313", "AVG": ".262", "ERA": " 3.85 ", "AB": "5512"}}`

	var e Entity
	if err := json.Unmarshal([]byte(input), &e); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if e.ID != "t1" {
		t.Errorf("ID = %q, want t1", e.ID)
	}
	if e.Stats["HR"] != 313 {
		t.Errorf("HR = %f, want 313", e.Stats["HR"])
	}
	if e.Stats["AVG"] != 0.262 {
		t.Errorf("AVG = %f, want 0.262", e.Stats["AVG"])
	}
	if e.Stats["ERA"] != 3.85 {
		t.Errorf("ERA = %f, want 3.85", e.Stats["ERA"])
	}
	if e.Stats["AB"] != 5512 {
		t.Errorf("AB = %f, want 5512", e.Stats["AB"])
	}
}

func TestFlexUnmarshal_NativeTypes(t *testing.T) {
	input := `{"HR": 273, "WHIP": 1.21, "K/9": 9.4}`

	var s StatLine
	if err := json.Unmarshal([]byte(input), &s); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if len(s) != 3 {
		t.Fatalf("len = %d, want 3", len(s))
	}
	if s["K/9"] != 9.4 {
		t.Errorf("K/9 = %f, want 9.4", s["K/9"])
	}
}

func TestFlexUnmarshal_MissingValues(t *testing.T) {
	input := `{"HR": 20, "SB": null, "SV": "", "QS": "  "}`

	var s StatLine
	if err := json.Unmarshal([]byte(input), &s); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	for _, key := range []string{"SB", "SV", "QS"} {
		if _, ok := s[key]; ok {
			t.Errorf("%s should be missing, got %f", key, s[key])
		}
	}
	if s["HR"] != 20 {
		t.Errorf("HR = %f, want 20", s["HR"])
	}
}

func TestFlexUnmarshal_NonFiniteStrings(t *testing.T) {
	var s StatLine
	if err := json.Unmarshal([]byte(`{"ERA": "NaN", "WHIP": "+Inf"}`), &s); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if !math.IsNaN(s["ERA"]) {
		t.Errorf("ERA = %f, want NaN", s["ERA"])
	}
	if !math.IsInf(s["WHIP"], 1) {
		t.Errorf("WHIP = %f, want +Inf", s["WHIP"])
	}
}

func TestFlexUnmarshal_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"text", `{"HR": "lots"}`},
		{"bool", `{"HR": true}`},
		{"object", `{"HR": {"value": 3}}`},
		{"not an object", `[1, 2, 3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s StatLine
			if err := json.Unmarshal([]byte(tt.input), &s); err == nil {
				t.Errorf("expected error, got %v", s)
			}
		})
	}
}
