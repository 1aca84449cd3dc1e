package model

import "testing"

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		input   string
		want    Verdict
		wantErr bool
	}{
		{"FAKE", VerdictFake, false},
		{"LIKELY FAKE", VerdictLikelyFake, false},
		{"MIXED", VerdictMixed, false},
		{"LIKELY REAL", VerdictLikelyReal, false},
		{"REAL", VerdictReal, false},
		// Tolerated variations
		{"fake", VerdictFake, false},
		{"likely_fake", VerdictLikelyFake, false},
		{"Likely Real", VerdictLikelyReal, false},
		{"  REAL  ", VerdictReal, false},
		{"LIKELY   FAKE", VerdictLikelyFake, false},
		// Rejected: unknowns never default
		{"", "", true},
		{"TRUE", "", true},
		{"PROBABLY FAKE", "", true},
		{"REALLY", "", true},
	}

	for _, tt := range tests {
		got, err := ParseVerdict(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseVerdict(%q) expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseVerdict(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseVerdict(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestVerdictRank_Ordering(t *testing.T) {
	ordered := Verdicts()
	if len(ordered) != 5 {
		t.Fatalf("Expected 5 verdicts, got %d", len(ordered))
	}

	for i := 1; i < len(ordered); i++ {
		if ordered[i].Rank() <= ordered[i-1].Rank() {
			t.Errorf("Rank of %q (%d) should exceed rank of %q (%d)",
				ordered[i], ordered[i].Rank(), ordered[i-1], ordered[i-1].Rank())
		}
	}

	if Verdict("BOGUS").Rank() != -1 {
		t.Errorf("Unknown verdict should rank -1, got %d", Verdict("BOGUS").Rank())
	}
}

func TestVerdictValid(t *testing.T) {
	for _, v := range Verdicts() {
		if !v.Valid() {
			t.Errorf("%q should be valid", v)
		}
	}
	if Verdict("LIKELY_FAKE").Valid() {
		t.Error("Underscore form is a wire variation, not a member")
	}
}
