package provider

import "testing"

func TestNew_VariantSelection(t *testing.T) {
	tests := []struct {
		name     string
		wantName string
		wantErr  bool
	}{
		{"gemini", "gemini", false},
		{"", "gemini", false},
		{"heuristic", "heuristic", false},
		{"offline", "heuristic", false},
		{"passthrough", "passthrough", false},
		{"openai", "passthrough", false},
		{"GEMINI", "gemini", false},
		{"mistral", "", true},
	}

	for _, tt := range tests {
		p, err := New(Config{Name: tt.name})
		if tt.wantErr {
			if err == nil {
				t.Errorf("New(%q) expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("New(%q) failed: %v", tt.name, err)
			continue
		}
		if p.Name() != tt.wantName {
			t.Errorf("New(%q).Name() = %q, want %q", tt.name, p.Name(), tt.wantName)
		}
	}
}
