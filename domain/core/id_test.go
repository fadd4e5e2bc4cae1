package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}
}

func TestParseExperimentID(t *testing.T) {
	tests := []struct {
		input    string
		expected ExperimentID
		hasError bool
	}{
		{"exp-1", ExperimentID("exp-1"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, tt := range tests {
		result, err := ParseExperimentID(tt.input)
		if tt.hasError {
			if err == nil {
				t.Errorf("Expected error for input '%s'", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unexpected error for input '%s': %v", tt.input, err)
		}
		if result != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, result)
		}
	}
}

func TestParseVariantName(t *testing.T) {
	if _, err := ParseVariantName(" "); !IsConfigurationError(err) {
		t.Errorf("Expected configuration error for blank variant name, got %v", err)
	}
	if name, err := ParseVariantName("control"); err != nil || name != "control" {
		t.Errorf("Expected control, got %q (%v)", name, err)
	}
}

func TestStreamSeed(t *testing.T) {
	a := StreamSeed(42, "decide", 3)
	if a != StreamSeed(42, "decide", 3) {
		t.Error("Expected identical inputs to give identical seeds")
	}
	if a == StreamSeed(42, "decide", 4) {
		t.Error("Expected a new version to change the seed")
	}
	if a == StreamSeed(43, "decide", 3) {
		t.Error("Expected a new base seed to change the seed")
	}
	if a == StreamSeed(42, "metrics", 3) {
		t.Error("Expected a new name to change the seed")
	}
}
