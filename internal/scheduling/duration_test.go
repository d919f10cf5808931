package scheduling_test

import (
	"testing"

	"voice-scheduling-agent/internal/scheduling"
)

func TestInferDuration(t *testing.T) {
	tests := []struct {
		title string
		want  int
	}{
		{"quick sync", 15},
		{"Quick Sync with Sam", 15},
		{"Daily Standup", 15},
		{"Project Kickoff", 60},
		{"Sprint Planning", 60},
		{"Team Meeting", 30},
		{"", 30},
		{"Lunch", 30},
		// specificity: the "quick sync" rule fires before bare "sync" would
		{"quick sync on planning", 15},
		{"Design Workshop", 60},
		{"User Interview", 60},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := scheduling.InferDuration(tt.title); got != tt.want {
				t.Errorf("InferDuration(%q) = %d, want %d", tt.title, got, tt.want)
			}
		})
	}
}
