package handlers

import "testing"

func TestScoreAnswers(t *testing.T) {
	correct := []int{1, 1, 1, 3, 2}

	tests := []struct {
		name      string
		submitted []int
		want      int
	}{
		{"all correct", []int{1, 1, 1, 3, 2}, 5},
		{"all wrong", []int{2, 2, 2, 2, 2}, 0},
		{"partially correct", []int{1, 2, 1, 4, 2}, 3},
		{"empty submission", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreAnswers(tt.submitted, correct); got != tt.want {
				t.Fatalf("scoreAnswers(%v) = %d, want %d", tt.submitted, got, tt.want)
			}
		})
	}
}

func TestScoreAnswersLengthMismatch(t *testing.T) {
	// Extra submitted positions have nothing to match against.
	if got := scoreAnswers([]int{1, 1, 1, 3, 2, 4}, []int{1, 1, 1, 3, 2}); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got := scoreAnswers([]int{1, 1}, []int{1, 1, 1, 3, 2}); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}
