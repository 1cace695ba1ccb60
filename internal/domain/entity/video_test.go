package entity

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     ProcessingStatus
		to       ProcessingStatus
		expected bool
	}{
		{"uploaded to extracting", StatusUploaded, StatusExtractingAudio, true},
		{"extracting to transcribing", StatusExtractingAudio, StatusTranscribing, true},
		{"transcribing to generating", StatusTranscribing, StatusGeneratingSteps, true},
		{"generating to embedding", StatusGeneratingSteps, StatusEmbedding, true},
		{"embedding to completed", StatusEmbedding, StatusCompleted, true},
		{"skip a stage", StatusUploaded, StatusTranscribing, false},
		{"backwards", StatusTranscribing, StatusExtractingAudio, false},
		{"same status", StatusTranscribing, StatusTranscribing, false},
		{"uploaded to failed", StatusUploaded, StatusFailed, true},
		{"embedding to failed", StatusEmbedding, StatusFailed, true},
		{"completed to failed", StatusCompleted, StatusFailed, false},
		{"failed to failed", StatusFailed, StatusFailed, false},
		{"completed to anything", StatusCompleted, StatusEmbedding, false},
		{"failed to anything", StatusFailed, StatusUploaded, false},
		{"unknown from", ProcessingStatus("BOGUS"), StatusTranscribing, false},
		{"unknown to", StatusUploaded, ProcessingStatus("BOGUS"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.expected {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestRankOrdering(t *testing.T) {
	ordered := []ProcessingStatus{
		StatusUploaded,
		StatusExtractingAudio,
		StatusTranscribing,
		StatusGeneratingSteps,
		StatusEmbedding,
		StatusCompleted,
	}

	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Errorf("Rank(%s) = %d should be below Rank(%s) = %d",
				ordered[i-1], ordered[i-1].Rank(), ordered[i], ordered[i].Rank())
		}
	}

	if StatusFailed.Rank() != -1 {
		t.Errorf("Rank(FAILED) = %d, want -1", StatusFailed.Rank())
	}
}

func TestIsTerminal(t *testing.T) {
	if !StatusCompleted.IsTerminal() || !StatusFailed.IsTerminal() {
		t.Error("COMPLETED and FAILED must be terminal")
	}
	for _, s := range []ProcessingStatus{StatusUploaded, StatusExtractingAudio, StatusTranscribing, StatusGeneratingSteps, StatusEmbedding} {
		if s.IsTerminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
}
