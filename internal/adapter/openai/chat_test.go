package openai

import (
	"context"
	"errors"
	"testing"
)

func TestParseSteps(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			"numbered with dots",
			"1. Open the editor\n2. Create a file\n3. Save it",
			[]string{"Open the editor", "Create a file", "Save it"},
		},
		{
			"numbered with parens",
			"1) First thing\n2) Second thing",
			[]string{"First thing", "Second thing"},
		},
		{
			"step prefix",
			"Step 1: install the CLI\nstep 2 - login",
			[]string{"install the CLI", "login"},
		},
		{
			"bullets",
			"- configure the host\n* start the service\n• verify it",
			[]string{"configure the host", "start the service", "verify it"},
		},
		{
			"blank lines skipped",
			"1. One\n\n\n2. Two\n",
			[]string{"One", "Two"},
		},
		{
			"unmarked lines kept as-is",
			"Do this first\nThen do that",
			[]string{"Do this first", "Then do that"},
		},
		{"empty input", "", nil},
		{"only markers", "1.\n2.\n-", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSteps(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("ParseSteps(%q) = %v, want %v", tt.input, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("step %d = %q, want %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestUnconfiguredClientsReturnTypedError(t *testing.T) {
	ctx := context.Background()

	if _, err := NewChatClient("", "", "gpt-4o-mini").GenerateSteps(ctx, "text", "desc"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("chat client error = %v, want ErrNotConfigured", err)
	}
	if _, err := NewEmbeddingClient("", "", "text-embedding-3-small").GenerateEmbedding(ctx, "text"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("embedding client error = %v, want ErrNotConfigured", err)
	}
	if _, err := NewTranscriptionClient("", "", "whisper-1").TranscribeFile(ctx, "/tmp/a.wav"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("transcription client error = %v, want ErrNotConfigured", err)
	}
}
