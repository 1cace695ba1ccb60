package video

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"videotutor-api/internal/logger"
)

// failNRunner fails the first n invocations, then succeeds.
type failNRunner struct {
	failFirst int
	calls     [][]string
}

func (r *failNRunner) Run(ctx context.Context, name string, args ...string) error {
	r.calls = append(r.calls, args)
	if len(r.calls) <= r.failFirst {
		return errors.New("codec not supported")
	}
	return nil
}

func outputPathOf(args []string) string {
	return args[len(args)-1]
}

func TestExtractFirstStrategyWins(t *testing.T) {
	runner := &failNRunner{}
	extractor := NewAudioExtractor(runner, "ffmpeg", logger.New())

	path, err := extractor.Extract(context.Background(), "/videos/demo.mp4", t.TempDir())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 ffmpeg call, got %d", len(runner.calls))
	}
	if filepath.Base(path) != "demo_pcm_wav.wav" {
		t.Errorf("Extract() = %s, want pcm_wav output", path)
	}
}

func TestExtractFallsThroughStrategies(t *testing.T) {
	runner := &failNRunner{failFirst: 2}
	extractor := NewAudioExtractor(runner, "ffmpeg", logger.New())

	path, err := extractor.Extract(context.Background(), "/videos/demo.mp4", t.TempDir())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(runner.calls) != 3 {
		t.Fatalf("expected 3 ffmpeg calls, got %d", len(runner.calls))
	}
	// third strategy is mp3
	if filepath.Base(path) != "demo_mp3.mp3" {
		t.Errorf("Extract() = %s, want mp3 output", path)
	}
	if outputPathOf(runner.calls[2]) != path {
		t.Errorf("returned path %s does not match the successful invocation %s", path, outputPathOf(runner.calls[2]))
	}
}

func TestExtractAllStrategiesExhausted(t *testing.T) {
	runner := &failNRunner{failFirst: len(extractionStrategies)}
	extractor := NewAudioExtractor(runner, "ffmpeg", logger.New())

	_, err := extractor.Extract(context.Background(), "/videos/demo.mp4", t.TempDir())
	if err == nil {
		t.Fatal("expected error after every strategy failed")
	}
	if !strings.Contains(err.Error(), "exhausted") {
		t.Errorf("error %q should say the strategies were exhausted", err)
	}
	if len(runner.calls) != len(extractionStrategies) {
		t.Errorf("expected %d attempts, got %d", len(extractionStrategies), len(runner.calls))
	}
}

func TestExtractStrategyArgumentsTargetSpeech(t *testing.T) {
	runner := &failNRunner{failFirst: len(extractionStrategies)}
	extractor := NewAudioExtractor(runner, "ffmpeg", logger.New())

	extractor.Extract(context.Background(), "/videos/demo.mp4", t.TempDir())

	for i, args := range runner.calls {
		joined := strings.Join(args, " ")
		if !strings.Contains(joined, "-ar 16000") || !strings.Contains(joined, "-ac 1") {
			t.Errorf("strategy %d args %q must downmix to 16kHz mono", i, joined)
		}
		if !strings.Contains(joined, "-vn") {
			t.Errorf("strategy %d args %q must drop the video stream", i, joined)
		}
	}
}
