package video

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"videotutor-api/internal/logger"
)

// CommandRunner abstracts ffmpeg invocation so the extractor can be tested
// without the binary installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

type execRunner struct{}

func NewExecRunner() CommandRunner {
	return execRunner{}
}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > 500 {
			msg = msg[len(msg)-500:]
		}
		return fmt.Errorf("%s: %w: %s", name, err, msg)
	}
	return nil
}

// extractionStrategy is one codec/container choice to try against the source.
type extractionStrategy struct {
	Name string
	Ext  string
	Args func(videoPath, audioPath string) []string
}

// Ordered by transcription quality first: uncompressed PCM, then whatever the
// default WAV encoder picks, then lossy fallbacks for containers whose audio
// the PCM path cannot handle.
var extractionStrategies = []extractionStrategy{
	{
		Name: "pcm_wav",
		Ext:  ".wav",
		Args: func(in, out string) []string {
			return []string{"-i", in, "-vn", "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1", "-y", out}
		},
	},
	{
		Name: "default_wav",
		Ext:  ".wav",
		Args: func(in, out string) []string {
			return []string{"-i", in, "-vn", "-ar", "16000", "-ac", "1", "-y", out}
		},
	},
	{
		Name: "mp3",
		Ext:  ".mp3",
		Args: func(in, out string) []string {
			return []string{"-i", in, "-vn", "-acodec", "libmp3lame", "-ar", "16000", "-ac", "1", "-y", out}
		},
	},
	{
		Name: "aac",
		Ext:  ".m4a",
		Args: func(in, out string) []string {
			return []string{"-i", in, "-vn", "-acodec", "aac", "-ar", "16000", "-ac", "1", "-y", out}
		},
	},
}

type AudioExtractor struct {
	runner     CommandRunner
	ffmpegPath string
	log        *logger.Logger
}

func NewAudioExtractor(runner CommandRunner, ffmpegPath string, log *logger.Logger) *AudioExtractor {
	return &AudioExtractor{
		runner:     runner,
		ffmpegPath: ffmpegPath,
		log:        log.WithModule("audio_extractor"),
	}
}

// Extract converts the video's audio track to a transcription-ready file.
// Strategies are tried in order; the first one that completes wins. Partial
// output from failed attempts may remain on disk and must not be treated as
// valid audio.
func (e *AudioExtractor) Extract(ctx context.Context, videoPath, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))

	var lastErr error
	for _, strategy := range extractionStrategies {
		audioPath := filepath.Join(outDir, base+"_"+strategy.Name+strategy.Ext)
		err := e.runner.Run(ctx, e.ffmpegPath, strategy.Args(videoPath, audioPath)...)
		if err == nil {
			e.log.WithField("strategy", strategy.Name).WithField("audio_path", audioPath).Info("audio extracted")
			return audioPath, nil
		}
		lastErr = err
		e.log.WithField("strategy", strategy.Name).WithError(err).Warn("extraction strategy failed, trying next")
	}

	return "", fmt.Errorf("all audio extraction methods exhausted: %w", lastErr)
}

// Slice cuts a time-bounded segment out of an audio file, used when the whole
// file exceeds the transcription payload limit.
func (e *AudioExtractor) Slice(ctx context.Context, audioPath string, startSec, durationSec int, outPath string) error {
	args := []string{
		"-ss", strconv.Itoa(startSec),
		"-i", audioPath,
		"-t", strconv.Itoa(durationSec),
		"-acodec", "copy",
		"-y", outPath,
	}
	if err := e.runner.Run(ctx, e.ffmpegPath, args...); err != nil {
		return fmt.Errorf("slice audio segment at %ds: %w", startSec, err)
	}
	return nil
}
