package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"videotutor-api/internal/logger"
)

// TranscriptionService is the speech-to-text contract. Implementations return
// openai.ErrNotConfigured (wrapped) when the service cannot be used at all.
type TranscriptionService interface {
	TranscribeFile(ctx context.Context, audioPath string) (string, error)
}

// SegmentPlan describes how an oversized audio file is split before
// submission.
type SegmentPlan struct {
	NumSegments    int
	SegmentSeconds int
}

// PlanSegments computes how many time-bounded segments an oversized file
// needs and how long each should be. Duration is estimated from file size
// with a fixed bytes-per-second assumption; a per-segment floor avoids
// fragmenting files just over the threshold into tiny slices.
func PlanSegments(fileSize, maxBytes, bytesPerSec int64, minSegmentSeconds int) SegmentPlan {
	numSegments := int((fileSize + maxBytes - 1) / maxBytes)
	if numSegments < 1 {
		numSegments = 1
	}

	estimatedSeconds := fileSize / bytesPerSec
	segmentSeconds := int(estimatedSeconds / int64(numSegments))
	if segmentSeconds < minSegmentSeconds {
		segmentSeconds = minSegmentSeconds
	}

	return SegmentPlan{NumSegments: numSegments, SegmentSeconds: segmentSeconds}
}

// TranscriptProducer turns an audio file into text, chunking it into
// sequential segments when it exceeds the service payload limit.
type TranscriptProducer struct {
	svc               TranscriptionService
	slicer            *AudioExtractor
	maxBytes          int64
	bytesPerSec       int64
	minSegmentSeconds int
	log               *logger.Logger
}

func NewTranscriptProducer(
	svc TranscriptionService,
	slicer *AudioExtractor,
	maxBytes, bytesPerSec int64,
	minSegmentSeconds int,
	log *logger.Logger,
) *TranscriptProducer {
	return &TranscriptProducer{
		svc:               svc,
		slicer:            slicer,
		maxBytes:          maxBytes,
		bytesPerSec:       bytesPerSec,
		minSegmentSeconds: minSegmentSeconds,
		log:               log.WithModule("transcript_producer"),
	}
}

// Transcribe submits the file whole when it fits the payload limit, otherwise
// slices it into sequential segments and concatenates their transcripts in
// order.
func (p *TranscriptProducer) Transcribe(ctx context.Context, audioPath string) (string, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return "", fmt.Errorf("stat audio file: %w", err)
	}

	if info.Size() <= p.maxBytes {
		return p.svc.TranscribeFile(ctx, audioPath)
	}

	plan := PlanSegments(info.Size(), p.maxBytes, p.bytesPerSec, p.minSegmentSeconds)
	p.log.WithField("segments", plan.NumSegments).
		WithField("segment_seconds", plan.SegmentSeconds).
		Info("audio exceeds payload limit, transcribing in segments")

	ext := filepath.Ext(audioPath)
	base := strings.TrimSuffix(audioPath, ext)

	parts := make([]string, 0, plan.NumSegments)
	for i := 0; i < plan.NumSegments; i++ {
		segPath := fmt.Sprintf("%s_seg%03d%s", base, i, ext)
		start := i * plan.SegmentSeconds

		if err := p.slicer.Slice(ctx, audioPath, start, plan.SegmentSeconds, segPath); err != nil {
			return "", err
		}

		text, err := p.svc.TranscribeFile(ctx, segPath)
		os.Remove(segPath)
		if err != nil {
			return "", err
		}
		parts = append(parts, strings.TrimSpace(text))
	}

	return strings.Join(parts, "\n"), nil
}
