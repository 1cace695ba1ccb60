package video

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"videotutor-api/internal/adapter/openai"
	"videotutor-api/internal/adapter/qdrant"
	"videotutor-api/internal/domain/entity"
	"videotutor-api/internal/domain/repository"
	"videotutor-api/internal/logger"
)

// Placeholder values persisted when an optional AI dependency is not
// configured; clearly marked so they are never mistaken for real output.
const (
	PlaceholderTranscript = "[transcription unavailable: speech-to-text service not configured]"
	PlaceholderStep       = "[tutorial steps unavailable: text generation service not configured]"
)

type StepService interface {
	GenerateSteps(ctx context.Context, transcript, description string) ([]string, error)
}

type EmbeddingService interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type VectorStore interface {
	EnsureCollection(ctx context.Context, name string, vectorSize int) error
	UpsertPoint(ctx context.Context, collection string, point qdrant.Point) error
	DeletePoint(ctx context.Context, collection string, id uint64) error
	DeleteCollection(ctx context.Context, name string) error
}

// stageOutcome classifies a stage's result for the transition logic.
type stageOutcome int

const (
	stageOK stageOutcome = iota
	stageDegraded
	stageFatal
)

// classifyStage maps a stage error onto the pipeline's failure taxonomy.
// Only a typed not-configured error from the service-client layer qualifies
// for the degraded branch.
func classifyStage(err error) stageOutcome {
	switch {
	case err == nil:
		return stageOK
	case errors.Is(err, openai.ErrNotConfigured):
		return stageDegraded
	default:
		return stageFatal
	}
}

// Pipeline drives one video through the processing state machine:
//
//	UPLOADED → EXTRACTING_AUDIO → TRANSCRIBING → GENERATING_STEPS → EMBEDDING → COMPLETED
//	                                                                 ↘ FAILED
//
// The status is persisted before each stage starts and each stage's output is
// persisted as soon as it is produced, so observers always see a forward-only
// progression.
type Pipeline struct {
	videos      repository.VideoRepository
	projects    repository.ProjectRepository
	extractor   *AudioExtractor
	transcripts *TranscriptProducer
	steps       StepService
	embedder    EmbeddingService
	vectors     VectorStore
	audioDir    string
	callTimeout time.Duration
	sttTimeout  time.Duration
	log         *logger.Logger
}

func NewPipeline(
	videos repository.VideoRepository,
	projects repository.ProjectRepository,
	extractor *AudioExtractor,
	transcripts *TranscriptProducer,
	steps StepService,
	embedder EmbeddingService,
	vectors VectorStore,
	audioDir string,
	callTimeout, sttTimeout time.Duration,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		videos:      videos,
		projects:    projects,
		extractor:   extractor,
		transcripts: transcripts,
		steps:       steps,
		embedder:    embedder,
		vectors:     vectors,
		audioDir:    audioDir,
		callTimeout: callTimeout,
		sttTimeout:  sttTimeout,
		log:         log.WithModule("pipeline"),
	}
}

// Run processes one video to a terminal status. Intended to be launched as
// its own goroutine right after upload; it never panics outward and never
// returns an error — failures end up in the video's status row.
func (p *Pipeline) Run(ctx context.Context, videoID string) {
	log := p.log.WithVideo(videoID)

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", fmt.Sprintf("%v", r)).Error("panic while processing video")
			p.videos.MarkFailed(context.Background(), videoID, fmt.Sprintf("panic: %v", r))
		}
	}()

	if err := p.process(ctx, videoID); err != nil {
		log.WithError(err).Error("video processing failed")
		if err := p.videos.MarkFailed(context.Background(), videoID, err.Error()); err != nil {
			log.WithError(err).Error("failed to persist FAILED status")
		}
		return
	}
	log.Info("video processing completed")
}

func (p *Pipeline) process(ctx context.Context, videoID string) error {
	video, err := p.videos.FindByID(ctx, videoID)
	if err != nil {
		return fmt.Errorf("load video: %w", err)
	}
	if video == nil {
		return fmt.Errorf("video %s not found", videoID)
	}

	project, err := p.projects.FindByID(ctx, video.ProjectID)
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}
	if project == nil {
		return fmt.Errorf("project %s not found", video.ProjectID)
	}

	// stage 1: audio extraction. Failure here is always fatal, nothing
	// downstream can run without audio.
	if err := p.videos.UpdateStatus(ctx, videoID, entity.StatusExtractingAudio); err != nil {
		return fmt.Errorf("advance to EXTRACTING_AUDIO: %w", err)
	}
	extractCtx, cancel := context.WithTimeout(ctx, p.sttTimeout)
	audioPath, err := p.extractor.Extract(extractCtx, video.FilePath, p.audioDir)
	cancel()
	if err != nil {
		return fmt.Errorf("extract audio: %w", err)
	}
	if err := p.videos.UpdateAudioPath(ctx, videoID, audioPath, entity.StatusTranscribing); err != nil {
		return fmt.Errorf("persist audio path: %w", err)
	}

	// stage 2: transcription. Degrades to a placeholder when the service is
	// not configured; any other error is fatal.
	sttCtx, cancel := context.WithTimeout(ctx, p.sttTimeout)
	transcript, err := p.transcripts.Transcribe(sttCtx, audioPath)
	cancel()
	switch classifyStage(err) {
	case stageDegraded:
		p.log.WithVideo(videoID).WithError(err).Warn("transcription service not configured, continuing with placeholder")
		transcript = PlaceholderTranscript
	case stageFatal:
		return fmt.Errorf("transcribe: %w", err)
	}
	if err := p.videos.UpdateTranscription(ctx, videoID, transcript, entity.StatusGeneratingSteps); err != nil {
		return fmt.Errorf("persist transcription: %w", err)
	}

	// stage 3: tutorial step generation. Same degraded/fatal split.
	stepCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
	steps, err := p.steps.GenerateSteps(stepCtx, transcript, video.Description)
	cancel()
	switch classifyStage(err) {
	case stageDegraded:
		p.log.WithVideo(videoID).WithError(err).Warn("step generation service not configured, continuing with placeholder")
		steps = []string{PlaceholderStep}
	case stageFatal:
		return fmt.Errorf("generate steps: %w", err)
	}
	rawSteps, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("serialize steps: %w", err)
	}
	if err := p.videos.UpdateTutorialSteps(ctx, videoID, rawSteps, entity.StatusEmbedding); err != nil {
		return fmt.Errorf("persist steps: %w", err)
	}

	// stage 4: embedding + vector upsert. Best effort: transcription and
	// steps are the primary value, the searchable vector is enrichment, so
	// failures here never fail the video.
	if err := p.indexVideo(ctx, project.CollectionName, video, transcript, steps); err != nil {
		p.log.WithVideo(videoID).WithError(err).Warn("vector indexing failed, completing without a searchable vector")
	}

	if err := p.videos.UpdateStatus(ctx, videoID, entity.StatusCompleted); err != nil {
		return fmt.Errorf("advance to COMPLETED: %w", err)
	}
	return nil
}

// indexVideo embeds the description and upserts the point into the project's
// collection, creating the collection on demand with the observed vector
// size.
func (p *Pipeline) indexVideo(ctx context.Context, collection string, video *entity.Video, transcript string, steps []string) error {
	embedCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
	defer cancel()

	vector, err := p.embedder.GenerateEmbedding(embedCtx, video.Description)
	if err != nil {
		return fmt.Errorf("generate embedding: %w", err)
	}

	if err := p.vectors.EnsureCollection(embedCtx, collection, len(vector)); err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}

	point := qdrant.Point{
		ID:     qdrant.PointID(video.ID),
		Vector: vector,
		Payload: map[string]interface{}{
			"video_id":       video.ID,
			"description":    video.Description,
			"tutorial_steps": steps,
			"transcription":  transcript,
			"processed_at":   time.Now().UTC().Format(time.RFC3339),
		},
	}
	if err := p.vectors.UpsertPoint(embedCtx, collection, point); err != nil {
		return fmt.Errorf("upsert point: %w", err)
	}
	return nil
}
