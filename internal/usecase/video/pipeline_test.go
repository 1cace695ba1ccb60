package video

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"videotutor-api/internal/adapter/openai"
	"videotutor-api/internal/adapter/qdrant"
	"videotutor-api/internal/domain/entity"
	"videotutor-api/internal/logger"
)

type fakeVideoRepo struct {
	mu      sync.Mutex
	video   *entity.Video
	history []entity.ProcessingStatus
}

func newFakeVideoRepo(v *entity.Video) *fakeVideoRepo {
	return &fakeVideoRepo{video: v}
}

func (r *fakeVideoRepo) Create(ctx context.Context, v *entity.Video) error { return nil }

func (r *fakeVideoRepo) FindByID(ctx context.Context, id string) (*entity.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.video == nil || r.video.ID != id {
		return nil, nil
	}
	copy := *r.video
	return &copy, nil
}

func (r *fakeVideoRepo) FindByIDAndProjectID(ctx context.Context, id, projectID string) (*entity.Video, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeVideoRepo) List(ctx context.Context, projectID string, page, limit int) ([]entity.Video, int, error) {
	return nil, 0, nil
}

func (r *fakeVideoRepo) setStatus(status entity.ProcessingStatus) {
	r.video.Status = status
	r.video.UpdatedAt = time.Now()
	r.history = append(r.history, status)
}

func (r *fakeVideoRepo) UpdateStatus(ctx context.Context, id string, status entity.ProcessingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setStatus(status)
	return nil
}

func (r *fakeVideoRepo) UpdateAudioPath(ctx context.Context, id, audioPath string, status entity.ProcessingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.video.AudioPath.String = audioPath
	r.video.AudioPath.Valid = true
	r.setStatus(status)
	return nil
}

func (r *fakeVideoRepo) UpdateTranscription(ctx context.Context, id, transcription string, status entity.ProcessingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.video.Transcription.String = transcription
	r.video.Transcription.Valid = true
	r.setStatus(status)
	return nil
}

func (r *fakeVideoRepo) UpdateTutorialSteps(ctx context.Context, id string, steps []byte, status entity.ProcessingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.video.TutorialSteps = steps
	r.setStatus(status)
	return nil
}

func (r *fakeVideoRepo) MarkFailed(ctx context.Context, id, errorMessage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.video == nil || r.video.ID != id {
		return nil
	}
	r.video.ErrorMessage.String = errorMessage
	r.video.ErrorMessage.Valid = true
	r.setStatus(entity.StatusFailed)
	return nil
}

func (r *fakeVideoRepo) Delete(ctx context.Context, id string) error { return nil }

func (r *fakeVideoRepo) statuses() []entity.ProcessingStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.ProcessingStatus, len(r.history))
	copy(out, r.history)
	return out
}

type fakeProjectRepo struct {
	project *entity.Project
}

func (r *fakeProjectRepo) Create(ctx context.Context, p *entity.Project) error { return nil }

func (r *fakeProjectRepo) FindByID(ctx context.Context, id string) (*entity.Project, error) {
	if r.project == nil || r.project.ID != id {
		return nil, nil
	}
	return r.project, nil
}

func (r *fakeProjectRepo) FindByIDAndUserID(ctx context.Context, id, userID string) (*entity.Project, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeProjectRepo) FindByCollectionName(ctx context.Context, userID, collectionName string) (*entity.Project, error) {
	return nil, nil
}

func (r *fakeProjectRepo) List(ctx context.Context, userID string) ([]entity.Project, error) {
	return nil, nil
}

func (r *fakeProjectRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeStepService struct {
	steps []string
	err   error
}

func (s *fakeStepService) GenerateSteps(ctx context.Context, transcript, description string) ([]string, error) {
	return s.steps, s.err
}

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (e *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return e.vector, e.err
}

type fakeVectorStore struct {
	mu          sync.Mutex
	collections map[string]int
	points      map[uint64]qdrant.Point
}

func newFakeVectorStore() *fakeVectorStore {
	return &fakeVectorStore{collections: map[string]int{}, points: map[uint64]qdrant.Point{}}
}

func (s *fakeVectorStore) EnsureCollection(ctx context.Context, name string, vectorSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[name] = vectorSize
	return nil
}

func (s *fakeVectorStore) UpsertPoint(ctx context.Context, collection string, point qdrant.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points[point.ID] = point
	return nil
}

func (s *fakeVectorStore) DeletePoint(ctx context.Context, collection string, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.points, id)
	return nil
}

func (s *fakeVectorStore) DeleteCollection(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, name)
	return nil
}

type pipelineFixture struct {
	videos   *fakeVideoRepo
	projects *fakeProjectRepo
	stt      *fakeTranscriber
	steps    *fakeStepService
	embedder *fakeEmbedder
	vectors  *fakeVectorStore
	pipeline *Pipeline
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()
	log := logger.New()

	videos := newFakeVideoRepo(&entity.Video{
		ID:          "vid-1",
		ProjectID:   "proj-1",
		FilePath:    "/videos/demo.mp4",
		Description: "how to deploy the app",
		Status:      entity.StatusUploaded,
	})
	projects := &fakeProjectRepo{project: &entity.Project{ID: "proj-1", CollectionName: "deploys"}}

	stt := &fakeTranscriber{texts: map[string]string{}}
	steps := &fakeStepService{steps: []string{"open the console", "press deploy"}}
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2, 0.3}}
	vectors := newFakeVectorStore()

	// the runner fake writes the output file so downstream stat calls succeed
	extractor := NewAudioExtractor(&sliceRecorder{}, "ffmpeg", log)
	transcripts := NewTranscriptProducer(stt, extractor, 25*1024*1024, 16*1024, 300, log)

	return &pipelineFixture{
		videos:   videos,
		projects: projects,
		stt:      stt,
		steps:    steps,
		embedder: embedder,
		vectors:  vectors,
		pipeline: NewPipeline(videos, projects, extractor, transcripts, steps, embedder, vectors,
			t.TempDir(), 5*time.Second, 5*time.Second, log),
	}
}

func TestPipelineHappyPath(t *testing.T) {
	f := newPipelineFixture(t)
	f.stt.texts["demo_pcm_wav.wav"] = "first we open the console"

	f.pipeline.Run(context.Background(), "vid-1")

	want := []entity.ProcessingStatus{
		entity.StatusExtractingAudio,
		entity.StatusTranscribing,
		entity.StatusGeneratingSteps,
		entity.StatusEmbedding,
		entity.StatusCompleted,
	}
	got := f.videos.statuses()
	if len(got) != len(want) {
		t.Fatalf("status history = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("status history = %v, want %v", got, want)
		}
	}

	if f.videos.video.Transcription.String != "first we open the console" {
		t.Errorf("transcription = %q not persisted", f.videos.video.Transcription.String)
	}

	var steps []string
	if err := json.Unmarshal(f.videos.video.TutorialSteps, &steps); err != nil {
		t.Fatalf("tutorial steps are not valid JSON: %v", err)
	}
	if len(steps) != 2 || steps[0] != "open the console" {
		t.Errorf("tutorial steps = %v not persisted", steps)
	}

	if size := f.vectors.collections["deploys"]; size != 3 {
		t.Errorf("collection created with vector size %d, want 3", size)
	}
	point, ok := f.vectors.points[qdrant.PointID("vid-1")]
	if !ok {
		t.Fatal("expected a point upserted under the video's stable id")
	}
	if point.Payload["video_id"] != "vid-1" {
		t.Errorf("point payload video_id = %v", point.Payload["video_id"])
	}
}

func TestPipelineStatusesNeverRegress(t *testing.T) {
	f := newPipelineFixture(t)

	f.pipeline.Run(context.Background(), "vid-1")

	history := append([]entity.ProcessingStatus{entity.StatusUploaded}, f.videos.statuses()...)
	for i := 1; i < len(history); i++ {
		if !entity.CanTransition(history[i-1], history[i]) {
			t.Errorf("illegal transition %s -> %s in %v", history[i-1], history[i], history)
		}
	}
}

func TestPipelineDegradedTranscription(t *testing.T) {
	f := newPipelineFixture(t)
	f.stt.err = fmt.Errorf("%w: OPENAI_API_KEY is empty", openai.ErrNotConfigured)

	f.pipeline.Run(context.Background(), "vid-1")

	if f.videos.video.Status != entity.StatusCompleted {
		t.Fatalf("status = %s, want COMPLETED with placeholder transcript", f.videos.video.Status)
	}
	if f.videos.video.Transcription.String != PlaceholderTranscript {
		t.Errorf("transcription = %q, want placeholder", f.videos.video.Transcription.String)
	}
}

func TestPipelineDegradedStepGeneration(t *testing.T) {
	f := newPipelineFixture(t)
	f.steps.steps = nil
	f.steps.err = fmt.Errorf("%w: OPENAI_API_KEY is empty", openai.ErrNotConfigured)

	f.pipeline.Run(context.Background(), "vid-1")

	if f.videos.video.Status != entity.StatusCompleted {
		t.Fatalf("status = %s, want COMPLETED with placeholder steps", f.videos.video.Status)
	}
	var steps []string
	if err := json.Unmarshal(f.videos.video.TutorialSteps, &steps); err != nil {
		t.Fatalf("tutorial steps are not valid JSON: %v", err)
	}
	if len(steps) != 1 || steps[0] != PlaceholderStep {
		t.Errorf("tutorial steps = %v, want the placeholder step", steps)
	}
}

func TestPipelineFatalTranscriptionFailsVideo(t *testing.T) {
	f := newPipelineFixture(t)
	f.stt.err = errors.New("upstream returned 500")

	f.pipeline.Run(context.Background(), "vid-1")

	if f.videos.video.Status != entity.StatusFailed {
		t.Fatalf("status = %s, want FAILED", f.videos.video.Status)
	}
	if !f.videos.video.ErrorMessage.Valid || f.videos.video.ErrorMessage.String == "" {
		t.Error("expected a persisted error message")
	}
	for _, s := range f.videos.statuses() {
		if s == entity.StatusGeneratingSteps {
			t.Error("pipeline must not advance past a fatal transcription failure")
		}
	}
}

func TestPipelineEmbeddingFailureStillCompletes(t *testing.T) {
	f := newPipelineFixture(t)
	f.embedder.err = errors.New("embedding service down")

	f.pipeline.Run(context.Background(), "vid-1")

	if f.videos.video.Status != entity.StatusCompleted {
		t.Fatalf("status = %s, want COMPLETED despite embedding failure", f.videos.video.Status)
	}
	if len(f.vectors.points) != 0 {
		t.Error("no point should be upserted when embedding fails")
	}
}

func TestPipelineUnknownVideoFails(t *testing.T) {
	f := newPipelineFixture(t)

	f.pipeline.Run(context.Background(), "missing")

	if got := f.videos.statuses(); len(got) != 0 {
		t.Errorf("unexpected statuses %v recorded for an unknown video", got)
	}
	if f.videos.video.Status != entity.StatusUploaded {
		t.Errorf("existing video status = %s, must be untouched", f.videos.video.Status)
	}
}
