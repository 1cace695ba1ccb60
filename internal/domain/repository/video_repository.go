package repository

import (
	"context"
	"videotutor-api/internal/domain/entity"
)

type VideoRepository interface {
	Create(ctx context.Context, video *entity.Video) error
	FindByID(ctx context.Context, id string) (*entity.Video, error)
	FindByIDAndProjectID(ctx context.Context, id, projectID string) (*entity.Video, error)
	List(ctx context.Context, projectID string, page, limit int) ([]entity.Video, int, error)
	UpdateStatus(ctx context.Context, id string, status entity.ProcessingStatus) error
	UpdateAudioPath(ctx context.Context, id, audioPath string, status entity.ProcessingStatus) error
	UpdateTranscription(ctx context.Context, id, transcription string, status entity.ProcessingStatus) error
	UpdateTutorialSteps(ctx context.Context, id string, steps []byte, status entity.ProcessingStatus) error
	MarkFailed(ctx context.Context, id, errorMessage string) error
	Delete(ctx context.Context, id string) error
}
