package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"videotutor-api/internal/domain/entity"
	"videotutor-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type videoRepository struct {
	db *sqlx.DB
}

func NewVideoRepository(db *sqlx.DB) repository.VideoRepository {
	return &videoRepository{db: db}
}

// create video record
func (r *videoRepository) Create(ctx context.Context, video *entity.Video) error {
	video.ID = uuid.New().String()
	video.CreatedAt = time.Now()
	video.UpdatedAt = time.Now()

	query := `
		INSERT INTO videos (id, project_id, original_name, stored_filename, file_path, description, processing_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query, video.ID, video.ProjectID, video.OriginalName, video.StoredFilename, video.FilePath, video.Description, video.Status, video.CreatedAt, video.UpdatedAt)
	return err
}

// find video by id
func (r *videoRepository) FindByID(ctx context.Context, id string) (*entity.Video, error) {
	var video entity.Video
	query := `SELECT * FROM videos WHERE id = $1`
	err := r.db.GetContext(ctx, &video, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// find video by id scoped to a project
func (r *videoRepository) FindByIDAndProjectID(ctx context.Context, id, projectID string) (*entity.Video, error) {
	var video entity.Video
	query := `SELECT * FROM videos WHERE id = $1 AND project_id = $2`
	err := r.db.GetContext(ctx, &video, query, id, projectID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// list videos for a project
func (r *videoRepository) List(ctx context.Context, projectID string, page, limit int) ([]entity.Video, int, error) {
	offset := (page - 1) * limit

	var videos []entity.Video
	query := `SELECT * FROM videos WHERE project_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	err := r.db.SelectContext(ctx, &videos, query, projectID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	var total int
	query = `SELECT COUNT(*) FROM videos WHERE project_id = $1`
	err = r.db.GetContext(ctx, &total, query, projectID)
	if err != nil {
		return nil, 0, err
	}

	return videos, total, nil
}

// update status only
func (r *videoRepository) UpdateStatus(ctx context.Context, id string, status entity.ProcessingStatus) error {
	query := `UPDATE videos SET processing_status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, status, id)
	return err
}

// persist audio path together with the next status in one row update
func (r *videoRepository) UpdateAudioPath(ctx context.Context, id, audioPath string, status entity.ProcessingStatus) error {
	query := `UPDATE videos SET audio_path = $1, processing_status = $2, updated_at = NOW() WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, audioPath, status, id)
	return err
}

// persist transcription together with the next status in one row update
func (r *videoRepository) UpdateTranscription(ctx context.Context, id, transcription string, status entity.ProcessingStatus) error {
	query := `UPDATE videos SET transcription = $1, processing_status = $2, updated_at = NOW() WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, transcription, status, id)
	return err
}

// persist serialized steps together with the next status in one row update
func (r *videoRepository) UpdateTutorialSteps(ctx context.Context, id string, steps []byte, status entity.ProcessingStatus) error {
	query := `UPDATE videos SET tutorial_steps = $1, processing_status = $2, updated_at = NOW() WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, steps, status, id)
	return err
}

// mark failed with a free-text message for operator diagnosis
func (r *videoRepository) MarkFailed(ctx context.Context, id, errorMessage string) error {
	query := `UPDATE videos SET processing_status = $1, error_message = $2, updated_at = NOW() WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, entity.StatusFailed, errorMessage, id)
	return err
}

// delete video record
func (r *videoRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM videos WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
