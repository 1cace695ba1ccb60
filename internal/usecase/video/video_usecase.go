package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"videotutor-api/internal/adapter/qdrant"
	"videotutor-api/internal/domain/entity"
	"videotutor-api/internal/domain/repository"
	"videotutor-api/internal/logger"

	"github.com/google/uuid"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrVideoNotFound   = errors.New("video not found")
)

type VideoUsecase struct {
	videos    repository.VideoRepository
	projects  repository.ProjectRepository
	pipeline  *Pipeline
	watcher   *StatusWatcher
	vectors   VectorStore
	uploadDir string
	log       *logger.Logger
}

func NewVideoUsecase(
	videos repository.VideoRepository,
	projects repository.ProjectRepository,
	pipeline *Pipeline,
	watcher *StatusWatcher,
	vectors VectorStore,
	uploadDir string,
	log *logger.Logger,
) *VideoUsecase {
	return &VideoUsecase{
		videos:    videos,
		projects:  projects,
		pipeline:  pipeline,
		watcher:   watcher,
		vectors:   vectors,
		uploadDir: uploadDir,
		log:       log.WithModule("video_usecase"),
	}
}

// Upload stores the file, creates the record with status UPLOADED and kicks
// off the processing pipeline in the background. The response returns before
// any processing happens.
func (uc *VideoUsecase) Upload(
	ctx context.Context,
	userID, projectID string,
	originalName string,
	src io.Reader,
	description string,
) (*entity.Video, error) {
	project, err := uc.projects.FindByIDAndUserID(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	if err := os.MkdirAll(uc.uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	storedFilename := fmt.Sprintf("%d_%s%s", time.Now().Unix(), uuid.New().String(), filepath.Ext(originalName))
	filePath := filepath.Join(uc.uploadDir, storedFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(filePath)
		return nil, fmt.Errorf("write upload file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return nil, fmt.Errorf("close upload file: %w", err)
	}

	video := &entity.Video{
		ProjectID:      projectID,
		OriginalName:   originalName,
		StoredFilename: storedFilename,
		FilePath:       filePath,
		Description:    description,
		Status:         entity.StatusUploaded,
	}
	if err := uc.videos.Create(ctx, video); err != nil {
		os.Remove(filePath)
		return nil, err
	}

	// fire and forget; the pipeline owns the record from here on
	go uc.pipeline.Run(context.Background(), video.ID)

	return video, nil
}

// List returns a page of a project's videos.
func (uc *VideoUsecase) List(ctx context.Context, userID, projectID string, page, limit int) ([]entity.Video, int, error) {
	project, err := uc.projects.FindByIDAndUserID(ctx, projectID, userID)
	if err != nil {
		return nil, 0, err
	}
	if project == nil {
		return nil, 0, ErrProjectNotFound
	}
	return uc.videos.List(ctx, projectID, page, limit)
}

// GetByID returns one video scoped to the caller's project.
func (uc *VideoUsecase) GetByID(ctx context.Context, userID, projectID, videoID string) (*entity.Video, error) {
	project, err := uc.projects.FindByIDAndUserID(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	video, err := uc.videos.FindByIDAndProjectID(ctx, videoID, projectID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, ErrVideoNotFound
	}
	return video, nil
}

// WatchStatus subscribes to the video's status transitions.
func (uc *VideoUsecase) WatchStatus(ctx context.Context, userID, projectID, videoID string) (<-chan StatusEvent, error) {
	if _, err := uc.GetByID(ctx, userID, projectID, videoID); err != nil {
		return nil, err
	}
	return uc.watcher.Watch(ctx, videoID)
}

// Delete removes a video. On-disk files and the vector-store point are
// deleted best effort per resource; only the database delete can fail the
// operation.
func (uc *VideoUsecase) Delete(ctx context.Context, userID, projectID, videoID string) error {
	project, err := uc.projects.FindByIDAndUserID(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if project == nil {
		return ErrProjectNotFound
	}

	video, err := uc.videos.FindByIDAndProjectID(ctx, videoID, projectID)
	if err != nil {
		return err
	}
	if video == nil {
		return ErrVideoNotFound
	}

	log := uc.log.WithVideo(videoID)

	if err := os.Remove(video.FilePath); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("failed to remove video file")
	}
	if video.AudioPath.Valid {
		if err := os.Remove(video.AudioPath.String); err != nil && !os.IsNotExist(err) {
			log.WithError(err).Warn("failed to remove audio file")
		}
	}
	if err := uc.vectors.DeletePoint(ctx, project.CollectionName, qdrant.PointID(videoID)); err != nil {
		log.WithError(err).Warn("failed to remove vector point")
	}

	return uc.videos.Delete(ctx, videoID)
}
