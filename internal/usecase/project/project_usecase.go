package project

import (
	"context"
	"errors"
	"strings"

	"videotutor-api/internal/adapter/qdrant"
	"videotutor-api/internal/domain/entity"
	"videotutor-api/internal/domain/repository"
	"videotutor-api/internal/logger"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrNameTaken       = errors.New("a project with an equivalent collection name already exists")
	ErrInvalidName     = errors.New("project name is empty after normalization")
)

// VectorCollections is the slice of the vector store the project usecase
// needs: dropping a project drops its collection.
type VectorCollections interface {
	DeleteCollection(ctx context.Context, name string) error
}

type ProjectUsecase struct {
	projects repository.ProjectRepository
	vectors  VectorCollections
	log      *logger.Logger
}

func NewProjectUsecase(projects repository.ProjectRepository, vectors VectorCollections, log *logger.Logger) *ProjectUsecase {
	return &ProjectUsecase{
		projects: projects,
		vectors:  vectors,
		log:      log.WithModule("project_usecase"),
	}
}

// Create derives the vector collection name from the project name and rejects
// the project when another one already normalizes to the same collection —
// uniqueness is enforced on the normalized form, not the raw name.
func (uc *ProjectUsecase) Create(ctx context.Context, userID, name string) (*entity.Project, error) {
	name = strings.TrimSpace(name)
	collectionName := qdrant.NormalizeCollectionName(name)
	if strings.Trim(collectionName, "_") == "" {
		return nil, ErrInvalidName
	}

	existing, err := uc.projects.FindByCollectionName(ctx, userID, collectionName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrNameTaken
	}

	proj := &entity.Project{
		UserID:         userID,
		Name:           name,
		CollectionName: collectionName,
	}
	if err := uc.projects.Create(ctx, proj); err != nil {
		return nil, err
	}
	return proj, nil
}

// List returns the caller's projects.
func (uc *ProjectUsecase) List(ctx context.Context, userID string) ([]entity.Project, error) {
	return uc.projects.List(ctx, userID)
}

// GetByID returns one project owned by the caller.
func (uc *ProjectUsecase) GetByID(ctx context.Context, userID, projectID string) (*entity.Project, error) {
	proj, err := uc.projects.FindByIDAndUserID(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if proj == nil {
		return nil, ErrProjectNotFound
	}
	return proj, nil
}

// Delete drops the project's vector collection best effort, then the row.
// Video rows go with the project via the schema's cascade.
func (uc *ProjectUsecase) Delete(ctx context.Context, userID, projectID string) error {
	proj, err := uc.projects.FindByIDAndUserID(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if proj == nil {
		return ErrProjectNotFound
	}

	if err := uc.vectors.DeleteCollection(ctx, proj.CollectionName); err != nil {
		uc.log.WithField("project_id", projectID).WithError(err).Warn("failed to delete vector collection")
	}

	return uc.projects.Delete(ctx, projectID)
}
