package repository

import (
	"context"
	"videotutor-api/internal/domain/entity"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	FindByID(ctx context.Context, id string) (*entity.Project, error)
	FindByIDAndUserID(ctx context.Context, id, userID string) (*entity.Project, error)
	FindByCollectionName(ctx context.Context, userID, collectionName string) (*entity.Project, error)
	List(ctx context.Context, userID string) ([]entity.Project, error)
	Delete(ctx context.Context, id string) error
}
