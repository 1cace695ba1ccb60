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

type projectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) repository.ProjectRepository {
	return &projectRepository{db: db}
}

// create project
func (r *projectRepository) Create(ctx context.Context, project *entity.Project) error {
	project.ID = uuid.New().String()
	project.CreatedAt = time.Now()
	project.UpdatedAt = time.Now()

	query := `
		INSERT INTO projects (id, user_id, name, collection_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query, project.ID, project.UserID, project.Name, project.CollectionName, project.CreatedAt, project.UpdatedAt)
	return err
}

// find project by id
func (r *projectRepository) FindByID(ctx context.Context, id string) (*entity.Project, error) {
	var project entity.Project
	query := `SELECT * FROM projects WHERE id = $1`
	err := r.db.GetContext(ctx, &project, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// find project by id and user id
func (r *projectRepository) FindByIDAndUserID(ctx context.Context, id, userID string) (*entity.Project, error) {
	var project entity.Project
	query := `SELECT * FROM projects WHERE id = $1 AND user_id = $2`
	err := r.db.GetContext(ctx, &project, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// find project by normalized collection name, used to enforce uniqueness on
// the normalized form rather than the raw name
func (r *projectRepository) FindByCollectionName(ctx context.Context, userID, collectionName string) (*entity.Project, error) {
	var project entity.Project
	query := `SELECT * FROM projects WHERE user_id = $1 AND collection_name = $2`
	err := r.db.GetContext(ctx, &project, query, userID, collectionName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// list projects for a user
func (r *projectRepository) List(ctx context.Context, userID string) ([]entity.Project, error) {
	var projects []entity.Project
	query := `SELECT * FROM projects WHERE user_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &projects, query, userID)
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// delete project
func (r *projectRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM projects WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
