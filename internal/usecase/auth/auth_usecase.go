package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"videotutor-api/internal/domain/entity"
	"videotutor-api/internal/domain/repository"
	"videotutor-api/pkg/jwt"
	"videotutor-api/pkg/password"
)

type AuthUsecase struct {
	userRepo  repository.UserRepository
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthUsecase(
	userRepo repository.UserRepository,
	jwtSecret string,
	jwtExpiry time.Duration,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// register user
func (uc *AuthUsecase) Register(
	ctx context.Context,
	email, pass, name string,
	role entity.UserRole,
) (*entity.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || pass == "" || name == "" {
		return nil, errors.New("all fields are required")
	}

	existing, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	hashedPassword, err := password.HashPassword(pass)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:    email,
		Password: hashedPassword,
		Name:     name,
		Role:     role,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// login user
func (uc *AuthUsecase) Login(
	ctx context.Context,
	email, pass string,
) (string, *entity.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || pass == "" {
		return "", nil, errors.New("email and password are required")
	}

	user, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, errors.New("invalid credentials")
	}

	if err := password.ComparePassword(user.Password, pass); err != nil {
		return "", nil, errors.New("invalid credentials")
	}

	token, err := jwt.GenerateToken(
		user.ID,
		user.Email,
		string(user.Role),
		uc.jwtSecret,
		uc.jwtExpiry,
	)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// current user
func (uc *AuthUsecase) Me(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.FindById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}
