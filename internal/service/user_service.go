package service

import (
	"context"
	"errors"
	"strings"

	"kkp-asta/internal/apperror"
	"kkp-asta/internal/model"
	"kkp-asta/internal/repository"
	"kkp-asta/pkg/validator"

	"github.com/google/uuid"
)

type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest, creatorID string) (*model.UserResponse, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req UpdateUserRequest, updaterID string) (*model.UserResponse, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	GetAllUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
	// EnsureOwner creates the bootstrap owner account when no user has that email.
	EnsureOwner(ctx context.Context, name, email, password string) (bool, error)
}

type CreateUserRequest struct {
	Name     string     `json:"name" validate:"required,max=255"`
	Email    string     `json:"email" validate:"required,email"`
	Password string     `json:"password" validate:"required,min=6"`
	Role     model.Role `json:"role" validate:"required,oneof=owner staff"`
}

type UpdateUserRequest struct {
	Name     string     `json:"name" validate:"required,max=255"`
	Email    string     `json:"email" validate:"required,email"`
	Password *string    `json:"password,omitempty" validate:"omitempty,min=6"`
	Role     model.Role `json:"role" validate:"required,oneof=owner staff"`
	IsActive *bool      `json:"is_active"`
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest, creatorID string) (*model.UserResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	user := &model.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Role:     req.Role,
		IsActive: true,
	}
	user.CreatedBy = creatorID
	user.UpdatedBy = creatorID
	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	// Duplicate emails surface as a constraint violation from the unique index
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID uuid.UUID, req UpdateUserRequest, updaterID string) (*model.UserResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Email = req.Email
	user.Role = req.Role
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = updaterID

	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, errors.New("failed to hash password")
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.Delete(ctx, userID)
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := user.ToResponse()
	return &response, nil
}

func (s *userService) EnsureOwner(ctx context.Context, name, email, password string) (bool, error) {
	email = normalizeEmail(email)
	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return false, err
	}

	_, err = s.CreateUser(ctx, CreateUserRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     model.RoleOwner,
	}, "system")
	if err != nil {
		return false, err
	}
	return true, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
