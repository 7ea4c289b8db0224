package service

import (
	"context"
	"errors"

	"kkp-asta/internal/apperror"
	"kkp-asta/internal/model"
	"kkp-asta/internal/repository"
	"kkp-asta/pkg/jwt"
	"kkp-asta/pkg/logger"
	"kkp-asta/pkg/validator"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Issuer
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Issuer) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	email = normalizeEmail(email)
	if errs := validator.ValidateStruct(&LoginRequest{Email: email, Password: password}); len(errs) > 0 {
		return nil, validationError(errs)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, wrapUnauthorized(ErrInvalidCredentials)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, wrapUnauthorized(ErrUserInactive)
	}
	if !user.CheckPassword(password) {
		return nil, wrapUnauthorized(ErrInvalidCredentials)
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Name, string(user.Role))
	if err != nil {
		logger.Error("failed to sign token", "user_id", user.ID, "error", err)
		return nil, errors.New("failed to generate token")
	}

	logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return &LoginResponse{Token: token, User: user.ToResponse()}, nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return validationError(errs)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(req.OldPassword) {
		return &apperror.ValidationError{Message: ErrWrongPassword.Error()}
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return errors.New("failed to hash new password")
	}
	return s.userRepo.UpdatePassword(ctx, user.ID, user.Password)
}

type unauthorizedError struct{ reason error }

func (e *unauthorizedError) Error() string { return e.reason.Error() }

func (e *unauthorizedError) Unwrap() []error { return []error{apperror.ErrUnauthorized, e.reason} }

func wrapUnauthorized(reason error) error {
	return &unauthorizedError{reason: reason}
}
