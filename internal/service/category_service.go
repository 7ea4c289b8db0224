package service

import (
	"context"
	"strings"

	"kkp-asta/internal/model"
	"kkp-asta/internal/repository"
	"kkp-asta/pkg/validator"

	"github.com/google/uuid"
)

type CategoryService interface {
	Create(ctx context.Context, req CategoryRequest, actor string) (*model.Category, error)
	Update(ctx context.Context, id uuid.UUID, req CategoryRequest, actor string) (*model.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, req CategoryRequest, actor string) (*model.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	category := &model.Category{Name: req.Name, Description: req.Description}
	category.CreatedBy = actor
	category.UpdatedBy = actor

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req CategoryRequest, actor string) (*model.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category.Name = req.Name
	category.Description = req.Description
	category.UpdatedBy = actor

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete fails with a constraint violation while items still use the category.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *categoryService) FindAll(ctx context.Context) ([]model.Category, error) {
	return s.repo.FindAll(ctx)
}

func (s *categoryService) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	return s.repo.FindByID(ctx, id)
}
