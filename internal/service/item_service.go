package service

import (
	"context"
	"errors"
	"strings"

	"kkp-asta/internal/apperror"
	"kkp-asta/internal/model"
	"kkp-asta/internal/repository"
	"kkp-asta/pkg/logger"
	"kkp-asta/pkg/validator"

	"github.com/google/uuid"
)

const EventItemChanged = "item_changed"

type ItemService interface {
	Create(ctx context.Context, req ItemRequest, actor string) (*model.Item, error)
	Update(ctx context.Context, id uuid.UUID, req ItemRequest, actor string) (*model.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context, categoryID *uuid.UUID) ([]model.Item, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
}

type ItemRequest struct {
	Name         string    `json:"name" validate:"required,max=255"`
	CategoryID   uuid.UUID `json:"category_id" validate:"uuid_required"`
	Unit         string    `json:"unit" validate:"max=20"`
	CurrentStock *int      `json:"current_stock"`
	IsTrackable  *bool     `json:"is_trackable"`
}

type itemService struct {
	repo         repository.ItemRepository
	categoryRepo repository.CategoryRepository
	notifier     Notifier
}

func NewItemService(repo repository.ItemRepository, categoryRepo repository.CategoryRepository, notifier Notifier) ItemService {
	return &itemService{repo: repo, categoryRepo: categoryRepo, notifier: notifier}
}

func (s *itemService) Create(ctx context.Context, req ItemRequest, actor string) (*model.Item, error) {
	req.Name = strings.TrimSpace(req.Name)
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return nil, validationError(errs)
	}
	category, err := s.category(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	item := &model.Item{
		Name:        req.Name,
		CategoryID:  req.CategoryID,
		Unit:        req.Unit,
		IsTrackable: true,
	}
	if req.CurrentStock != nil {
		item.CurrentStock = *req.CurrentStock
	}
	if req.IsTrackable != nil {
		item.IsTrackable = *req.IsTrackable
	}
	item.CreatedBy = actor
	item.UpdatedBy = actor

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	item.Category = category

	s.notify("created", item, actor)
	return item, nil
}

// Update edits master data. A supplied current_stock overwrites the stored
// value as a manual stock correction.
func (s *itemService) Update(ctx context.Context, id uuid.UUID, req ItemRequest, actor string) (*model.Item, error) {
	req.Name = strings.TrimSpace(req.Name)
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category, err := s.category(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	oldStock := item.CurrentStock
	item.Name = req.Name
	item.CategoryID = req.CategoryID
	item.Category = category
	item.Unit = req.Unit
	if req.CurrentStock != nil {
		item.CurrentStock = *req.CurrentStock
	}
	if req.IsTrackable != nil {
		item.IsTrackable = *req.IsTrackable
	}
	item.UpdatedBy = actor

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	if oldStock != item.CurrentStock {
		logger.Info("stock corrected manually", "item_id", item.ID, "from", oldStock, "to", item.CurrentStock, "user_id", actor)
	}

	s.notify("updated", item, actor)
	return item, nil
}

// Delete fails with a constraint violation once the item has movements.
func (s *itemService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *itemService) FindAll(ctx context.Context, categoryID *uuid.UUID) ([]model.Item, error) {
	return s.repo.FindAll(ctx, categoryID)
}

func (s *itemService) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *itemService) category(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, &apperror.ValidationError{
			Message: "category does not exist",
			Fields:  []apperror.FieldError{{Field: "category_id", Tag: "exists"}},
		}
	}
	return category, err
}

func (s *itemService) notify(action string, item *model.Item, actor string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(EventItemChanged, map[string]interface{}{
		"action":        action,
		"id":            item.ID,
		"name":          item.Name,
		"current_stock": item.CurrentStock,
		"is_trackable":  item.IsTrackable,
		"user_id":       actor,
	})
}
