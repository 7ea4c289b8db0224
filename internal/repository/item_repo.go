package repository

import (
	"context"

	"kkp-asta/internal/apperror"
	"kkp-asta/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	FindAll(ctx context.Context, categoryID *uuid.UUID) ([]model.Item, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type itemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepository {
	return &itemRepo{db}
}

func (r *itemRepo) Create(ctx context.Context, item *model.Item) error {
	return apperror.FromDB(r.db.WithContext(ctx).Omit("Category").Create(item).Error)
}

func (r *itemRepo) FindAll(ctx context.Context, categoryID *uuid.UUID) ([]model.Item, error) {
	var items []model.Item
	q := r.db.WithContext(ctx).Preload("Category")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	err := q.Order("name ASC").Find(&items).Error
	return items, apperror.FromDB(err)
}

func (r *itemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).Preload("Category").First(&item, "id = ?", id).Error; err != nil {
		return nil, apperror.FromDB(err)
	}
	return &item, nil
}

// Update saves the master-data columns. Stock edits go through the same path
// as a direct correction; posted transactions use Ledger.AdjustStock instead.
func (r *itemRepo) Update(ctx context.Context, item *model.Item) error {
	return apperror.FromDB(r.db.WithContext(ctx).Omit("Category").Save(item).Error)
}

func (r *itemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Item{}, "id = ?", id)
	if res.Error != nil {
		return apperror.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}
